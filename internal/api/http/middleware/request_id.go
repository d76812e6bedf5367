package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moto-tune/suspension-backend/internal/auth"
	"github.com/moto-tune/suspension-backend/internal/logging"
)

const (
	HeaderRequestID = "X-Request-Id"
	maxRequestIDLen = 64
)

// RequestIDMiddleware tags the request with an id taken from X-Request-Id or
// freshly generated, echoes it back and writes one access line per request.
// SSE streams log when the stream closes.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = strings.ReplaceAll(uuid.NewString(), "-", "")
		}

		c.Set("request_id", rid)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), rid))
		c.Writer.Header().Set(HeaderRequestID, rid)

		start := time.Now()
		c.Next()

		uid := auth.UserFirebaseUID(c)
		if uid == "" {
			uid = "-"
		}
		log.Printf("[req] id=%s uid=%s %s %s status=%d latency=%s",
			rid, uid, c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}
