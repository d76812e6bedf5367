package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/moto-tune/suspension-backend/config"
	httpapi "github.com/moto-tune/suspension-backend/internal/api/http"
	"github.com/moto-tune/suspension-backend/internal/api/http/middleware"
	"github.com/moto-tune/suspension-backend/internal/auth"
	authhttp "github.com/moto-tune/suspension-backend/internal/auth/http"
	authmw "github.com/moto-tune/suspension-backend/internal/auth/middleware"
	convhttp "github.com/moto-tune/suspension-backend/internal/conversation/http"
	garagehttp "github.com/moto-tune/suspension-backend/internal/garage/http"
	socialhttp "github.com/moto-tune/suspension-backend/internal/social/http"
	susphttp "github.com/moto-tune/suspension-backend/internal/suspension/http"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	Stores      *Stores
	Services    *Services
	// Verifier checks Firebase ID tokens; nil enables the X-User-Id dev mode.
	Verifier authmw.TokenVerifier
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	cfg := dep.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id", "X-User-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var dbPinger, redisPinger httpapi.Pinger
	if dep.Stores != nil {
		if dep.Stores.PG != nil {
			dbPinger = dep.Stores.PG.Pool
		}
		redisPinger = httpapi.RedisPinger(dep.Stores.Redis)
	}
	httpapi.NewHealthHandler(dep.ServiceName, cfg.App.Version, dbPinger, redisPinger).RegisterRoutes(r)

	api := r.Group("/api/v1")
	if dep.Verifier != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.Verifier))
	} else {
		api.Use(authmw.DevUserMiddleware())
	}

	svc := dep.Services
	authHandler := authhttp.New(svc.Auth)
	authHandler.Register(api.Group("/auth"))
	authHandler.RegisterPublic(api)

	garagehttp.New(svc.Garage).Register(api)

	limiter := svc.ChatLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.ChatPerMinute, cfg.RateLimit.Burst)
	}
	convhttp.New(svc.Chat).Register(api, limiter.Middleware(auth.UserFirebaseUID))

	socialhttp.New(svc.Social, svc.Graph).Register(api)
	susphttp.New().Register(api)

	return r
}
