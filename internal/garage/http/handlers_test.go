package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moto-tune/suspension-backend/internal/auth"
	"github.com/moto-tune/suspension-backend/internal/garage/garagetest"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := garagetest.Service()

	r := gin.New()
	g := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(auth.CtxFirebaseUID, c.GetHeader("X-User-Id"))
		c.Next()
	})
	New(svc).Register(g)
	return r
}

func do(r *gin.Engine, method, path, uid, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", uid)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGarageFlow(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/v1/motos", "u1", `{"brand":"KTM","model":"350 SX-F","year":2023}`)
	require.Equal(t, http.StatusCreated, w.Code)
	motoID := decode(t, w)["moto"].(map[string]any)["id"].(string)

	w = do(r, http.MethodPost, "/api/v1/motos/"+motoID+"/kits", "u1", `{"name":"WP","base_settings":{"fork_compression":15}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	kitID := decode(t, w)["kit"].(map[string]any)["id"].(string)

	w = do(r, http.MethodGet, "/api/v1/kits/"+kitID+"/balance", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decode(t, w)["view"].(map[string]any)
	assert.Equal(t, float64(75), view["balance"].(map[string]any)["frontCompression"])

	w = do(r, http.MethodPost, "/api/v1/kits/"+kitID+"/adjustment", "u1", `{"target":{"fork_compression":5}}`)
	require.Equal(t, http.StatusOK, w.Code)
	steps := decode(t, w)["plan"].(map[string]any)["steps"].([]any)
	require.Len(t, steps, 1)
	assert.Equal(t, "CCW", steps[0].(map[string]any)["direction"])

	w = do(r, http.MethodGet, "/api/v1/kits/"+kitID, "u2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["ok"])
}

func TestGarageValidationErrors(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/v1/motos", "u1", `{"brand":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/motos", "u1", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid body", decode(t, w)["error"])

	w = do(r, http.MethodPut, "/api/v1/configs/missing/visibility", "u1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSharedConfigIsReadOnlyForOthers(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/v1/motos", "u1", `{"brand":"Sherco","model":"300 SEF"}`)
	motoID := decode(t, w)["moto"].(map[string]any)["id"].(string)
	w = do(r, http.MethodPost, "/api/v1/motos/"+motoID+"/kits", "u1", `{"name":"Stock"}`)
	kitID := decode(t, w)["kit"].(map[string]any)["id"].(string)
	w = do(r, http.MethodPost, "/api/v1/kits/"+kitID+"/configs", "u1", `{"name":"Enduro","terrain":"Rocks","is_public":true}`)
	require.Equal(t, http.StatusCreated, w.Code)
	cfgID := decode(t, w)["config"].(map[string]any)["id"].(string)

	w = do(r, http.MethodGet, "/api/v1/configs/"+cfgID, "u2", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/configs/"+cfgID, "u2", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/api/v1/explore/configs?terrain=rocks", "u2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["configs"].([]any), 1)
}
