package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moto-tune/suspension-backend/internal/api/http/middleware"
	"github.com/moto-tune/suspension-backend/internal/auth"
	"github.com/moto-tune/suspension-backend/internal/conversation/domain"
	"github.com/moto-tune/suspension-backend/internal/conversation/service"
	"github.com/moto-tune/suspension-backend/internal/llm"
)

type memStore struct {
	conv     domain.Conversation
	phaseErr error
}

func (m *memStore) Create(_ context.Context, c *domain.Conversation) error {
	c.ID = "c-1"
	m.conv = *c
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*domain.Conversation, error) {
	if id != m.conv.ID {
		return nil, domain.ErrNotFound
	}
	c := m.conv
	return &c, nil
}

func (m *memStore) ListByOwner(context.Context, string) ([]domain.Conversation, error) {
	return []domain.Conversation{m.conv}, nil
}

func (m *memStore) UpdatePhase(context.Context, string, domain.PhaseUpdate) error { return m.phaseErr }

func (m *memStore) InsertTurn(context.Context, string, *domain.Message, *domain.Message) error {
	return nil
}

func (m *memStore) ListMessages(context.Context, string, int) ([]domain.Message, error) {
	return nil, nil
}

type staticLLM struct {
	text string
	err  error
}

func (s staticLLM) Generate(context.Context, llm.Request) (*llm.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Text: s.text}, nil
}

type noKits struct{}

func (noKits) DescribeKit(context.Context, string, string) (string, error) { return "", nil }

func newRouter(store *memStore, completer service.Completer, limit gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(auth.CtxFirebaseUID, "u1")
		c.Next()
	})
	New(service.NewChatService(store, completer, noKits{}, nil)).Register(g, limit)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostMessage_ReportsStalePhase(t *testing.T) {
	store := &memStore{phaseErr: errors.New("timeout")}
	r := newRouter(store, staticLLM{text: "Vérifions ensemble ton sag"}, nil)

	w := post(r, "/api/v1/conversations", `{"title":"Enduro"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = post(r, "/api/v1/conversations/c-1/messages", `{"message":"c'est trop mou"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["phase_stale"])
	assert.Equal(t, "collecte", body["step"])
}

func TestPostMessage_DegradedReply(t *testing.T) {
	store := &memStore{}
	r := newRouter(store, staticLLM{err: errors.New("down")}, nil)
	post(r, "/api/v1/conversations", `{}`)

	w := post(r, "/api/v1/conversations/c-1/messages", `{"message":"salut"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, service.Apology, body["answer"])
	assert.Equal(t, true, body["degraded"])
}

func TestPostMessage_RateLimited(t *testing.T) {
	store := &memStore{}
	limiter := middleware.NewRateLimiter(1, 1)
	r := newRouter(store, staticLLM{text: "Quel terrain ?"}, limiter.Middleware(auth.UserFirebaseUID))
	post(r, "/api/v1/conversations", `{}`)

	w := post(r, "/api/v1/conversations/c-1/messages", `{"message":"un"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = post(r, "/api/v1/conversations/c-1/messages", `{"message":"deux"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestPostMessage_BadRequests(t *testing.T) {
	r := newRouter(&memStore{}, staticLLM{text: "ok"}, nil)

	w := post(r, "/api/v1/conversations/c-1/messages", `{"message":" "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, "/api/v1/conversations/missing/messages", `{"message":"hello"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
