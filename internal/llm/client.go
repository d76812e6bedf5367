// Package llm talks to the tuning-assistant completion provider.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/moto-tune/suspension-backend/config"
	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

// ErrEmptyReply is returned when the provider answers without text.
var ErrEmptyReply = errors.New("llm: empty reply")

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Message string `json:"message"`
	History []Turn `json:"history"`
	Context string `json:"context,omitempty"`
}

// Response is the assistant reply. Settings is set when the reply proposes
// concrete click values.
type Response struct {
	Text     string                `json:"text"`
	Settings *susp.PartialSettings `json:"settings,omitempty"`
	Error    string                `json:"error,omitempty"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New builds a client from config. A non-empty TokenURL wraps the transport
// with OAuth2 client-credentials.
func New(cfg config.LLMConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	hc := &http.Client{Timeout: timeout}

	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
		hc = cc.Client(ctx)
		hc.Timeout = timeout
	}

	return &Client{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		HTTP:    hc,
	}
}

// Generate posts one user message with its history and free-text context.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.History == nil {
		req.History = []Turn{}
	}
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("llm encode: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/generate", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("llm request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("llm error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("llm decode: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("llm provider: %s", out.Error)
	}
	if strings.TrimSpace(out.Text) == "" {
		return nil, ErrEmptyReply
	}
	if out.Settings != nil && out.Settings.IsEmpty() {
		out.Settings = nil
	}
	return &out, nil
}
