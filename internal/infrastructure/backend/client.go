// Package backend implements the conversational AI backend adapter: a
// JSON-over-HTTP client with Server-Sent Events streaming for session
// messages.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// Client talks to the backend REST surface. Session message streams are
// handled by Session.
type Client struct {
	endpoint   string
	authEnvVar string
	httpClient *http.Client
	logger     ports.Logger
}

var _ ports.BackendClient = (*Client)(nil)

// New builds a client from the backend section of the configuration. No
// network traffic happens until Start.
func New(cfg domain.BackendConfig, logger ports.Logger) *Client {
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		authEnvVar: cfg.AuthEnvVar,
		// No overall timeout: streamed responses stay open for the whole
		// generation. Cancellation comes from the request context.
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Start verifies the backend is reachable.
func (c *Client) Start(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/v1/health", &out); err != nil {
		return fmt.Errorf("backend health check: %w", err)
	}
	return nil
}

// AuthStatus reports whether the configured credential is accepted.
func (c *Client) AuthStatus(ctx context.Context) (domain.AuthStatus, error) {
	var out struct {
		Authenticated bool   `json:"authenticated"`
		Login         string `json:"login"`
	}
	if c.token() == "" {
		return domain.AuthStatus{}, nil
	}
	if err := c.getJSON(ctx, "/v1/auth/status", &out); err != nil {
		return domain.AuthStatus{}, err
	}
	return domain.AuthStatus{Authenticated: out.Authenticated, Login: out.Login}, nil
}

// ListModels fetches the selectable model catalog.
func (c *Client) ListModels(ctx context.Context) ([]domain.AvailableModel, error) {
	var out struct {
		Models []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Premium bool   `json:"premium"`
		} `json:"models"`
	}
	if err := c.getJSON(ctx, "/v1/models", &out); err != nil {
		return nil, err
	}
	models := make([]domain.AvailableModel, 0, len(out.Models))
	for _, m := range out.Models {
		models = append(models, domain.AvailableModel{ID: m.ID, Name: m.Name, Premium: m.Premium})
	}
	return models, nil
}

// CreateSession registers a session bound to the requested model and tool
// servers and returns the streaming handle.
func (c *Client) CreateSession(ctx context.Context, cfg domain.SessionConfig) (ports.BackendSession, error) {
	type toolServer struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	payload := struct {
		Model         string       `json:"model"`
		Streaming     bool         `json:"streaming"`
		SystemMessage string       `json:"systemMessage,omitempty"`
		ToolServers   []toolServer `json:"toolServers,omitempty"`
	}{
		Model:         cfg.Model,
		Streaming:     cfg.Streaming,
		SystemMessage: cfg.SystemMessage,
	}
	for _, ts := range cfg.ToolServers {
		payload.ToolServers = append(payload.ToolServers, toolServer{Name: ts.Name, URL: ts.URL})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, c.statusError(resp)
	}

	var out struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding session response: %w", err)
	}
	if out.SessionID == "" {
		return nil, fmt.Errorf("backend returned an empty session id")
	}

	return newSession(c, out.SessionID), nil
}

// Stop releases pooled connections. Idempotent.
func (c *Client) Stop() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) token() string {
	if c.authEnvVar == "" {
		return ""
	}
	return os.Getenv(c.authEnvVar)
}

func (c *Client) setAuth(req *http.Request) {
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return err
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return c.statusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("backend %s: %s", resp.Request.URL.Path, msg)
}
