// Package services contains the application core: the session manager state
// machine and the interactive chat orchestrator.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// SessionState tracks where the manager is in its lifecycle.
type SessionState string

const (
	StateUninitialized  SessionState = "uninitialized"
	StateConnecting     SessionState = "connecting"
	StateReady          SessionState = "ready"
	StateGenerating     SessionState = "generating"
	StateSwitchingModel SessionState = "switching_model"
	StateClosed         SessionState = "closed"
)

// SessionOptions carries the configuration every created session shares.
type SessionOptions struct {
	ToolServers   []domain.ToolServerConfig
	SystemMessage string
	Country       string
	// OnActivity receives the current tool label for progress display, and
	// an empty string when the activity ends. Never called concurrently.
	OnActivity func(label string)
}

// SessionManager owns the backend client handle, the active session, the
// current model, the quota snapshot, and the per-content-kind result cache.
//
// Generating and SwitchingModel are mutually exclusive; each returns to Ready
// on completion or failure. No operation is accepted while Connecting. The
// manager is driven by a single thread of control, so no locking is needed.
type SessionManager struct {
	client ports.BackendClient
	logger ports.Logger
	opts   SessionOptions

	session ports.BackendSession
	model   string
	state   SessionState
	quota   *domain.QuotaInfo
	cache   map[domain.ContentKind]string
}

// NewSessionManager builds an uninitialized manager around a backend client.
func NewSessionManager(client ports.BackendClient, logger ports.Logger, opts SessionOptions) *SessionManager {
	return &SessionManager{
		client: client,
		logger: logger,
		opts:   opts,
		state:  StateUninitialized,
		cache:  make(map[domain.ContentKind]string),
	}
}

// State exposes the current lifecycle state.
func (m *SessionManager) State() SessionState { return m.state }

// Model returns the identifier of the currently bound model.
func (m *SessionManager) Model() string { return m.model }

// Quota returns the latest usage snapshot, or nil if the backend has not
// emitted one yet.
func (m *SessionManager) Quota() *domain.QuotaInfo { return m.quota }

// HasCached reports whether a result is already cached for kind.
func (m *SessionManager) HasCached(kind domain.ContentKind) bool {
	_, ok := m.cache[kind]
	return ok
}

// Initialize starts the client and creates the first session bound to model.
// The backend must already report authenticated.
func (m *SessionManager) Initialize(ctx context.Context, model string) error {
	if m.state != StateUninitialized {
		return fmt.Errorf("session manager already initialized (state %s)", m.state)
	}
	m.state = StateConnecting

	status, err := m.client.AuthStatus(ctx)
	if err != nil {
		m.state = StateUninitialized
		return &domain.ConnectionError{Op: "auth check", Err: err}
	}
	if !status.Authenticated {
		m.state = StateUninitialized
		return domain.ErrNotAuthenticated
	}

	if err := m.client.Start(ctx); err != nil {
		m.state = StateUninitialized
		return &domain.ConnectionError{Op: "client start", Err: err}
	}

	session, err := m.client.CreateSession(ctx, m.sessionConfig(model))
	if err != nil {
		m.state = StateUninitialized
		return &domain.ConnectionError{Op: "session create", Err: err}
	}

	m.session = session
	m.model = model
	m.state = StateReady
	return nil
}

// SwitchModel destroys the current session and creates a new one bound to
// newModel with identical tool and system configuration. Switching to the
// already-active model performs no session calls at all. Destroy failures are
// swallowed: a stale session must never block progress. If the create fails,
// the manager is left with no live session and the error propagates.
func (m *SessionManager) SwitchModel(ctx context.Context, newModel string) error {
	if newModel == m.model {
		return nil
	}
	if err := m.enter(StateSwitchingModel); err != nil {
		return err
	}
	defer m.leave()

	if m.session != nil {
		if err := m.session.Destroy(); err != nil {
			m.logger.Warn("session destroy failed", map[string]interface{}{"error": err.Error()})
		}
		m.session = nil
	}

	session, err := m.client.CreateSession(ctx, m.sessionConfig(newModel))
	if err != nil {
		return &domain.ConnectionError{Op: "session create", Err: err}
	}

	m.session = session
	m.model = newModel
	return nil
}

// Generate returns the content for kind, serving the per-kind cache unless
// regenerate is set. On success the cleaned text is cached and returned.
func (m *SessionManager) Generate(ctx context.Context, kind domain.ContentKind, app domain.AppInfo, regenerate bool) (string, error) {
	if regenerate {
		delete(m.cache, kind)
	} else if cached, ok := m.cache[kind]; ok {
		return cached, nil
	}

	prompt, err := domain.BuildGenerationPrompt(kind, app)
	if err != nil {
		return "", err
	}

	if err := m.enter(StateGenerating); err != nil {
		return "", err
	}
	defer m.leave()

	text, err := m.stream(ctx, prompt)
	if err != nil {
		return "", m.asGenerationError(kind, err)
	}

	clean := domain.CleanOutput(text)
	m.cache[kind] = clean
	return clean, nil
}

// RefineContent sends a refinement prompt for kind and overwrites its cache
// entry with the new text.
func (m *SessionManager) RefineContent(ctx context.Context, kind domain.ContentKind, current, feedback string, app domain.AppInfo) (string, error) {
	prompt, err := domain.BuildRefinementPrompt(kind, current, feedback, app)
	if err != nil {
		return "", err
	}

	if err := m.enter(StateGenerating); err != nil {
		return "", err
	}
	defer m.leave()

	text, err := m.stream(ctx, prompt)
	if err != nil {
		return "", m.asGenerationError(kind, err)
	}

	clean := domain.CleanOutput(text)
	m.cache[kind] = clean
	return clean, nil
}

// ScoreKeyword asks the backend to invoke the keyword-scoring tool and
// summarize the result. Scores are never cached.
func (m *SessionManager) ScoreKeyword(ctx context.Context, keyword string) (string, error) {
	if err := m.enter(StateGenerating); err != nil {
		return "", err
	}
	defer m.leave()

	text, err := m.stream(ctx, domain.BuildScorePrompt(keyword, m.opts.Country))
	if err != nil {
		return "", m.asGenerationError("", err)
	}
	return domain.CleanOutput(text), nil
}

// Cleanup releases the session and client. Every step is best-effort: cleanup
// runs on exit paths, including interrupt handling, and must never fail the
// caller or mask the primary exit path.
func (m *SessionManager) Cleanup() {
	if m.state == StateClosed {
		return
	}
	m.state = StateClosed

	if m.session != nil {
		if err := m.session.Destroy(); err != nil {
			m.logger.Warn("session destroy failed during cleanup", map[string]interface{}{"error": err.Error()})
		}
		m.session = nil
	}
	if err := m.client.Stop(); err != nil {
		m.logger.Warn("client stop failed during cleanup", map[string]interface{}{"error": err.Error()})
	}
}

// stream sends one prompt and interprets the event stream until the terminal
// event. The subscription is registered before the send so deltas emitted
// immediately cannot be missed. Deltas are applied in arrival order; tool
// events only drive the activity callback; usage events overwrite the quota
// snapshot. idle resolves with the accumulated buffer, error discards it.
func (m *SessionManager) stream(ctx context.Context, prompt string) (string, error) {
	if m.session == nil {
		return "", domain.ErrSessionClosed
	}

	events, cancel := m.session.Subscribe()
	defer cancel()

	if err := m.session.Send(ctx, prompt); err != nil {
		return "", &domain.ConnectionError{Op: "send", Err: err}
	}

	var buf strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case event, ok := <-events:
			if !ok {
				return "", &domain.ConnectionError{Op: "stream", Err: errors.New("event stream closed before terminal event")}
			}
			switch event.Kind {
			case domain.EventMessageDelta:
				buf.WriteString(event.Text)
			case domain.EventToolStart:
				m.notifyActivity(event.Tool)
			case domain.EventToolComplete:
				m.notifyActivity("")
			case domain.EventUsage:
				if event.Quota != nil {
					snapshot := *event.Quota
					m.quota = &snapshot
				}
			case domain.EventIdle:
				return buf.String(), nil
			case domain.EventError:
				return "", errors.New(event.Err)
			}
		}
	}
}

func (m *SessionManager) enter(next SessionState) error {
	switch m.state {
	case StateReady:
		m.state = next
		return nil
	case StateGenerating, StateSwitchingModel:
		return fmt.Errorf("session manager busy (%s)", m.state)
	case StateConnecting:
		return fmt.Errorf("session manager still connecting")
	case StateClosed:
		return domain.ErrSessionClosed
	default:
		return fmt.Errorf("session manager not initialized")
	}
}

func (m *SessionManager) leave() {
	if m.state != StateClosed {
		m.state = StateReady
	}
}

func (m *SessionManager) notifyActivity(label string) {
	if m.opts.OnActivity != nil {
		m.opts.OnActivity(label)
	}
}

func (m *SessionManager) sessionConfig(model string) domain.SessionConfig {
	return domain.SessionConfig{
		Model:         model,
		Streaming:     true,
		ToolServers:   m.opts.ToolServers,
		SystemMessage: m.opts.SystemMessage,
	}
}

func (m *SessionManager) asGenerationError(kind domain.ContentKind, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var connErr *domain.ConnectionError
	if errors.As(err, &connErr) || errors.Is(err, domain.ErrSessionClosed) {
		return err
	}
	return &domain.GenerationError{Kind: kind, Message: err.Error()}
}
