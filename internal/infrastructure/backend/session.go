package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// Session is one live backend conversation. Send starts the HTTP exchange and
// returns once the stream is established; the SSE body is parsed in a
// background goroutine that publishes typed events to all subscribers, ending
// with exactly one terminal event per request.
type Session struct {
	client *Client
	id     string

	mu     sync.Mutex
	subs   map[int]chan domain.SessionEvent
	nextID int
}

var _ ports.BackendSession = (*Session)(nil)

func newSession(client *Client, id string) *Session {
	return &Session{
		client: client,
		id:     id,
		subs:   make(map[int]chan domain.SessionEvent),
	}
}

// Subscribe registers an event channel. The cancel func removes the
// subscription; the channel is buffered so a slow reader cannot stall the
// stream parser for short bursts.
func (s *Session) Subscribe() (<-chan domain.SessionEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan domain.SessionEvent, 256)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Send posts one prompt and begins consuming the SSE response. The request
// carries a correlation id so backend logs can be matched to client traces.
func (s *Session) Send(ctx context.Context, prompt string) error {
	body, err := json.Marshal(struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1/sessions/%s/messages", s.client.endpoint, s.id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-Request-ID", uuid.NewString())
	s.client.setAuth(req)

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return s.client.statusError(resp)
	}

	go s.consume(ctx, resp.Body)
	return nil
}

// Destroy deletes the remote session.
func (s *Session) Destroy() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/v1/sessions/%s", s.client.endpoint, s.id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	s.client.setAuth(req)

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return s.client.statusError(resp)
	}
	return nil
}

// wireEvent is the SSE payload shape. [DONE] closes the stream as idle.
type wireEvent struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Tool  string `json:"tool,omitempty"`
	Error string `json:"error,omitempty"`
	Usage *struct {
		Used        int        `json:"used"`
		Entitlement int        `json:"entitlement"`
		Unlimited   bool       `json:"unlimited"`
		ResetsAt    *time.Time `json:"resetsAt,omitempty"`
	} `json:"usage,omitempty"`
}

// consume parses the SSE body line by line and publishes events until a
// terminal event, [DONE], stream end, or context cancellation. The terminal
// event is synthesized if the server closes the stream without one, so the
// reading loop always unblocks.
func (s *Session) consume(ctx context.Context, body io.ReadCloser) {
	defer body.Close()

	terminal := false
	defer func() {
		if !terminal && ctx.Err() == nil {
			s.publish(domain.SessionEvent{Kind: domain.EventError, Err: "stream ended without a terminal event"})
		}
	}()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		if data == "[DONE]" {
			terminal = true
			s.publish(domain.SessionEvent{Kind: domain.EventIdle})
			return
		}

		var wire wireEvent
		if err := json.Unmarshal([]byte(data), &wire); err != nil {
			s.client.logger.Warn("dropping malformed stream event", map[string]interface{}{"error": err.Error()})
			continue
		}

		event := wire.toDomain()
		if event.Terminal() {
			terminal = true
			s.publish(event)
			return
		}
		s.publish(event)
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		terminal = true
		s.publish(domain.SessionEvent{Kind: domain.EventError, Err: fmt.Sprintf("reading stream: %v", err)})
	}
}

func (w wireEvent) toDomain() domain.SessionEvent {
	switch w.Type {
	case "message_delta":
		return domain.SessionEvent{Kind: domain.EventMessageDelta, Text: w.Text}
	case "tool_execution_start":
		return domain.SessionEvent{Kind: domain.EventToolStart, Tool: w.Tool}
	case "tool_execution_complete":
		return domain.SessionEvent{Kind: domain.EventToolComplete, Tool: w.Tool}
	case "usage":
		event := domain.SessionEvent{Kind: domain.EventUsage}
		if w.Usage != nil {
			event.Quota = &domain.QuotaInfo{
				Used:        w.Usage.Used,
				Entitlement: w.Usage.Entitlement,
				Unlimited:   w.Usage.Unlimited,
				ResetsAt:    w.Usage.ResetsAt,
			}
		}
		return event
	case "idle":
		return domain.SessionEvent{Kind: domain.EventIdle}
	case "error":
		return domain.SessionEvent{Kind: domain.EventError, Err: w.Error}
	default:
		// Unknown event kinds are forwarded as empty deltas so a newer
		// backend does not break older clients.
		return domain.SessionEvent{Kind: domain.EventMessageDelta}
	}
}

func (s *Session) publish(event domain.SessionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		// Never block while holding mu: cancel needs the same lock, so a
		// subscriber that stopped draining would deadlock it. A full buffer
		// means that subscriber is gone; drop the event.
		select {
		case ch <- event:
		default:
		}
	}
}
