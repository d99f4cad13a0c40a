package domain

// EventKind identifies one asynchronous session event emitted by the backend
// while a request is in flight.
type EventKind string

const (
	// EventMessageDelta carries a fragment of the eventual response text.
	EventMessageDelta EventKind = "message_delta"
	// EventToolStart signals the backend began invoking an attached tool.
	EventToolStart EventKind = "tool_execution_start"
	// EventToolComplete signals the tool invocation finished.
	EventToolComplete EventKind = "tool_execution_complete"
	// EventUsage carries an updated quota snapshot.
	EventUsage EventKind = "usage"
	// EventIdle is the sole success-completion signal for a request.
	EventIdle EventKind = "idle"
	// EventError terminates a request with a failure message.
	EventError EventKind = "error"
)

// SessionEvent is one typed notification on the session stream. Exactly one
// of EventIdle or EventError terminates a given request; every other kind may
// arrive zero or more times in any order before that.
type SessionEvent struct {
	Kind  EventKind
	Text  string     // delta text for EventMessageDelta
	Tool  string     // tool name for tool events
	Quota *QuotaInfo // snapshot for EventUsage
	Err   string     // message for EventError
}

// Terminal reports whether the event ends the in-flight request.
func (e SessionEvent) Terminal() bool {
	return e.Kind == EventIdle || e.Kind == EventError
}

// ToolServerConfig points the backend at an external tool server it may invoke
// mid-conversation (the keyword-scoring integration).
type ToolServerConfig struct {
	Name string
	URL  string
}

// SessionConfig describes one conversational session to create.
type SessionConfig struct {
	Model         string
	Streaming     bool
	ToolServers   []ToolServerConfig
	SystemMessage string // appended to the backend defaults, never replacing them
}

// AuthStatus is the backend's view of the current credentials.
type AuthStatus struct {
	Authenticated bool
	Login         string
}
