// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and
// external adapters (infrastructure). The session manager and chat
// orchestrator depend only on these abstractions, never on the concrete HTTP,
// terminal, or storage implementations.
package ports

import (
	"context"

	"github.com/doeshing/asoforge/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.asoforge/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// BackendClient is the handle to the external conversational AI backend.
type BackendClient interface {
	Start(ctx context.Context) error
	AuthStatus(ctx context.Context) (domain.AuthStatus, error)
	ListModels(ctx context.Context) ([]domain.AvailableModel, error)
	CreateSession(ctx context.Context, cfg domain.SessionConfig) (BackendSession, error)
	Stop() error
}

// BackendSession is one live conversation bound to a specific model.
//
// Subscribe must be called before Send so no delta emitted early in the
// stream is lost; the returned cancel func releases the subscription.
type BackendSession interface {
	Send(ctx context.Context, prompt string) error
	Subscribe() (<-chan domain.SessionEvent, func())
	Destroy() error
}

// Renderer is the presentation sink. No return value ever feeds back into the
// core.
type Renderer interface {
	Header()
	Status(model string, quota *domain.QuotaInfo)
	Panel(title, body string)
	NumberedList(title string, items []string)
	Info(msg string)
	Success(msg string)
	Error(msg string)
	Hint(msg string)
	Clear()
	Artifact(a domain.ImageArtifact)
}

// Console reads one line of user input. Implementations return
// domain.ErrInterrupted when the user interrupts the read, so callers can
// route it to the confirmation-themed interrupt handling instead of crashing.
type Console interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// Clipboard provides clipboard integration for copying generated content.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// CompetitorLookup resolves a store identifier to competitor metadata.
type CompetitorLookup interface {
	Lookup(ctx context.Context, appID string) (domain.CompetitorApp, error)
}

// LookupCache memoizes competitor lookups between runs.
type LookupCache interface {
	Get(key string) (domain.CompetitorApp, bool, error)
	Set(key string, app domain.CompetitorApp) error
	Clear() error
	Dir() string
}

// ImageService generates and post-processes promotional images. Available
// reports whether any provider credentials are configured without performing
// a request.
type ImageService interface {
	Available() bool
	GenerateIcon(ctx context.Context, app domain.AppInfo, subject string) (domain.ImageArtifact, error)
	GenerateFeatureGraphic(ctx context.Context, app domain.AppInfo, subject string) (domain.ImageArtifact, error)
}

// Exporter writes the store configuration bundle and returns the written
// file path.
type Exporter interface {
	Export(meta domain.GeneratedMetadata, appName string) (string, error)
}

// ProgressIndicator shows in-flight activity during streaming calls.
type ProgressIndicator interface {
	Start()
	SetLabel(label string)
	Stop()
}

// HistoryRepository persists generation records locally.
type HistoryRepository interface {
	Save(record domain.GenerationRecord) error
	Records(limit int, search string) ([]domain.GenerationRecord, error)
	Clear() error
	Path() string
	ExportJSON(dest string) error
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
