// Package imagegen generates promotional images through external providers
// and post-processes them to the exact App Store pixel targets.
package imagegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// provider produces raw image bytes for a prompt. The service tries providers
// in order and uses the first configured one.
type provider interface {
	Name() string
	Configured() bool
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Service implements ports.ImageService on top of the configured providers.
type Service struct {
	providers []provider
	outDir    string
	logger    ports.Logger
}

var _ ports.ImageService = (*Service)(nil)

// NewService builds the image service from configuration. Providers with no
// credentials are kept in the list but never selected.
func NewService(cfg domain.ImagesConfig, logger ports.Logger) *Service {
	return &Service{
		providers: []provider{
			newOpenAIProvider(cfg),
			newGeminiProvider(cfg),
		},
		outDir: filepath.Join(userHome(), ".asoforge", "images"),
		logger: logger,
	}
}

// NewServiceAt overrides the output directory, used by tests.
func NewServiceAt(providers []provider, outDir string, logger ports.Logger) *Service {
	return &Service{providers: providers, outDir: outDir, logger: logger}
}

// Available reports whether at least one provider has credentials.
func (s *Service) Available() bool {
	for _, p := range s.providers {
		if p.Configured() {
			return true
		}
	}
	return false
}

// GenerateIcon produces a 1024x1024 app icon.
func (s *Service) GenerateIcon(ctx context.Context, app domain.AppInfo, subject string) (domain.ImageArtifact, error) {
	prompt := iconPrompt(app, subject)
	return s.generate(ctx, prompt, app.Name, "icon", domain.IconSize, domain.IconSize)
}

// GenerateFeatureGraphic produces a 1024x500 feature graphic.
func (s *Service) GenerateFeatureGraphic(ctx context.Context, app domain.AppInfo, subject string) (domain.ImageArtifact, error) {
	prompt := featurePrompt(app, subject)
	return s.generate(ctx, prompt, app.Name, "feature", domain.FeatureGraphicWidth, domain.FeatureGraphicHeight)
}

func (s *Service) generate(ctx context.Context, prompt, appName, kind string, width, height int) (domain.ImageArtifact, error) {
	active := s.activeProvider()
	if active == nil {
		return domain.ImageArtifact{}, domain.ErrNoImageProvider
	}

	raw, err := active.Generate(ctx, prompt)
	if err != nil {
		return domain.ImageArtifact{}, fmt.Errorf("%s: %w", active.Name(), err)
	}

	img, err := normalize(raw, width, height)
	if err != nil {
		return domain.ImageArtifact{}, err
	}

	name := fmt.Sprintf("%s-%s-%s.png", domain.Slugify(appName), kind, time.Now().Format("20060102-150405"))
	return writePNG(img, filepath.Join(s.outDir, name))
}

func (s *Service) activeProvider() provider {
	for _, p := range s.providers {
		if p.Configured() {
			return p
		}
	}
	return nil
}

func iconPrompt(app domain.AppInfo, subject string) string {
	if subject == "" {
		subject = app.Description
	}
	return fmt.Sprintf(
		"App icon for a mobile app named %q. Subject: %s. "+
			"Flat modern style, bold silhouette, centered composition, no text, no letters, "+
			"vivid colors on a simple background, suitable for a 1024x1024 App Store icon.",
		app.Name, subject)
}

func featurePrompt(app domain.AppInfo, subject string) string {
	if subject == "" {
		subject = app.Description
	}
	return fmt.Sprintf(
		"Wide promotional feature graphic for a mobile app named %q. Subject: %s. "+
			"Landscape composition with clear focal point on the left third, no text, "+
			"polished product-marketing style, designed for a 1024x500 banner.",
		app.Name, subject)
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
