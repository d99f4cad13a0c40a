package imagegen

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/doeshing/asoforge/internal/domain"
)

// geminiProvider generates images through the Gemini API using an
// image-capable model and the inline-data response parts.
type geminiProvider struct {
	keyEnvVar string
	model     string
}

func newGeminiProvider(cfg domain.ImagesConfig) *geminiProvider {
	return &geminiProvider{keyEnvVar: cfg.GeminiKeyEnvVar, model: cfg.GeminiModel}
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) Configured() bool {
	return p.keyEnvVar != "" && os.Getenv(p.keyEnvVar) != ""
}

func (p *geminiProvider) Generate(ctx context.Context, prompt string) ([]byte, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv(p.keyEnvVar),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := p.model
	if model == "" {
		model = "gemini-2.5-flash-image"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, err
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("response contained no image part")
}
