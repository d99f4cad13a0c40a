package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/doeshing/asoforge/internal/domain"
)

// openaiProvider generates images through the OpenAI Images API, requesting a
// base64 payload so no second download is needed.
type openaiProvider struct {
	keyEnvVar string
	model     string
}

func newOpenAIProvider(cfg domain.ImagesConfig) *openaiProvider {
	return &openaiProvider{keyEnvVar: cfg.OpenAIKeyEnvVar, model: cfg.OpenAIModel}
}

func (p *openaiProvider) Name() string { return "openai" }

func (p *openaiProvider) Configured() bool {
	return p.keyEnvVar != "" && os.Getenv(p.keyEnvVar) != ""
}

func (p *openaiProvider) Generate(ctx context.Context, prompt string) ([]byte, error) {
	client := openai.NewClient(option.WithAPIKey(os.Getenv(p.keyEnvVar)))

	model := openai.ImageModel(p.model)
	if p.model == "" {
		model = openai.ImageModelDallE3
	}

	resp, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          model,
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("empty image response")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}
	return raw, nil
}
