package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"floreboard/internal/llm"
)

const defaultGeminiImageModel = "gemini-2.5-flash-image"

// GeminiGenerator renders previews through the Gemini SDK's inline image
// output, used when the configured image model is a Gemini model served
// directly by Google rather than through an aggregator.
type GeminiGenerator struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewGeminiGenerator constructs a generator able to request inline images.
func NewGeminiGenerator(apiKey, model string, timeout time.Duration) *GeminiGenerator {
	if strings.TrimSpace(model) == "" {
		model = defaultGeminiImageModel
	}
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiGenerator{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
	}
}

// Generate requests a photorealistic image for the given prompt.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (ImageRef, error) {
	if g == nil || strings.TrimSpace(g.apiKey) == "" {
		return ImageRef{}, llm.ErrMissingCredential
	}
	if strings.TrimSpace(prompt) == "" {
		return ImageRef{}, fmt.Errorf("empty render prompt")
	}

	childCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(childCtx, &genai.ClientConfig{
		APIKey: g.apiKey,
	})
	if err != nil {
		return ImageRef{}, fmt.Errorf("create genai client: %w", err)
	}

	resp, err := client.Models.GenerateContent(childCtx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return ImageRef{}, fmt.Errorf("render failed: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return ImageRef{}, ErrImageParse
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mime := part.InlineData.MIMEType
		if strings.TrimSpace(mime) == "" {
			mime = "image/png"
		}
		return ImageRef{
			Data: base64.StdEncoding.EncodeToString(part.InlineData.Data),
			MIME: mime,
		}, nil
	}
	return ImageRef{}, ErrImageParse
}
