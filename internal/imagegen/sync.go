package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"floreboard/internal/llm"
	"floreboard/internal/settings"
)

// SyncGenerator calls the OpenAI-compatible images/generations endpoint and
// returns either the hosted URL or the inline base64 payload.
type SyncGenerator struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewSyncGenerator constructs the synchronous generator from provider settings.
func NewSyncGenerator(cfg settings.APIConfig) *SyncGenerator {
	return &SyncGenerator{
		apiKey:   cfg.APIKey,
		model:    cfg.ImageModel,
		endpoint: imageEndpoint(cfg),
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate submits the prompt and normalizes the single-image response.
func (g *SyncGenerator) Generate(ctx context.Context, prompt string) (ImageRef, error) {
	if g.apiKey == "" {
		return ImageRef{}, llm.ErrMissingCredential
	}

	payload := map[string]any{
		"model":  g.model,
		"prompt": prompt,
		"n":      1,
		"size":   "1024x1024",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return ImageRef{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return ImageRef{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return ImageRef{}, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return ImageRef{}, &llm.ProviderError{StatusCode: resp.StatusCode, Message: string(raw)}
	}

	var decoded struct {
		Data []struct {
			URL     string `json:"url"`
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ImageRef{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Data) == 0 {
		return ImageRef{}, ErrImageParse
	}

	item := decoded.Data[0]
	if item.URL != "" {
		return ImageRef{URL: item.URL}, nil
	}
	if item.B64JSON != "" {
		return ImageRef{Data: item.B64JSON, MIME: "image/png"}, nil
	}
	return ImageRef{}, ErrImageParse
}
