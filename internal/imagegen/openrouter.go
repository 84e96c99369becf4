package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"floreboard/internal/llm"
	"floreboard/internal/settings"
)

// ChatModalityGenerator requests an image through a chat completion with the
// image modality, the shape OpenRouter exposes for Gemini-style image models.
// Responses vary per upstream model, so extraction is an ordered list of
// independent attempts, first success wins.
type ChatModalityGenerator struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewChatModalityGenerator constructs the chat-modality generator.
func NewChatModalityGenerator(cfg settings.APIConfig) *ChatModalityGenerator {
	return &ChatModalityGenerator{
		apiKey:   cfg.APIKey,
		model:    cfg.ImageModel,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate posts the prompt and runs the extractor chain over the reply.
func (g *ChatModalityGenerator) Generate(ctx context.Context, prompt string) (ImageRef, error) {
	if g.apiKey == "" {
		return ImageRef{}, llm.ErrMissingCredential
	}

	payload := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"modalities": []string{"image", "text"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return ImageRef{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return ImageRef{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("HTTP-Referer", "https://floreboard.app")
	req.Header.Set("X-Title", "Floreboard")

	resp, err := g.client.Do(req)
	if err != nil {
		return ImageRef{}, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return ImageRef{}, &llm.ProviderError{StatusCode: resp.StatusCode, Message: string(raw)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ImageRef{}, fmt.Errorf("read response: %w", err)
	}

	return ExtractImage(raw)
}

// ExtractImage runs the ordered extractor chain over a raw chat-completion
// response body.
func ExtractImage(raw []byte) (ImageRef, error) {
	message, err := firstMessage(raw)
	if err != nil {
		return ImageRef{}, err
	}

	extractors := []func(map[string]any) (string, bool){
		extractNestedImageURL,
		extractImageStringList,
		extractMarkdownImage,
		extractBareURL,
	}
	for _, extract := range extractors {
		if url, ok := extract(message); ok {
			return ImageRef{URL: url}, nil
		}
	}
	return ImageRef{}, ErrImageParse
}

func firstMessage(raw []byte) (map[string]any, error) {
	var decoded struct {
		Choices []struct {
			Message map[string]any `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageParse, err)
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message == nil {
		return nil, ErrImageParse
	}
	return decoded.Choices[0].Message, nil
}

// extractNestedImageURL handles choices[0].message.images[0].image_url.url.
func extractNestedImageURL(message map[string]any) (string, bool) {
	images, ok := message["images"].([]any)
	if !ok || len(images) == 0 {
		return "", false
	}
	first, ok := images[0].(map[string]any)
	if !ok {
		return "", false
	}
	imageURL, ok := first["image_url"].(map[string]any)
	if !ok {
		return "", false
	}
	url, ok := imageURL["url"].(string)
	return url, ok && url != ""
}

// extractImageStringList handles a flat message.images list of strings.
func extractImageStringList(message map[string]any) (string, bool) {
	images, ok := message["images"].([]any)
	if !ok || len(images) == 0 {
		return "", false
	}
	url, ok := images[0].(string)
	return url, ok && url != ""
}

var markdownImagePattern = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)

// extractMarkdownImage handles a markdown image link embedded in content.
func extractMarkdownImage(message map[string]any) (string, bool) {
	content, ok := message["content"].(string)
	if !ok {
		return "", false
	}
	match := markdownImagePattern.FindStringSubmatch(content)
	if len(match) < 2 || match[1] == "" {
		return "", false
	}
	return match[1], true
}

// extractBareURL handles content that is itself a URL or inline data URI.
func extractBareURL(message map[string]any) (string, bool) {
	content, ok := message["content"].(string)
	if !ok {
		return "", false
	}
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "http") || strings.HasPrefix(content, "data:image") {
		return content, true
	}
	return "", false
}
