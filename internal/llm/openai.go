package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrMissingCredential indicates that no provider API key has been configured.
var ErrMissingCredential = errors.New("no API key configured")

// ProviderError reports a non-2xx response from the provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider status %d: %s", e.StatusCode, e.Message)
}

// ChatMessage mirrors the OpenAI chat message format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// Client wraps the minimal chat/vision completion functionality against an
// OpenAI-compatible endpoint. No retries: a failed attempt ends the call.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewClient constructs a client for the given endpoint and API key.
func NewClient(apiKey, endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

// ChatCompletion sends system+user messages and returns the first response
// content. A strict JSON object response is requested from the model.
func (c *Client) ChatCompletion(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingCredential
	}

	payload := map[string]any{
		"model": model,
		"messages": []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		"temperature":     0.7,
		"response_format": map[string]string{"type": "json_object"},
	}

	return c.complete(ctx, payload)
}

// VisionCompletion sends a multimodal message carrying the JPEG image inline
// as a base64 data URL. The vision path sets max_tokens and cannot request a
// JSON response format, so fenced output is cleaned before returning.
func (c *Client) VisionCompletion(ctx context.Context, model, systemPrompt, userPrompt string, imageJPEG []byte) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingCredential
	}

	encoded := base64.StdEncoding.EncodeToString(imageJPEG)
	payload := map[string]any{
		"model": model,
		"messages": []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []map[string]any{
				{"type": "text", "text": userPrompt},
				{"type": "image_url", "image_url": map[string]string{
					"url": "data:image/jpeg;base64," + encoded,
				}},
			}},
		},
		"max_tokens": 2000,
	}

	content, err := c.complete(ctx, payload)
	if err != nil {
		return "", err
	}

	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return content, nil
}

func (c *Client) complete(ctx context.Context, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var failure struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: failure.Error.Message}
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}
