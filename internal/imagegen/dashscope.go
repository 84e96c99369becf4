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

// DashScope runs text-to-image as an asynchronous task: one submission, then
// a bounded status poll.
const (
	dashScopeSubmitURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text2image/image-synthesis"
	dashScopeTasksURL  = "https://dashscope.aliyuncs.com/api/v1/tasks"
)

// DashScopeGenerator submits a task and polls it until it settles.
type DashScopeGenerator struct {
	apiKey string
	model  string
	client *http.Client

	// Overridable for tests and alternate deployments.
	SubmitURL    string
	TasksURL     string
	PollInterval time.Duration
	MaxAttempts  int
}

// NewDashScopeGenerator constructs the async generator with the default
// 2-second poll interval and 30-attempt budget (about a minute).
func NewDashScopeGenerator(cfg settings.APIConfig) *DashScopeGenerator {
	return &DashScopeGenerator{
		apiKey:       cfg.APIKey,
		model:        cfg.ImageModel,
		client:       &http.Client{Timeout: 30 * time.Second},
		SubmitURL:    dashScopeSubmitURL,
		TasksURL:     dashScopeTasksURL,
		PollInterval: 2 * time.Second,
		MaxAttempts:  30,
	}
}

// Generate submits the prompt and polls the task until SUCCEEDED, FAILED, or
// the attempt budget runs out.
func (g *DashScopeGenerator) Generate(ctx context.Context, prompt string) (ImageRef, error) {
	if g.apiKey == "" {
		return ImageRef{}, llm.ErrMissingCredential
	}

	taskID, err := g.submit(ctx, prompt)
	if err != nil {
		return ImageRef{}, err
	}

	for attempt := 0; attempt < g.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ImageRef{}, ctx.Err()
		case <-time.After(g.PollInterval):
		}

		status, url, err := g.poll(ctx, taskID)
		if err != nil {
			return ImageRef{}, err
		}

		switch status {
		case "SUCCEEDED":
			return ImageRef{URL: url}, nil
		case "FAILED":
			return ImageRef{}, ErrGenerationFailed
		}
		// PENDING / RUNNING: keep polling
	}

	return ImageRef{}, ErrPollTimeout
}

func (g *DashScopeGenerator) submit(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": g.model,
		"input": map[string]string{"prompt": prompt},
		"parameters": map[string]any{
			"size": "1024*1024",
			"n":    1,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.SubmitURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("X-DashScope-Async", "enable")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit task: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &llm.ProviderError{StatusCode: resp.StatusCode, Message: string(raw)}
	}

	var decoded struct {
		Output struct {
			TaskID string `json:"task_id"`
		} `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if decoded.Output.TaskID == "" {
		return "", fmt.Errorf("submit response missing task id")
	}
	return decoded.Output.TaskID, nil
}

func (g *DashScopeGenerator) poll(ctx context.Context, taskID string) (status, url string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.TasksURL+"/"+taskID, nil)
	if err != nil {
		return "", "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("poll task: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", "", &llm.ProviderError{StatusCode: resp.StatusCode}
	}

	var decoded struct {
		Output struct {
			TaskStatus string `json:"task_status"`
			Results    []struct {
				URL string `json:"url"`
			} `json:"results"`
		} `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", "", fmt.Errorf("decode poll response: %w", err)
	}

	if len(decoded.Output.Results) > 0 {
		url = decoded.Output.Results[0].URL
	}
	return decoded.Output.TaskStatus, url, nil
}
