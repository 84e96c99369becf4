package imagegen

import (
	"context"
	"errors"
	"strings"
	"time"

	"floreboard/internal/settings"
)

var (
	// ErrImageParse indicates that no extractor could find an image in the
	// provider response.
	ErrImageParse = errors.New("no image found in provider response")
	// ErrGenerationFailed indicates the remote task reported FAILED.
	ErrGenerationFailed = errors.New("image generation task failed")
	// ErrPollTimeout indicates the async task did not finish within the
	// attempt budget.
	ErrPollTimeout = errors.New("image generation timed out")
	// ErrImageDecode indicates the returned payload was not a decodable image.
	ErrImageDecode = errors.New("payload is not a decodable image")
)

// ImageRef is the normalized outcome of a generation: a hosted URL or an
// inline base64 payload, whichever the provider produced.
type ImageRef struct {
	URL  string `json:"url,omitempty"`
	Data string `json:"data,omitempty"`
	MIME string `json:"mime,omitempty"`
}

// Generator renders a preview image for a visual prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (ImageRef, error)
}

// Strategy names one of the supported provider call shapes.
type Strategy string

const (
	// StrategySync is the OpenAI-compatible images/generations endpoint.
	StrategySync Strategy = "sync"
	// StrategyAsyncPoll is DashScope's submit-then-poll task flow.
	StrategyAsyncPoll Strategy = "async_poll"
	// StrategyChatModality is OpenRouter's chat completion with an image
	// modality.
	StrategyChatModality Strategy = "chat_modality"
	// StrategyGeminiNative renders through the Gemini SDK's inline image
	// output.
	StrategyGeminiNative Strategy = "gemini"
)

// ResolveStrategy picks the call shape for the configured provider. This is
// decided once per dispatcher, not re-sniffed on every call. The model-name
// checks are substring based because that is all the providers give us: a
// hypothetical unrelated model whose name contains "wanx" would still be
// routed to the DashScope flow.
func ResolveStrategy(cfg settings.APIConfig) Strategy {
	model := strings.ToLower(cfg.ImageModel)
	endpoint := cfg.ImageEndpoint
	if endpoint == "" {
		endpoint = cfg.Endpoint
	}

	switch {
	case strings.Contains(model, "wanx"):
		return StrategyAsyncPoll
	case strings.Contains(endpoint, "openrouter"):
		return StrategyChatModality
	case strings.Contains(model, "gemini") && cfg.ImageEndpoint == "":
		return StrategyGeminiNative
	default:
		return StrategySync
	}
}

// New constructs the generator for the configured provider.
func New(cfg settings.APIConfig) Generator {
	switch ResolveStrategy(cfg) {
	case StrategyAsyncPoll:
		return NewDashScopeGenerator(cfg)
	case StrategyChatModality:
		return NewChatModalityGenerator(cfg)
	case StrategyGeminiNative:
		return NewGeminiGenerator(cfg.APIKey, cfg.ImageModel, 60*time.Second)
	default:
		return NewSyncGenerator(cfg)
	}
}

func imageEndpoint(cfg settings.APIConfig) string {
	if cfg.ImageEndpoint != "" {
		return strings.TrimRight(cfg.ImageEndpoint, "/")
	}
	return strings.TrimRight(cfg.Endpoint, "/")
}
