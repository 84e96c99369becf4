package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"floreboard/internal/storage"
)

// Credential store identifiers for the provider API key. The key is kept in
// the credentials namespace and never written into the api_config slot.
const (
	CredentialService = "com.floreboard.apikey"
	CredentialAccount = "api_key"
)

// ErrInvalidEndpoint indicates a configured endpoint that is not a valid URL.
var ErrInvalidEndpoint = errors.New("invalid endpoint URL")

// APIConfig holds the AI provider settings. APIKey is merged in from the
// credential store at read time and stripped before the rest is persisted.
type APIConfig struct {
	APIKey            string  `json:"apiKey"`
	Endpoint          string  `json:"endpoint"`
	TextModel         string  `json:"textModel"`
	VisionModel       string  `json:"visionModel"`
	ImageModel        string  `json:"imageModel"`
	ImageEndpoint     string  `json:"imageEndpoint,omitempty"`
	Budget            float64 `json:"budget"`
	AlertThreshold    int     `json:"alertThreshold"`
	LowStockThreshold int     `json:"lowStockThreshold"`
	UpdatedAt         int64   `json:"updatedAt,omitempty"`
}

// Default returns the configuration used before the user saves anything.
func Default() APIConfig {
	return APIConfig{
		Endpoint:          "https://dashscope.aliyuncs.com/compatible-mode/v1",
		TextModel:         "qwen-plus",
		VisionModel:       "qwen-vl-max",
		ImageModel:        "wanx-v1",
		Budget:            500,
		AlertThreshold:    5,
		LowStockThreshold: 10,
	}
}

// Service reads and writes provider settings through the backing store.
type Service struct {
	store storage.Store
}

// NewService constructs a settings service on top of the store.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// Current returns the persisted settings merged with the secret API key.
// Defaults are returned when nothing has been saved yet.
func (s *Service) Current(ctx context.Context) (APIConfig, error) {
	cfg := Default()

	payload, err := s.store.GetSlot(ctx, storage.SlotAPIConfig)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// keep defaults
	case err != nil:
		return APIConfig{}, fmt.Errorf("load api config: %w", err)
	default:
		if err := json.Unmarshal(payload, &cfg); err != nil {
			return APIConfig{}, fmt.Errorf("decode api config: %w", err)
		}
	}

	key, err := s.store.GetCredential(ctx, CredentialService, CredentialAccount)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return APIConfig{}, fmt.Errorf("load api key: %w", err)
	}
	cfg.APIKey = key
	return cfg, nil
}

// Update splits the API key out to the credential store and persists the
// remainder with the key blanked.
func (s *Service) Update(ctx context.Context, cfg APIConfig) error {
	if err := validateEndpoints(cfg); err != nil {
		return err
	}

	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		if err := s.store.SetCredential(ctx, CredentialService, CredentialAccount, key); err != nil {
			return fmt.Errorf("store api key: %w", err)
		}
	}

	cfg.APIKey = ""
	cfg.UpdatedAt = time.Now().Unix()

	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode api config: %w", err)
	}
	if err := s.store.SetSlot(ctx, storage.SlotAPIConfig, payload); err != nil {
		return fmt.Errorf("persist api config: %w", err)
	}
	return nil
}

func validateEndpoints(cfg APIConfig) error {
	for _, endpoint := range []string{cfg.Endpoint, cfg.ImageEndpoint} {
		if strings.TrimSpace(endpoint) == "" {
			continue
		}
		parsed, err := url.Parse(endpoint)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
		}
	}
	return nil
}
