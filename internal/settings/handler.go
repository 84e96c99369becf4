package settings

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"floreboard/internal/storage"
)

// Handler bundles dependencies for settings endpoints.
type Handler struct {
	Service *Service
	Store   storage.Store
}

func NewHandler(svc *Service, store storage.Store) *Handler {
	return &Handler{Service: svc, Store: store}
}

// ConfigResponse is the outbound settings shape. The API key itself is not
// echoed back; HasAPIKey tells the client whether one is stored.
type ConfigResponse struct {
	APIConfig
	HasAPIKey bool `json:"hasApiKey"`
}

// Get handles GET /api/config.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.Current(r.Context())
	if err != nil {
		http.Error(w, "could not load settings", http.StatusInternalServerError)
		return
	}

	resp := ConfigResponse{APIConfig: cfg, HasAPIKey: cfg.APIKey != ""}
	resp.APIKey = ""
	writeJSON(w, resp)
}

// Update handles PUT /api/config.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var cfg APIConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.Service.Update(r.Context(), cfg)
	switch {
	case errors.Is(err, ErrInvalidEndpoint):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "could not save settings", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteKey handles DELETE /api/config/key: removes the stored API key.
func (h *Handler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteCredential(r.Context(), CredentialService, CredentialAccount)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "could not delete api key", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLanguage handles GET /api/config/language.
func (h *Handler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := "en"
	payload, err := h.Store.GetSlot(r.Context(), storage.SlotLanguage)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		http.Error(w, "could not load language", http.StatusInternalServerError)
		return
	default:
		if trimmed := strings.Trim(string(payload), `"`); trimmed != "" {
			lang = trimmed
		}
	}
	writeJSON(w, map[string]string{"language": lang})
}

// SetLanguage handles PUT /api/config/language.
func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	lang := strings.TrimSpace(payload.Language)
	if lang != "en" && lang != "zh" {
		http.Error(w, "language must be en or zh", http.StatusBadRequest)
		return
	}

	if err := h.Store.SetSlot(r.Context(), storage.SlotLanguage, []byte(strconv.Quote(lang))); err != nil {
		http.Error(w, "could not save language", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}
