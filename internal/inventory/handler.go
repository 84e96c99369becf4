package inventory

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"

	"floreboard/internal/settings"
	"floreboard/internal/storage"
)

// Handler bundles dependencies for inventory endpoints.
type Handler struct {
	Ledger   *Ledger
	Settings *settings.Service

	validate *validator.Validate
}

func NewHandler(ledger *Ledger, svc *settings.Service) *Handler {
	return &Handler{Ledger: ledger, Settings: svc, validate: validator.New()}
}

// StockRequest is the inbound payload for creating or updating stock.
type StockRequest struct {
	Name         string   `json:"name" validate:"required"`
	Color        string   `json:"color"`
	Quantity     int      `json:"quantity" validate:"gte=0"`
	InitialStock int      `json:"initialStock" validate:"gte=0"`
	Category     Category `json:"category"`
	UnitCost     float64  `json:"unitCost" validate:"gte=0"`
	RetailPrice  float64  `json:"retailPrice" validate:"gte=0"`
	Meaning      string   `json:"meaning"`
	CultureTags  []string `json:"cultureTags"`
}

// List handles GET /api/inventory.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Ledger.List(r.Context()))
}

// Create handles POST /api/inventory.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload StockRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stock, err := h.Ledger.Add(r.Context(), FlowerStock{
		Name:         payload.Name,
		Color:        payload.Color,
		Quantity:     payload.Quantity,
		InitialStock: payload.InitialStock,
		Category:     payload.Category,
		UnitCost:     payload.UnitCost,
		RetailPrice:  payload.RetailPrice,
		Meaning:      payload.Meaning,
		CultureTags:  payload.CultureTags,
	})
	if err != nil {
		http.Error(w, "could not save stock", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, http.StatusCreated, stock)
}

// Update handles PUT /api/inventory/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload StockRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.Ledger.Update(r.Context(), FlowerStock{
		ID:           id,
		Name:         payload.Name,
		Color:        payload.Color,
		Quantity:     payload.Quantity,
		InitialStock: payload.InitialStock,
		Category:     payload.Category,
		UnitCost:     payload.UnitCost,
		RetailPrice:  payload.RetailPrice,
		Meaning:      payload.Meaning,
		CultureTags:  payload.CultureTags,
	})
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "stock not found", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, "could not update stock", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/inventory/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Ledger.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "stock not found", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, "could not delete stock", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LowStock handles GET /api/inventory/low-stock. The threshold defaults to
// the configured one and may be overridden with ?threshold=N.
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := 0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "threshold must be a non-negative integer", http.StatusBadRequest)
			return
		}
		threshold = parsed
	} else {
		cfg, err := h.Settings.Current(r.Context())
		if err != nil {
			http.Error(w, "could not load settings", http.StatusInternalServerError)
			return
		}
		threshold = cfg.LowStockThreshold
	}

	writeJSON(w, h.Ledger.LowStock(r.Context(), threshold))
}

func writeJSON(w http.ResponseWriter, payload any) {
	writeJSONStatus(w, http.StatusOK, payload)
}

func writeJSONStatus(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}
