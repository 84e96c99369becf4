package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floreboard/internal/settings"
	"floreboard/internal/storage"
)

func newTestRouter(t *testing.T, flowers []FlowerStock) (*chi.Mux, *Ledger) {
	t.Helper()
	store := storage.NewInMemoryStore()
	ledger, err := NewLedger(context.Background(), store, false)
	require.NoError(t, err)
	for _, flower := range flowers {
		_, err := ledger.Add(context.Background(), flower)
		require.NoError(t, err)
	}

	handler := NewHandler(ledger, settings.NewService(store))
	router := chi.NewRouter()
	router.Get("/api/inventory", handler.List)
	router.Post("/api/inventory", handler.Create)
	router.Get("/api/inventory/low-stock", handler.LowStock)
	router.Put("/api/inventory/{id}", handler.Update)
	router.Delete("/api/inventory/{id}", handler.Delete)
	return router, ledger
}

func TestHandlerCreateAndList(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	body, _ := json.Marshal(StockRequest{
		Name:        "Peony",
		Color:       "#FFC0CB",
		Quantity:    25,
		Category:    CategoryMain,
		UnitCost:    4.5,
		RetailPrice: 12,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/inventory", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created FlowerStock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 25, created.InitialStock)

	req = httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var listed []FlowerStock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Peony", listed[0].Name)
}

func TestHandlerCreateValidation(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	body, _ := json.Marshal(StockRequest{Quantity: -1})
	req := httptest.NewRequest(http.MethodPost, "/api/inventory", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdateUnknownID(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	body, _ := json.Marshal(StockRequest{Name: "Ghost", Quantity: 1})
	req := httptest.NewRequest(http.MethodPut, "/api/inventory/missing", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// updates to unknown ids are accepted as no-ops
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandlerDelete(t *testing.T) {
	router, ledger := newTestRouter(t, []FlowerStock{{Name: "Tulip", Quantity: 5}})
	id := ledger.List(context.Background())[0].ID

	req := httptest.NewRequest(http.MethodDelete, "/api/inventory/"+id, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, ledger.List(context.Background()))
}

func TestHandlerLowStockDefaultsToConfiguredThreshold(t *testing.T) {
	router, _ := newTestRouter(t, []FlowerStock{
		{Name: "Red Rose", Quantity: 50},
		{Name: "Tulip", Quantity: 3},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/low-stock", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var low []FlowerStock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &low))
	require.Len(t, low, 1)
	assert.Equal(t, "Tulip", low[0].Name)
}

func TestHandlerLowStockQueryOverride(t *testing.T) {
	router, _ := newTestRouter(t, []FlowerStock{
		{Name: "Red Rose", Quantity: 50},
		{Name: "Tulip", Quantity: 3},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/low-stock?threshold=100", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var low []FlowerStock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &low))
	assert.Len(t, low, 2)

	req = httptest.NewRequest(http.MethodGet, "/api/inventory/low-stock?threshold=oops", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
