package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"floreboard/internal/storage"
)

// Category classifies how a flower is used in an arrangement.
type Category string

const (
	CategoryMain    Category = "main"
	CategoryFiller  Category = "filler"
	CategoryFoliage Category = "foliage"
)

// FlowerStock is one inventory line item for a single flower/material type.
type FlowerStock struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Color        string   `json:"color"`
	Quantity     int      `json:"quantity"`
	InitialStock int      `json:"initialStock"`
	Category     Category `json:"category"`
	UnitCost     float64  `json:"unitCost"`
	RetailPrice  float64  `json:"retailPrice"`
	Meaning      string   `json:"meaning,omitempty"`
	TotalUsed    int      `json:"totalUsed,omitempty"`
	CultureTags  []string `json:"cultureTags,omitempty"`
	CreatedAt    int64    `json:"createdAt,omitempty"`
	UpdatedAt    int64    `json:"updatedAt,omitempty"`
}

// LineItem is a requested deduction: a free-text flower name and a stem count.
// Names come back from the AI and are matched fuzzily, never by id.
type LineItem struct {
	Name  string
	Count int
}

// Ledger owns the flower collection. All mutations replace and persist the
// whole collection as one write; other components only ever see copies.
type Ledger struct {
	mu      sync.RWMutex
	store   storage.Store
	flowers []FlowerStock
}

// NewLedger loads the persisted inventory, seeding the starter catalog when
// nothing has been stored yet and seed is true.
func NewLedger(ctx context.Context, store storage.Store, seed bool) (*Ledger, error) {
	l := &Ledger{store: store}

	payload, err := store.GetSlot(ctx, storage.SlotInventory)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if seed {
			l.flowers = StarterInventory()
			if err := l.persist(ctx); err != nil {
				return nil, err
			}
		}
	case err != nil:
		return nil, fmt.Errorf("load inventory: %w", err)
	default:
		if err := json.Unmarshal(payload, &l.flowers); err != nil {
			return nil, fmt.Errorf("decode inventory: %w", err)
		}
	}

	return l, nil
}

// List returns a snapshot of the current stock.
func (l *Ledger) List(_ context.Context) []FlowerStock {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot()
}

// Add appends a new stock record and persists the collection.
func (l *Ledger) Add(ctx context.Context, stock FlowerStock) (FlowerStock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if stock.ID == "" {
		stock.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	if stock.CreatedAt == 0 {
		stock.CreatedAt = now
	}
	stock.UpdatedAt = now
	if stock.InitialStock == 0 {
		stock.InitialStock = stock.Quantity
	}

	l.flowers = append(l.flowers, stock)
	if err := l.persist(ctx); err != nil {
		return FlowerStock{}, err
	}
	return stock, nil
}

// Update replaces the record with the same id. A missing id is a no-op.
func (l *Ledger) Update(ctx context.Context, stock FlowerStock) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for idx := range l.flowers {
		if l.flowers[idx].ID == stock.ID {
			stock.UpdatedAt = time.Now().Unix()
			l.flowers[idx] = stock
			return l.persist(ctx)
		}
	}
	return nil
}

// Delete removes the record with the given id.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for idx := range l.flowers {
		if l.flowers[idx].ID == id {
			l.flowers = append(l.flowers[:idx], l.flowers[idx+1:]...)
			return l.persist(ctx)
		}
	}
	return nil
}

// LowStock returns records whose quantity is at or below the threshold.
func (l *Ledger) LowStock(_ context.Context, threshold int) []FlowerStock {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var low []FlowerStock
	for _, flower := range l.flowers {
		if flower.Quantity <= threshold {
			low = append(low, flower)
		}
	}
	return low
}

// Deduct applies the requested line items against stock and returns the
// changed records. Matching is fuzzy, three tiers in precedence order:
// exact name equality, stock name containing the request, request containing
// the stock name. All case-insensitive, first record wins. Items that match
// nothing are skipped without error; this mirrors how plans reference stock
// by free-text name only. Quantities clamp at zero and all matched records
// commit together in a single persisted write.
func (l *Ledger) Deduct(ctx context.Context, items []LineItem) ([]FlowerStock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	working := l.snapshot()
	var changed []FlowerStock

	for _, item := range items {
		idx := matchStock(working, item.Name)
		if idx < 0 {
			continue
		}

		flower := working[idx]
		flower.Quantity = flower.Quantity - item.Count
		if flower.Quantity < 0 {
			flower.Quantity = 0
		}
		flower.TotalUsed += item.Count
		flower.UpdatedAt = time.Now().Unix()

		working[idx] = flower
		changed = append(changed, flower)
	}

	if len(changed) == 0 {
		return nil, nil
	}

	l.flowers = working
	if err := l.persist(ctx); err != nil {
		return nil, err
	}
	return changed, nil
}

// matchStock finds the first record satisfying the three-tier fuzzy match.
func matchStock(flowers []FlowerStock, name string) int {
	requested := strings.ToLower(strings.TrimSpace(name))
	if requested == "" {
		return -1
	}

	for idx, flower := range flowers {
		stocked := strings.ToLower(flower.Name)
		if stocked == requested ||
			strings.Contains(stocked, requested) ||
			strings.Contains(requested, stocked) {
			return idx
		}
	}
	return -1
}

// PromptListing renders the stock as one line per flower for embedding in
// the design system prompt.
func (l *Ledger) PromptListing(lowStockThreshold int) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	lines := make([]string, 0, len(l.flowers))
	for _, flower := range l.flowers {
		marker := ""
		if flower.Quantity <= lowStockThreshold {
			marker = " (LOW STOCK!)"
		}
		lines = append(lines, fmt.Sprintf("- %s (Color: %s, Qty: %d%s, Cost: %.1f/stem, Category: %s)",
			flower.Name, flower.Color, flower.Quantity, marker, flower.UnitCost, flower.Category))
	}
	return strings.Join(lines, "\n")
}

func (l *Ledger) snapshot() []FlowerStock {
	snapshot := make([]FlowerStock, len(l.flowers))
	copy(snapshot, l.flowers)
	return snapshot
}

func (l *Ledger) persist(ctx context.Context) error {
	payload, err := json.Marshal(l.flowers)
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}
	if err := l.store.SetSlot(ctx, storage.SlotInventory, payload); err != nil {
		return fmt.Errorf("persist inventory: %w", err)
	}
	return nil
}
