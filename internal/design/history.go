package design

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"floreboard/internal/inventory"
	"floreboard/internal/storage"
)

// History is the append-only-by-id collection of saved plans, newest first.
// Execute is the only path that mutates inventory from a finalized plan and
// is one-shot per plan through the status guard.
type History struct {
	mu        sync.RWMutex
	store     storage.Store
	inventory *inventory.Ledger
	plans     []Plan
}

// NewHistory loads saved plans from the designs slot.
func NewHistory(ctx context.Context, store storage.Store, ledger *inventory.Ledger) (*History, error) {
	h := &History{store: store, inventory: ledger}

	payload, err := store.GetSlot(ctx, storage.SlotDesigns)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load designs: %w", err)
	default:
		if err := json.Unmarshal(payload, &h.plans); err != nil {
			return nil, fmt.Errorf("decode designs: %w", err)
		}
	}

	return h, nil
}

// List returns a snapshot of saved plans, newest first.
func (h *History) List(_ context.Context) []Plan {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snapshot := make([]Plan, len(h.plans))
	copy(snapshot, h.plans)
	return snapshot
}

// Save upserts the plan: an existing id is replaced in place, a new id is
// prepended so retrieval stays newest-first.
func (h *History) Save(ctx context.Context, plan Plan) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for idx := range h.plans {
		if h.plans[idx].ID == plan.ID {
			h.plans[idx] = plan
			return h.persist(ctx)
		}
	}

	h.plans = append([]Plan{plan}, h.plans...)
	return h.persist(ctx)
}

// Delete removes the plan with the given id.
func (h *History) Delete(ctx context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for idx := range h.plans {
		if h.plans[idx].ID == id {
			h.plans = append(h.plans[:idx], h.plans[idx+1:]...)
			return h.persist(ctx)
		}
	}
	return nil
}

// Get returns the plan with the given id.
func (h *History) Get(_ context.Context, id string) (Plan, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, plan := range h.plans {
		if plan.ID == id {
			return plan, nil
		}
	}
	return Plan{}, storage.ErrNotFound
}

// Execute deducts the plan's line items from inventory and marks the plan
// completed. A plan that is already completed is returned unchanged; the
// deduction never runs twice.
func (h *History) Execute(ctx context.Context, plan Plan) (Plan, error) {
	if plan.Status == StatusCompleted {
		return plan, nil
	}

	items := make([]inventory.LineItem, 0, len(plan.FlowerList))
	for _, item := range plan.FlowerList {
		items = append(items, inventory.LineItem{Name: item.FlowerName, Count: item.Count})
	}
	if _, err := h.inventory.Deduct(ctx, items); err != nil {
		return Plan{}, fmt.Errorf("deduct inventory: %w", err)
	}

	plan.Status = StatusCompleted
	plan.ExecutedAt = time.Now().Unix()

	if err := h.Save(ctx, plan); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

func (h *History) persist(ctx context.Context) error {
	payload, err := json.Marshal(h.plans)
	if err != nil {
		return fmt.Errorf("encode designs: %w", err)
	}
	if err := h.store.SetSlot(ctx, storage.SlotDesigns, payload); err != nil {
		return fmt.Errorf("persist designs: %w", err)
	}
	return nil
}
