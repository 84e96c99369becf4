package design

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floreboard/internal/inventory"
	"floreboard/internal/storage"
)

func newTestHistory(t *testing.T, flowers []inventory.FlowerStock) (*History, *inventory.Ledger, storage.Store) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewInMemoryStore()
	ledger, err := inventory.NewLedger(ctx, store, false)
	require.NoError(t, err)
	for _, flower := range flowers {
		_, err := ledger.Add(ctx, flower)
		require.NoError(t, err)
	}

	history, err := NewHistory(ctx, store, ledger)
	require.NoError(t, err)
	return history, ledger, store
}

func TestSavePrependsNewPlans(t *testing.T) {
	history, _, _ := newTestHistory(t, nil)
	ctx := context.Background()

	require.NoError(t, history.Save(ctx, Plan{ID: "a", Title: "First"}))
	require.NoError(t, history.Save(ctx, Plan{ID: "b", Title: "Second"}))

	plans := history.List(ctx)
	require.Len(t, plans, 2)
	assert.Equal(t, "b", plans[0].ID)
	assert.Equal(t, "a", plans[1].ID)
}

func TestSaveUpsertsInPlace(t *testing.T) {
	history, _, _ := newTestHistory(t, nil)
	ctx := context.Background()

	require.NoError(t, history.Save(ctx, Plan{ID: "a", Title: "First"}))
	require.NoError(t, history.Save(ctx, Plan{ID: "b", Title: "Second"}))
	require.NoError(t, history.Save(ctx, Plan{ID: "a", Title: "First, revised", Rating: 5}))

	plans := history.List(ctx)
	require.Len(t, plans, 2)
	assert.Equal(t, "b", plans[0].ID)
	assert.Equal(t, "First, revised", plans[1].Title)
	assert.Equal(t, 5, plans[1].Rating)
}

func TestHistorySurvivesReload(t *testing.T) {
	history, ledger, store := newTestHistory(t, nil)
	ctx := context.Background()

	require.NoError(t, history.Save(ctx, Plan{ID: "a", Title: "Kept"}))

	reloaded, err := NewHistory(ctx, store, ledger)
	require.NoError(t, err)
	plans := reloaded.List(ctx)
	require.Len(t, plans, 1)
	assert.Equal(t, "Kept", plans[0].Title)
}

func TestExecuteDeductsAndCompletes(t *testing.T) {
	history, ledger, _ := newTestHistory(t, []inventory.FlowerStock{
		{Name: "Red Rose", Quantity: 50},
		{Name: "Baby's Breath", Quantity: 30},
	})
	ctx := context.Background()

	plan := Plan{
		ID: "p1",
		FlowerList: []FlowerItem{
			{FlowerName: "Red Rose", Count: 5},
			{FlowerName: "Orchid", Count: 3},
		},
		Status: StatusDraft,
	}
	require.NoError(t, history.Save(ctx, plan))

	executed, err := history.Execute(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, executed.Status)
	assert.NotZero(t, executed.ExecutedAt)

	flowers := ledger.List(ctx)
	assert.Equal(t, 45, flowers[0].Quantity)
	assert.Equal(t, 30, flowers[1].Quantity)

	// the stored copy reflects completion
	stored, err := history.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
}

func TestExecuteRunsOnce(t *testing.T) {
	history, ledger, _ := newTestHistory(t, []inventory.FlowerStock{
		{Name: "Red Rose", Quantity: 50},
	})
	ctx := context.Background()

	plan := Plan{
		ID:         "p1",
		FlowerList: []FlowerItem{{FlowerName: "Red Rose", Count: 5}},
		Status:     StatusDraft,
	}
	require.NoError(t, history.Save(ctx, plan))

	executed, err := history.Execute(ctx, plan)
	require.NoError(t, err)

	again, err := history.Execute(ctx, executed)
	require.NoError(t, err)
	assert.Equal(t, executed.ExecutedAt, again.ExecutedAt)

	flowers := ledger.List(ctx)
	assert.Equal(t, 45, flowers[0].Quantity)
}

func TestDeleteRemovesPlan(t *testing.T) {
	history, _, _ := newTestHistory(t, nil)
	ctx := context.Background()

	require.NoError(t, history.Save(ctx, Plan{ID: "a"}))
	require.NoError(t, history.Delete(ctx, "a"))
	assert.Empty(t, history.List(ctx))

	_, err := history.Get(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
