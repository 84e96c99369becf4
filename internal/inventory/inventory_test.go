package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floreboard/internal/storage"
)

func newTestLedger(t *testing.T, flowers []FlowerStock) *Ledger {
	t.Helper()
	store := storage.NewInMemoryStore()
	ledger, err := NewLedger(context.Background(), store, false)
	require.NoError(t, err)
	for _, flower := range flowers {
		_, err := ledger.Add(context.Background(), flower)
		require.NoError(t, err)
	}
	return ledger
}

func TestLedgerSeedsStarterInventory(t *testing.T) {
	store := storage.NewInMemoryStore()
	ledger, err := NewLedger(context.Background(), store, true)
	require.NoError(t, err)

	flowers := ledger.List(context.Background())
	assert.Len(t, flowers, 11)

	// seeded catalog survives a reload
	reloaded, err := NewLedger(context.Background(), store, false)
	require.NoError(t, err)
	assert.Len(t, reloaded.List(context.Background()), 11)
}

func TestDeductExactMatch(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "Red Rose", Quantity: 50},
		{Name: "Baby's Breath", Quantity: 30},
	})

	changed, err := ledger.Deduct(context.Background(), []LineItem{
		{Name: "red rose", Count: 5},
	})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, 45, changed[0].Quantity)
	assert.Equal(t, 5, changed[0].TotalUsed)

	flowers := ledger.List(context.Background())
	assert.Equal(t, 45, flowers[0].Quantity)
	assert.Equal(t, 30, flowers[1].Quantity)
}

func TestDeductStockContainsRequest(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "White Lily", Quantity: 20},
	})

	changed, err := ledger.Deduct(context.Background(), []LineItem{
		{Name: "Lily", Count: 3},
	})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, 17, changed[0].Quantity)
}

func TestDeductRequestContainsStock(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "Tulip", Quantity: 12},
	})

	changed, err := ledger.Deduct(context.Background(), []LineItem{
		{Name: "Dutch Tulip (premium)", Count: 4},
	})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, 8, changed[0].Quantity)
}

func TestDeductFirstRecordWins(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "White Rose", Quantity: 10},
		{Name: "Red Rose", Quantity: 10},
	})

	changed, err := ledger.Deduct(context.Background(), []LineItem{
		{Name: "Rose", Count: 2},
	})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, "White Rose", changed[0].Name)
	assert.Equal(t, 8, changed[0].Quantity)

	flowers := ledger.List(context.Background())
	assert.Equal(t, 10, flowers[1].Quantity)
}

func TestDeductClampsAtZero(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "Sunflower", Quantity: 3},
	})

	changed, err := ledger.Deduct(context.Background(), []LineItem{
		{Name: "Sunflower", Count: 10},
	})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, 0, changed[0].Quantity)
	assert.Equal(t, 10, changed[0].TotalUsed)
}

func TestDeductSkipsUnknownNames(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "Red Rose", Quantity: 50},
	})

	changed, err := ledger.Deduct(context.Background(), []LineItem{
		{Name: "Orchid", Count: 5},
		{Name: "Red Rose", Count: 5},
	})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, "Red Rose", changed[0].Name)
	assert.Equal(t, 45, changed[0].Quantity)
}

func TestDeductNothingMatchedPersistsNothing(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "Chamomile", Quantity: 40},
	})

	changed, err := ledger.Deduct(context.Background(), []LineItem{
		{Name: "Peony", Count: 5},
		{Name: "", Count: 3},
	})
	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.Equal(t, 40, ledger.List(context.Background())[0].Quantity)
}

func TestDeductCumulativeTotalUsed(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "Eucalyptus", Quantity: 100},
	})

	for i := 0; i < 3; i++ {
		_, err := ledger.Deduct(context.Background(), []LineItem{
			{Name: "Eucalyptus", Count: 7},
		})
		require.NoError(t, err)
	}

	flowers := ledger.List(context.Background())
	assert.Equal(t, 79, flowers[0].Quantity)
	assert.Equal(t, 21, flowers[0].TotalUsed)
}

func TestAddDefaultsIDAndInitialStock(t *testing.T) {
	ledger := newTestLedger(t, nil)

	stock, err := ledger.Add(context.Background(), FlowerStock{Name: "Peony", Quantity: 25})
	require.NoError(t, err)
	assert.NotEmpty(t, stock.ID)
	assert.Equal(t, 25, stock.InitialStock)
	assert.NotZero(t, stock.CreatedAt)
}

func TestUpdateMissingIDIsNoOp(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "Tulip", Quantity: 12},
	})

	err := ledger.Update(context.Background(), FlowerStock{ID: "nope", Name: "Ghost", Quantity: 1})
	require.NoError(t, err)
	flowers := ledger.List(context.Background())
	require.Len(t, flowers, 1)
	assert.Equal(t, "Tulip", flowers[0].Name)
}

func TestDeleteRemovesRecord(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "Tulip", Quantity: 12},
		{Name: "Peony", Quantity: 5},
	})

	flowers := ledger.List(context.Background())
	require.NoError(t, ledger.Delete(context.Background(), flowers[0].ID))

	remaining := ledger.List(context.Background())
	require.Len(t, remaining, 1)
	assert.Equal(t, "Peony", remaining[0].Name)
}

func TestLowStockThreshold(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "Red Rose", Quantity: 50},
		{Name: "Sunflower", Quantity: 10},
		{Name: "Tulip", Quantity: 2},
	})

	low := ledger.LowStock(context.Background(), 10)
	require.Len(t, low, 2)
	assert.Equal(t, "Sunflower", low[0].Name)
	assert.Equal(t, "Tulip", low[1].Name)
}

func TestPromptListingFormat(t *testing.T) {
	ledger := newTestLedger(t, []FlowerStock{
		{Name: "Red Rose", Color: "#C21E56", Quantity: 50, UnitCost: 2.5, Category: CategoryMain},
		{Name: "Tulip", Color: "#FF6347", Quantity: 2, UnitCost: 1.8, Category: CategoryMain},
	})

	listing := ledger.PromptListing(10)
	lines := strings.Split(listing, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "- Red Rose (Color: #C21E56, Qty: 50, Cost: 2.5/stem, Category: main)", lines[0])
	assert.Equal(t, "- Tulip (Color: #FF6347, Qty: 2 (LOW STOCK!), Cost: 1.8/stem, Category: main)", lines[1])
}
