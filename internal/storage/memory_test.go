package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotRoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_, err := store.GetSlot(ctx, SlotInventory)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetSlot(ctx, SlotInventory, []byte(`[{"name":"Rose"}]`)))

	payload, err := store.GetSlot(ctx, SlotInventory)
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Rose"}]`, string(payload))

	require.NoError(t, store.DeleteSlot(ctx, SlotInventory))
	_, err = store.GetSlot(ctx, SlotInventory)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSlotPayloadsAreCopied(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	original := []byte("abc")
	require.NoError(t, store.SetSlot(ctx, "slot", original))
	original[0] = 'x'

	payload, err := store.GetSlot(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(payload))

	payload[0] = 'y'
	again, err := store.GetSlot(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestCredentialRoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_, err := store.GetCredential(ctx, "svc", "acct")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetCredential(ctx, "svc", "acct", "secret"))

	value, err := store.GetCredential(ctx, "svc", "acct")
	require.NoError(t, err)
	assert.Equal(t, "secret", value)

	// same service, different account is a distinct entry
	_, err = store.GetCredential(ctx, "svc", "other")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.DeleteCredential(ctx, "svc", "acct"))
	_, err = store.GetCredential(ctx, "svc", "acct")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCredentialsAndSlotsAreSeparate(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetCredential(ctx, "api_config", "key", "secret"))
	_, err := store.GetSlot(ctx, "api_config")
	assert.ErrorIs(t, err, ErrNotFound)
}
