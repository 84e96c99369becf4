package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that a slot or credential has never been written.
var ErrNotFound = errors.New("slot not found")

// Well-known slot names. Each slot holds one serialized collection or record.
const (
	SlotInventory  = "inventory"
	SlotDesigns    = "saved_designs"
	SlotAPIConfig  = "api_config"
	SlotTenantName = "tenant_name"
	SlotLanguage   = "app_language"
)

// Store is the persistence contract for the application. Slots hold ordinary
// serialized state; credentials live in a separate namespace so that secrets
// never share storage with the regular configuration blob.
type Store interface {
	GetSlot(ctx context.Context, name string) ([]byte, error)
	SetSlot(ctx context.Context, name string, payload []byte) error
	DeleteSlot(ctx context.Context, name string) error

	GetCredential(ctx context.Context, service, account string) (string, error)
	SetCredential(ctx context.Context, service, account, value string) error
	DeleteCredential(ctx context.Context, service, account string) error

	Close()
}

// NewStore selects a backing store based on whether a database URL is provided.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if databaseURL == "" {
		return NewInMemoryStore(), nil
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS slots (
        name TEXT PRIMARY KEY,
        payload JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`)
	if err != nil {
		return fmt.Errorf("create slots table: %w", err)
	}

	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS credentials (
        service TEXT NOT NULL,
        account TEXT NOT NULL,
        value TEXT NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (service, account)
    )`)
	if err != nil {
		return fmt.Errorf("create credentials table: %w", err)
	}

	return nil
}
