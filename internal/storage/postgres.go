package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists slots and credentials in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// GetSlot returns the payload stored under name.
func (s *PostgresStore) GetSlot(ctx context.Context, name string) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM slots WHERE name = $1`, name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query slot %q: %w", name, err)
	}
	return payload, nil
}

// SetSlot upserts the payload under name.
func (s *PostgresStore) SetSlot(ctx context.Context, name string, payload []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO slots (name, payload, updated_at) VALUES ($1, $2, now())
         ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		name, payload)
	if err != nil {
		return fmt.Errorf("upsert slot %q: %w", name, err)
	}
	return nil
}

// DeleteSlot removes the named slot.
func (s *PostgresStore) DeleteSlot(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM slots WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetCredential returns the secret stored for the service/account pair.
func (s *PostgresStore) GetCredential(ctx context.Context, service, account string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM credentials WHERE service = $1 AND account = $2`,
		service, account).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query credential: %w", err)
	}
	return value, nil
}

// SetCredential upserts the secret for the service/account pair.
func (s *PostgresStore) SetCredential(ctx context.Context, service, account, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO credentials (service, account, value, updated_at) VALUES ($1, $2, $3, now())
         ON CONFLICT (service, account) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		service, account, value)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

// DeleteCredential removes the secret for the service/account pair.
func (s *PostgresStore) DeleteCredential(ctx context.Context, service, account string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM credentials WHERE service = $1 AND account = $2`, service, account)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases database resources.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
