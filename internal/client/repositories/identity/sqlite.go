package identity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cloudbox/internal/client/models"
)

// slotKey is the fixed key the identity is stored under.
const slotKey = "identity"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context) (*models.UserIdentity, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM identity_cache WHERE key = ?`, slotKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached identity: %w", err)
	}

	var user models.UserIdentity
	if err := json.Unmarshal(value, &user); err != nil {
		return nil, fmt.Errorf("cached identity is corrupt: %w", err)
	}
	return &user, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, user models.UserIdentity) error {
	value, err := json.Marshal(user)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO identity_cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, slotKey, value)
	if err != nil {
		return fmt.Errorf("failed to cache identity: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM identity_cache WHERE key = ?`, slotKey)
	if err != nil {
		return fmt.Errorf("failed to clear cached identity: %w", err)
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)
