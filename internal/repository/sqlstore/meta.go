package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/voxstream/voxstream-backend/internal/repository"
)

// MetaRepository implements repository.MetaRepository using sqlx
type MetaRepository struct {
	db *sqlx.DB
}

// NewMetaRepository creates a new meta repository
func NewMetaRepository(db *sqlx.DB) repository.MetaRepository {
	return &MetaRepository{db: db}
}

// Get retrieves a meta entry by key; (nil, nil) when absent
func (r *MetaRepository) Get(ctx context.Context, key string) (*repository.MetaEntry, error) {
	var entry repository.MetaEntry
	query := r.db.Rebind(`SELECT key, value, updated_at FROM meta WHERE key = ?`)

	err := r.db.GetContext(ctx, &entry, query, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get meta: %w", err)
	}

	return &entry, nil
}

// Put upserts a meta entry keyed by its own key
func (r *MetaRepository) Put(ctx context.Context, entry *repository.MetaEntry) error {
	query := `
		INSERT INTO meta (key, value, updated_at)
		VALUES (:key, :value, :updated_at)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("put meta: %w", err)
	}
	return nil
}

// Delete removes a meta entry; absent keys are not an error
func (r *MetaRepository) Delete(ctx context.Context, key string) error {
	query := r.db.Rebind("DELETE FROM meta WHERE key = ?")
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete meta: %w", err)
	}
	return nil
}
