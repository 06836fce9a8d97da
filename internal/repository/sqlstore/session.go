// Package sqlstore implements the durable store repositories over sqlx,
// against either the embedded SQLite backend or PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/voxstream/voxstream-backend/internal/repository"
)

// SessionRepository implements repository.SessionRepository using sqlx
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &SessionRepository{db: db}
}

// Put upserts a session keyed by its own id
func (r *SessionRepository) Put(ctx context.Context, session *repository.Session) error {
	query := `
		INSERT INTO sessions (id, created_at, updated_at, title, transcript_html, n_lines, model, language, was_recording)
		VALUES (:id, :created_at, :updated_at, :title, :transcript_html, :n_lines, :model, :language, :was_recording)
		ON CONFLICT (id) DO UPDATE SET
			updated_at = excluded.updated_at,
			title = excluded.title,
			transcript_html = excluded.transcript_html,
			n_lines = excluded.n_lines,
			model = excluded.model,
			language = excluded.language,
			was_recording = excluded.was_recording
	`

	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID; (nil, nil) when absent
func (r *SessionRepository) Get(ctx context.Context, id string) (*repository.Session, error) {
	var session repository.Session
	query := r.db.Rebind(`
		SELECT id, created_at, updated_at, title, transcript_html, n_lines, model, language, was_recording
		FROM sessions
		WHERE id = ?
	`)

	err := r.db.GetContext(ctx, &session, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &session, nil
}

// List retrieves all sessions, newest first. Lexicographic ordering of the
// ISO-8601 strings is chronologically correct; id breaks ties stably.
func (r *SessionRepository) List(ctx context.Context) ([]*repository.Session, error) {
	var sessions []*repository.Session
	query := `
		SELECT id, created_at, updated_at, title, transcript_html, n_lines, model, language, was_recording
		FROM sessions
		ORDER BY updated_at DESC, id DESC
	`

	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

// Delete removes a session; absent ids are not an error
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind("DELETE FROM sessions WHERE id = ?")
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
