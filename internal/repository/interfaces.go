package repository

import "context"

// Session is one durable transcription work context. Timestamps are
// fixed-width UTC ISO-8601 strings; updated_at is the sole recency key.
type Session struct {
	ID             string  `db:"id" json:"id"`
	CreatedAt      string  `db:"created_at" json:"createdAt"`
	UpdatedAt      string  `db:"updated_at" json:"updatedAt"`
	Title          string  `db:"title" json:"title"`
	TranscriptHTML string  `db:"transcript_html" json:"transcriptHTML"`
	NLines         int     `db:"n_lines" json:"nLines"`
	Model          *string `db:"model" json:"model"`
	Language       string  `db:"language" json:"language"`
	WasRecording   bool    `db:"was_recording" json:"wasRecording"`
}

// MetaEntry is a single-purpose key/value record. The only key in use is
// the active-session pointer.
type MetaEntry struct {
	Key       string  `db:"key" json:"key"`
	Value     *string `db:"value" json:"value"`
	UpdatedAt string  `db:"updated_at" json:"updatedAt"`
}

// SessionRepository defines session storage operations
type SessionRepository interface {
	// Put upserts by the session's own id.
	Put(ctx context.Context, session *Session) error
	// Get returns (nil, nil) when the id is absent.
	Get(ctx context.Context, id string) (*Session, error)
	// List returns all sessions ordered by updated_at descending,
	// ties broken by id for a stable order.
	List(ctx context.Context) ([]*Session, error)
	// Delete is a no-op for an absent id.
	Delete(ctx context.Context, id string) error
}

// MetaRepository defines meta record storage operations
type MetaRepository interface {
	Get(ctx context.Context, key string) (*MetaEntry, error)
	Put(ctx context.Context, entry *MetaEntry) error
	Delete(ctx context.Context, key string) error
}
