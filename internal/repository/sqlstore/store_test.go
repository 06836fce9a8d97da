package sqlstore

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/voxstream/voxstream-backend/internal/database"
	"github.com/voxstream/voxstream-backend/internal/repository"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := database.MigrationsFS().ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

func strPtr(s string) *string { return &s }

func sampleSession(id, updatedAt string) *repository.Session {
	return &repository.Session{
		ID:             id,
		CreatedAt:      "2024-03-01T10:00:00.000Z",
		UpdatedAt:      updatedAt,
		Title:          "Session " + id,
		TranscriptHTML: "olá<br>",
		NLines:         1,
		Model:          strPtr("base"),
		Language:       "pt",
		WasRecording:   false,
	}
}

func TestSessionPutGetRoundTrip(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	want := sampleSession("sess_1_aa", "2024-03-01T10:05:00.000Z")
	require.NoError(t, repo.Put(ctx, want))

	got, err := repo.Get(ctx, "sess_1_aa")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, got)
}

func TestSessionGetAbsentReturnsNil(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	got, err := repo.Get(context.Background(), "sess_0_missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionPutUpsertsKeepingCreatedAt(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	first := sampleSession("sess_1_aa", "2024-03-01T10:05:00.000Z")
	require.NoError(t, repo.Put(ctx, first))

	second := sampleSession("sess_1_aa", "2024-03-01T10:06:00.000Z")
	second.CreatedAt = "2099-01-01T00:00:00.000Z"
	second.TranscriptHTML = "olá<br>mundo<br>"
	second.NLines = 2
	second.Model = strPtr("small")
	second.WasRecording = true
	require.NoError(t, repo.Put(ctx, second))

	got, err := repo.Get(ctx, "sess_1_aa")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "2024-03-01T10:00:00.000Z", got.CreatedAt)
	assert.Equal(t, "2024-03-01T10:06:00.000Z", got.UpdatedAt)
	assert.Equal(t, "olá<br>mundo<br>", got.TranscriptHTML)
	assert.Equal(t, 2, got.NLines)
	require.NotNil(t, got.Model)
	assert.Equal(t, "small", *got.Model)
	assert.True(t, got.WasRecording)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSessionListNewestFirst(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, sampleSession("sess_1_aa", "2024-03-01T10:01:00.000Z")))
	require.NoError(t, repo.Put(ctx, sampleSession("sess_2_bb", "2024-03-01T10:03:00.000Z")))
	require.NoError(t, repo.Put(ctx, sampleSession("sess_3_cc", "2024-03-01T10:02:00.000Z")))
	// Same instant; id breaks the tie.
	require.NoError(t, repo.Put(ctx, sampleSession("sess_4_dd", "2024-03-01T10:03:00.000Z")))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	ids := []string{all[0].ID, all[1].ID, all[2].ID, all[3].ID}
	assert.Equal(t, []string{"sess_4_dd", "sess_2_bb", "sess_3_cc", "sess_1_aa"}, ids)
}

func TestSessionNullModel(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	sess := sampleSession("sess_1_aa", "2024-03-01T10:05:00.000Z")
	sess.Model = nil
	require.NoError(t, repo.Put(ctx, sess))

	got, err := repo.Get(ctx, "sess_1_aa")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Model)
}

func TestSessionDeleteAbsentIsNoop(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, "sess_0_missing"))

	require.NoError(t, repo.Put(ctx, sampleSession("sess_1_aa", "2024-03-01T10:05:00.000Z")))
	require.NoError(t, repo.Delete(ctx, "sess_1_aa"))

	got, err := repo.Get(ctx, "sess_1_aa")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMetaPutGetDelete(t *testing.T) {
	repo := NewMetaRepository(newTestDB(t))
	ctx := context.Background()

	got, err := repo.Get(ctx, "activeSessionId")
	require.NoError(t, err)
	assert.Nil(t, got)

	entry := &repository.MetaEntry{
		Key:       "activeSessionId",
		Value:     strPtr("sess_1_aa"),
		UpdatedAt: "2024-03-01T10:05:00.000Z",
	}
	require.NoError(t, repo.Put(ctx, entry))

	got, err = repo.Get(ctx, "activeSessionId")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry, got)

	// Upsert repoints the same key.
	entry.Value = strPtr("sess_2_bb")
	entry.UpdatedAt = "2024-03-01T10:06:00.000Z"
	require.NoError(t, repo.Put(ctx, entry))

	got, err = repo.Get(ctx, "activeSessionId")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sess_2_bb", *got.Value)

	require.NoError(t, repo.Delete(ctx, "activeSessionId"))
	got, err = repo.Get(ctx, "activeSessionId")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Delete(ctx, "activeSessionId"))
}

func TestMetaNullValue(t *testing.T) {
	repo := NewMetaRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &repository.MetaEntry{
		Key:       "activeSessionId",
		Value:     nil,
		UpdatedAt: "2024-03-01T10:05:00.000Z",
	}))

	got, err := repo.Get(ctx, "activeSessionId")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Value)
}
