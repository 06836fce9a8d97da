// Package persist implements the session persistence and autosave
// subsystem: a durable multi-session store with an active-session pointer,
// dirty-tracked debounced autosave, bounded retention, and recovery after
// restart.
package persist

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/voxstream/voxstream-backend/internal/repository"
)

const (
	// AutosaveInterval is the debounce delay between marking dirty and the
	// flush that persists it.
	AutosaveInterval = 1000 * time.Millisecond
	// MaxSessions is the retention cap; oldest excess sessions are pruned.
	MaxSessions = 25
	// DefaultLanguage is the transcription language fallback.
	DefaultLanguage = "pt"

	metaKeyActive = "activeSessionId"

	// Fixed-width UTC layout so lexicographic comparison stays chronological.
	isoLayout = "2006-01-02T15:04:05.000Z07:00"
)

// FlushReason distinguishes the routine timer-driven flush from explicit
// ones. Only the routine reason honors the dirty and fingerprint gates.
type FlushReason string

const (
	ReasonAutosave FlushReason = "autosave"
	ReasonStop     FlushReason = "stop"
	ReasonDelete   FlushReason = "delete"
	ReasonManual   FlushReason = "manual"
)

func (r FlushReason) routine() bool { return r == ReasonAutosave }

// Options configures a Manager. Sessions and Meta may be nil, in which case
// Init degrades to non-persistent operation.
type Options struct {
	Sessions repository.SessionRepository
	Meta     repository.MetaRepository
	Host     Host
	Sinks    Sinks
	Timer    Timer
	Logger   *logrus.Logger
	Now      func() time.Time
}

// Manager owns the active-session pointer and is the only writer of the
// sessions and meta collections. One Manager is instantiated per
// application lifetime; all state lives here rather than in package
// globals so independent instances can exist side by side in tests.
type Manager struct {
	sessions repository.SessionRepository
	meta     repository.MetaRepository
	host     Host
	sinks    Sinks
	timer    Timer
	log      *logrus.Logger
	now      func() time.Time

	mu            sync.Mutex
	ready         bool
	activeID      string
	dirty         bool
	pending       bool
	lastSavedHash string
}

// New creates a Manager from opts.
func New(opts Options) *Manager {
	m := &Manager{
		sessions: opts.Sessions,
		meta:     opts.Meta,
		host:     opts.Host,
		sinks:    opts.Sinks,
		timer:    opts.Timer,
		log:      opts.Logger,
		now:      opts.Now,
	}
	if m.timer == nil {
		m.timer = NewWallTimer()
	}
	if m.log == nil {
		m.log = logrus.StandardLogger()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

func (m *Manager) nowISO() string {
	return m.now().UTC().Format(isoLayout)
}

// newSessionID derives an id from a high-resolution timestamp plus random
// entropy, collision-resistant across restarts.
func (m *Manager) newSessionID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("sess_%d_%s", m.now().UnixMilli(), hex.EncodeToString(b[:]))
}

// Init opens the subsystem: resolves or creates the active session,
// publishes the initial projection, and restores the active session into
// the host. On any failure it degrades to non-persistent operation: the
// caller keeps running, a warning banner fires once, and every subsequent
// autosave is a silent no-op.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.display(Patch{PersistState: strPtr(StateOpening)})

	if m.sessions == nil || m.meta == nil {
		return m.degrade(ErrStorageUnavailable)
	}
	m.ready = true

	entry, err := m.meta.Get(ctx, metaKeyActive)
	if err != nil {
		return m.degrade(err)
	}
	if entry != nil && entry.Value != nil {
		m.activeID = *entry.Value
	}

	if m.activeID == "" {
		if _, err := m.createSession(ctx, true); err != nil {
			return m.degrade(err)
		}
	} else {
		existing, err := m.sessions.Get(ctx, m.activeID)
		if err != nil {
			return m.degrade(err)
		}
		// Dangling pointer: the record was deleted out from under us.
		if existing == nil {
			if _, err := m.createSession(ctx, true); err != nil {
				return m.degrade(err)
			}
		}
	}

	m.display(Patch{
		ActiveSessionLabel: strPtr(ShortID(m.activeID)),
		LastModelLabel:     strPtr(labelOr(m.hostModel())),
		LastSaveLabel:      strPtr(Placeholder),
	})

	if err := m.refreshSessionList(ctx); err != nil {
		return m.degrade(err)
	}

	// Continuity: push the resolved active session back into the host.
	if err := m.restoreSession(ctx, m.activeID); err != nil {
		return m.degrade(err)
	}

	m.display(Patch{PersistState: strPtr(StateActive)})
	return nil
}

func (m *Manager) degrade(err error) error {
	m.ready = false
	m.display(Patch{PersistState: strPtr(StateUnavailable)})
	m.banner("Warning: durable storage unavailable. Sessions will not be saved.")
	m.log.WithError(err).Error("persistence init failed")
	if err == ErrStorageUnavailable {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

// Ready reports whether the durable store is open.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// ActiveSessionID returns the current active session id, empty when none.
func (m *Manager) ActiveSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// CreateSession generates and persists a fresh session seeded from the
// host's current model and language, optionally making it active, then
// enforces the retention cap.
func (m *Manager) CreateSession(ctx context.Context, makeActive bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return "", ErrNotReady
	}
	return m.createSession(ctx, makeActive)
}

func (m *Manager) createSession(ctx context.Context, makeActive bool) (string, error) {
	id := m.newSessionID()
	nowISO := m.nowISO()

	var model *string
	if hm := m.hostModel(); hm != "" {
		model = strPtr(hm)
	}
	lang := m.hostLanguage()
	if lang == "" {
		lang = DefaultLanguage
	}

	sess := &repository.Session{
		ID:             id,
		CreatedAt:      nowISO,
		UpdatedAt:      nowISO,
		Title:          "Session " + m.now().Format("2006-01-02 15:04:05"),
		TranscriptHTML: "",
		NLines:         0,
		Model:          model,
		Language:       lang,
		WasRecording:   false,
	}

	if err := m.sessions.Put(ctx, sess); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	if makeActive {
		if err := m.setActiveSession(ctx, id); err != nil {
			return "", err
		}
	}

	if err := m.trimOldSessions(ctx); err != nil {
		m.log.WithError(err).Warn("session trim failed")
	}
	if err := m.refreshSessionList(ctx); err != nil {
		m.log.WithError(err).Warn("session list refresh failed")
	}

	m.display(Patch{
		LastSaveLabel:      strPtr(Placeholder),
		LastModelLabel:     strPtr(labelOrPtr(model)),
		ActiveSessionLabel: strPtr(ShortID(m.activeID)),
	})

	return id, nil
}

// SetActiveSession repoints the meta active pointer. The id is not
// validated; a later restore of a missing id reports "not found" without
// touching host state.
func (m *Manager) SetActiveSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrNotReady
	}
	return m.setActiveSession(ctx, id)
}

func (m *Manager) setActiveSession(ctx context.Context, id string) error {
	m.activeID = id
	entry := &repository.MetaEntry{
		Key:       metaKeyActive,
		Value:     strPtr(id),
		UpdatedAt: m.nowISO(),
	}
	if err := m.meta.Put(ctx, entry); err != nil {
		return fmt.Errorf("set active session: %w", err)
	}

	m.display(Patch{ActiveSessionLabel: strPtr(ShortID(m.activeID))})

	return m.refreshSessionList(ctx)
}

// RestoreSession loads a session and pushes its state into the host. An
// absent id emits a banner and returns ErrSessionNotFound without mutating
// host state.
func (m *Manager) RestoreSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrNotReady
	}
	return m.restoreSession(ctx, id)
}

func (m *Manager) restoreSession(ctx context.Context, id string) error {
	sess, err := m.sessions.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if sess == nil {
		m.banner("No session found to restore.")
		return ErrSessionNotFound
	}

	if sess.Language != "" {
		m.hostSetLanguage(sess.Language)
	}
	if sess.Model != nil && *sess.Model != "" {
		m.hostSetModel(*sess.Model)
	}
	m.hostSetTranscript(sess.TranscriptHTML)
	n := sess.NLines
	if n < 0 {
		n = 0
	}
	m.hostSetNLines(n)

	m.display(Patch{
		LastSaveLabel:      strPtr(FormatTimeLabel(sess.UpdatedAt)),
		LastModelLabel:     strPtr(labelOrPtr(sess.Model)),
		ActiveSessionLabel: strPtr(ShortID(m.activeID)),
	})

	if sess.WasRecording {
		m.banner("Session restored. Recording was in progress — press Start to resume (the browser requires an interaction).")
	} else {
		m.banner("Session restored. You can continue normally.")
	}

	return nil
}

// DeleteSession removes a session. Deleting the active session clears the
// pointer, creates a fresh replacement, makes it active and notifies the
// user. An autosave is scheduled afterward to persist the replacement's
// baseline state.
func (m *Manager) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	if !m.ready {
		m.mu.Unlock()
		return ErrNotReady
	}
	err := m.deleteSession(ctx, id)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.ScheduleAutosave()
	return nil
}

func (m *Manager) deleteSession(ctx context.Context, id string) error {
	if err := m.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if id == m.activeID {
		m.activeID = ""
		if err := m.meta.Delete(ctx, metaKeyActive); err != nil {
			return fmt.Errorf("clear active pointer: %w", err)
		}
		if _, err := m.createSession(ctx, true); err != nil {
			return err
		}
		m.banner("Session deleted. A new active session was created.")
	}

	return m.refreshSessionList(ctx)
}

// MarkDirty records that host state changed since the last successful save.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
}

// ScheduleAutosave marks dirty and arms the debounce timer. Re-entrant
// calls while a timer is pending coalesce into the armed one. A no-op in
// degraded mode.
func (m *Manager) ScheduleAutosave() {
	m.mu.Lock()
	if !m.ready {
		m.mu.Unlock()
		return
	}
	m.dirty = true
	if m.pending {
		m.mu.Unlock()
		return
	}
	m.pending = true
	m.mu.Unlock()

	m.timer.Arm(AutosaveInterval, m.autosaveTick)
}

func (m *Manager) autosaveTick() {
	m.mu.Lock()
	m.pending = false
	m.mu.Unlock()

	if err := m.Flush(context.Background(), ReasonAutosave); err != nil {
		// Dirty stays set; the next scheduled tick retries at the fixed
		// interval.
		m.log.WithError(err).Warn("autosave flush failed")
		m.display(Patch{PersistState: strPtr(StateRetrying)})
	}
}

// Flush snapshots host state into the active session record. Routine
// flushes are skipped when not dirty or when the content fingerprint is
// unchanged; explicit reasons always proceed. The read/overlay/write
// sequence runs under the Manager lock, so two flushes never interleave.
func (m *Manager) Flush(ctx context.Context, reason FlushReason) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flush(ctx, reason)
}

func (m *Manager) flush(ctx context.Context, reason FlushReason) error {
	if !m.ready || m.activeID == "" {
		return nil
	}
	if !m.dirty && reason.routine() {
		return nil
	}

	html, haveHTML := m.hostTranscript()
	n, haveN := m.hostNLines()
	model := m.hostModel()
	lang := m.hostLanguage()
	if lang == "" {
		lang = DefaultLanguage
	}
	rec := m.hostRecording()

	hash := Fingerprint(html, n, model, lang, rec)
	if hash == m.lastSavedHash && reason.routine() {
		// Dirty was set and unset within one window; nothing actually
		// changed, skip the write.
		m.dirty = false
		return nil
	}

	sess, err := m.sessions.Get(ctx, m.activeID)
	if err != nil {
		return fmt.Errorf("flush read: %w", err)
	}
	if sess == nil {
		return nil
	}

	// Overlay current host state, keeping stored values for absent
	// accessors.
	if haveHTML {
		sess.TranscriptHTML = html
	}
	if haveN && n >= 0 {
		sess.NLines = n
	}
	if model != "" {
		sess.Model = strPtr(model)
	}
	sess.Language = lang
	sess.UpdatedAt = m.nowISO()
	sess.WasRecording = rec

	if err := m.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("flush write: %w", err)
	}

	m.lastSavedHash = hash
	m.dirty = false

	m.display(Patch{
		LastSaveLabel:      strPtr(FormatTimeLabel(sess.UpdatedAt)),
		LastModelLabel:     strPtr(labelOrPtr(sess.Model)),
		ActiveSessionLabel: strPtr(ShortID(m.activeID)),
	})

	if err := m.refreshSessionList(ctx); err != nil {
		m.log.WithError(err).Warn("session list refresh failed")
	}
	return nil
}

// ListSessions returns all stored sessions, newest first.
func (m *Manager) ListSessions(ctx context.Context) ([]*repository.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return nil, ErrNotReady
	}
	return m.sessions.List(ctx)
}

// SetLastModel republishes the last-model label, used when the host loads a
// model outside a save cycle.
func (m *Manager) SetLastModel(model string) {
	m.display(Patch{LastModelLabel: strPtr(labelOr(model))})
}

// trimOldSessions removes the oldest-by-updatedAt sessions beyond the cap.
// The active session is never eligible, even when it is the stalest record.
func (m *Manager) trimOldSessions(ctx context.Context) error {
	all, err := m.sessions.List(ctx)
	if err != nil {
		return err
	}
	excess := len(all) - MaxSessions
	for i := len(all) - 1; i >= 0 && excess > 0; i-- {
		if all[i].ID == m.activeID {
			continue
		}
		if err := m.sessions.Delete(ctx, all[i].ID); err != nil {
			return err
		}
		excess--
	}
	return nil
}

func (m *Manager) refreshSessionList(ctx context.Context) error {
	all, err := m.sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	items := make([]SessionItem, 0, len(all))
	for _, s := range all {
		title := s.Title
		if title == "" {
			title = ShortID(s.ID)
		}
		var updated *string
		if s.UpdatedAt != "" {
			updated = strPtr(s.UpdatedAt)
		}
		items = append(items, SessionItem{
			ID:        s.ID,
			Title:     title,
			UpdatedAt: updated,
			Model:     s.Model,
			IsActive:  s.ID == m.activeID,
		})
	}

	m.display(Patch{Sessions: items})
	return nil
}

func labelOr(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func labelOrPtr(s *string) string {
	if s == nil {
		return Placeholder
	}
	return labelOr(*s)
}
