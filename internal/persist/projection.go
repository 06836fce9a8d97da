package persist

import (
	"sync"
	"time"
)

// Placeholder shown for absent labels.
const Placeholder = "—"

// Persistence status values surfaced to the display sink.
const (
	StateOpening     = "opening store…"
	StateActive      = "active"
	StateUnavailable = "unavailable (no durable storage)"
	StateRetrying    = "save failed (will retry)"
)

// SessionItem is one row of the session list projection.
type SessionItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	UpdatedAt *string `json:"updatedAt"`
	Model     *string `json:"model"`
	IsActive  bool    `json:"isActive"`
}

// Patch is a partial display-state update. Nil fields mean "unchanged".
type Patch struct {
	PersistState       *string       `json:"persistState,omitempty"`
	ActiveSessionLabel *string       `json:"activeSessionLabel,omitempty"`
	LastSaveLabel      *string       `json:"lastSaveLabel,omitempty"`
	LastModelLabel     *string       `json:"lastModelLabel,omitempty"`
	Sessions           []SessionItem `json:"sessions,omitempty"`
}

func strPtr(s string) *string { return &s }

// ShortID shortens a session id for display: first6…last4 beyond 10 chars.
func ShortID(id string) string {
	if id == "" {
		return Placeholder
	}
	if len(id) <= 10 {
		return id
	}
	return id[:6] + "…" + id[len(id)-4:]
}

// FormatTimeLabel renders an ISO-8601 timestamp as a local HH:MM:SS label,
// or the placeholder when absent or unparseable.
func FormatTimeLabel(iso string) string {
	if iso == "" {
		return Placeholder
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return Placeholder
	}
	return t.Local().Format("15:04:05")
}

// DisplaySnapshot is a flat copy of the projection fields, safe to
// serialize.
type DisplaySnapshot struct {
	PersistState       string        `json:"persistState"`
	ActiveSessionLabel string        `json:"activeSessionLabel"`
	LastSaveLabel      string        `json:"lastSaveLabel"`
	LastModelLabel     string        `json:"lastModelLabel"`
	Sessions           []SessionItem `json:"sessions"`
	Banner             string        `json:"banner"`
}

// DisplayState accumulates the projection fields by merging patches. It
// backs the HTTP state endpoint and the WebSocket broadcast.
type DisplayState struct {
	mu   sync.RWMutex
	snap DisplaySnapshot
}

// NewDisplayState returns a display state with placeholder labels.
func NewDisplayState() *DisplayState {
	return &DisplayState{
		snap: DisplaySnapshot{
			ActiveSessionLabel: Placeholder,
			LastSaveLabel:      Placeholder,
			LastModelLabel:     Placeholder,
		},
	}
}

// Apply merges a patch into the accumulated state.
func (d *DisplayState) Apply(p Patch) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p.PersistState != nil {
		d.snap.PersistState = *p.PersistState
	}
	if p.ActiveSessionLabel != nil {
		d.snap.ActiveSessionLabel = *p.ActiveSessionLabel
	}
	if p.LastSaveLabel != nil {
		d.snap.LastSaveLabel = *p.LastSaveLabel
	}
	if p.LastModelLabel != nil {
		d.snap.LastModelLabel = *p.LastModelLabel
	}
	if p.Sessions != nil {
		d.snap.Sessions = p.Sessions
	}
}

// SetBanner records the most recent banner message.
func (d *DisplayState) SetBanner(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snap.Banner = msg
}

// Snapshot returns a copy safe for serialization.
func (d *DisplayState) Snapshot() DisplaySnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := d.snap
	out.Sessions = append([]SessionItem(nil), d.snap.Sessions...)
	return out
}
