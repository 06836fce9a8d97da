package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortID(t *testing.T) {
	assert.Equal(t, Placeholder, ShortID(""))
	assert.Equal(t, "short", ShortID("short"))
	assert.Equal(t, "exactly10!", ShortID("exactly10!"))
	assert.Equal(t, "sess_1…beef", ShortID("sess_1709300000000_deadbeef"))
}

func TestFormatTimeLabel(t *testing.T) {
	assert.Equal(t, Placeholder, FormatTimeLabel(""))
	assert.Equal(t, Placeholder, FormatTimeLabel("not a timestamp"))

	label := FormatTimeLabel("2024-03-01T12:34:56.789Z")
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}$`, label)
}

func TestDisplayStateApplyMergesPatches(t *testing.T) {
	d := NewDisplayState()

	snap := d.Snapshot()
	assert.Equal(t, Placeholder, snap.ActiveSessionLabel)
	assert.Equal(t, Placeholder, snap.LastSaveLabel)
	assert.Equal(t, Placeholder, snap.LastModelLabel)

	d.Apply(Patch{PersistState: strPtr(StateActive)})
	d.Apply(Patch{ActiveSessionLabel: strPtr("sess_1…beef")})

	snap = d.Snapshot()
	assert.Equal(t, StateActive, snap.PersistState)
	assert.Equal(t, "sess_1…beef", snap.ActiveSessionLabel)
	// Untouched fields keep their previous values.
	assert.Equal(t, Placeholder, snap.LastSaveLabel)

	d.Apply(Patch{Sessions: []SessionItem{{ID: "a", Title: "A", IsActive: true}}})
	snap = d.Snapshot()
	assert.Len(t, snap.Sessions, 1)

	// Snapshot returns a copy; mutating it does not leak back.
	snap.Sessions[0].Title = "mutated"
	assert.Equal(t, "A", d.Snapshot().Sessions[0].Title)
}

func TestDisplayStateBanner(t *testing.T) {
	d := NewDisplayState()
	d.SetBanner("first")
	d.SetBanner("second")
	assert.Equal(t, "second", d.Snapshot().Banner)
}
