package persist

import "time"

// Timer arms a single deferred callback. The Manager never arms a second
// callback while one is pending, so implementations only track one at a
// time. The wall-clock implementation is replaced in tests by one fired by
// hand, so the debounce logic is exercised without real delays.
type Timer interface {
	Arm(d time.Duration, fn func())
	Cancel()
}

type wallTimer struct {
	t *time.Timer
}

// NewWallTimer returns a Timer backed by time.AfterFunc.
func NewWallTimer() Timer {
	return &wallTimer{}
}

func (w *wallTimer) Arm(d time.Duration, fn func()) {
	w.Cancel()
	w.t = time.AfterFunc(d, fn)
}

func (w *wallTimer) Cancel() {
	if w.t != nil {
		w.t.Stop()
		w.t = nil
	}
}
