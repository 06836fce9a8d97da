package persist

import "github.com/sirupsen/logrus"

// Host is the accessor/mutator contract supplied by the surrounding
// application. Accessors read current live state; mutators apply restored
// state. Any field may be nil. Faults inside host callbacks are always
// caught at this boundary and never reach persistence logic.
type Host struct {
	TranscriptHTML func() string
	NLines         func() int
	Model          func() string
	Language       func() string
	Recording      func() bool

	SetTranscriptHTML func(string)
	SetNLines         func(int)
	SetModel          func(string)
	SetLanguage       func(string)
}

// Sinks receives user-facing output. Both callbacks are best-effort: their
// panics are recovered and logged, never propagated. Callbacks may be
// invoked while the Manager lock is held and must not call back into it.
type Sinks struct {
	Banner  func(message string)
	Display func(patch Patch)
}

// bestEffort invokes fn, discarding any panic it raises.
func bestEffort(log *logrus.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil && log != nil {
			log.WithField("callback", name).Debugf("host callback panicked: %v", r)
		}
	}()
	fn()
}

func (m *Manager) banner(msg string) {
	if m.sinks.Banner == nil {
		return
	}
	bestEffort(m.log, "banner", func() { m.sinks.Banner(msg) })
}

func (m *Manager) display(patch Patch) {
	if m.sinks.Display == nil {
		return
	}
	bestEffort(m.log, "display", func() { m.sinks.Display(patch) })
}

func (m *Manager) hostTranscript() (string, bool) {
	if m.host.TranscriptHTML == nil {
		return "", false
	}
	var s string
	bestEffort(m.log, "transcript", func() { s = m.host.TranscriptHTML() })
	return s, true
}

func (m *Manager) hostNLines() (int, bool) {
	if m.host.NLines == nil {
		return 0, false
	}
	var n int
	bestEffort(m.log, "nlines", func() { n = m.host.NLines() })
	return n, true
}

func (m *Manager) hostModel() string {
	if m.host.Model == nil {
		return ""
	}
	var s string
	bestEffort(m.log, "model", func() { s = m.host.Model() })
	return s
}

func (m *Manager) hostLanguage() string {
	if m.host.Language == nil {
		return ""
	}
	var s string
	bestEffort(m.log, "language", func() { s = m.host.Language() })
	return s
}

func (m *Manager) hostRecording() bool {
	if m.host.Recording == nil {
		return false
	}
	var b bool
	bestEffort(m.log, "recording", func() { b = m.host.Recording() })
	return b
}

func (m *Manager) hostSetTranscript(s string) {
	if m.host.SetTranscriptHTML != nil {
		bestEffort(m.log, "setTranscript", func() { m.host.SetTranscriptHTML(s) })
	}
}

func (m *Manager) hostSetNLines(n int) {
	if m.host.SetNLines != nil {
		bestEffort(m.log, "setNLines", func() { m.host.SetNLines(n) })
	}
}

func (m *Manager) hostSetModel(s string) {
	if m.host.SetModel != nil {
		bestEffort(m.log, "setModel", func() { m.host.SetModel(s) })
	}
}

func (m *Manager) hostSetLanguage(s string) {
	if m.host.SetLanguage != nil {
		bestEffort(m.log, "setLanguage", func() { m.host.SetLanguage(s) })
	}
}
