package services

import (
	"html"
	"strings"
	"sync"

	"github.com/voxstream/voxstream-backend/internal/persist"
	"github.com/voxstream/voxstream-backend/internal/transcript"
)

// maxLiveLines bounds the rolling live transcript window.
const maxLiveLines = 10

// LiveTranscript holds the live host state the persistence subsystem reads
// and restores: transcript markup, line count, model, language and the
// recording flag. It implements the accessor/mutator contract of
// persist.Host.
type LiveTranscript struct {
	mu        sync.RWMutex
	html      string
	lines     int
	model     string
	language  string
	recording bool

	filter   transcript.Filter
	onChange func()
}

// NewLiveTranscript creates the live state with the given chunk filter.
func NewLiveTranscript(filter transcript.Filter) *LiveTranscript {
	return &LiveTranscript{
		filter:   filter,
		language: persist.DefaultLanguage,
	}
}

// SetOnChange registers the callback fired after every user-driven
// mutation; it is wired to the autosave scheduler.
func (l *LiveTranscript) SetOnChange(fn func()) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// notify runs outside the state lock so the autosave scheduler can read
// the live state from its own goroutine without lock inversion.
func (l *LiveTranscript) notify() {
	l.mu.RLock()
	fn := l.onChange
	l.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// AppendChunk runs a raw engine chunk through the de-duplication filter and
// appends whatever survives, keeping only the newest lines in the window.
// It reports whether anything was appended.
func (l *LiveTranscript) AppendChunk(text string) bool {
	l.mu.Lock()
	out, ok := l.filter.ShouldAppend(text)
	if !ok {
		l.mu.Unlock()
		return false
	}

	l.html += html.EscapeString(out) + "<br>"
	l.lines++

	for l.lines > maxLiveLines {
		if i := strings.Index(l.html, "<br>"); i >= 0 {
			l.html = l.html[i+len("<br>"):]
			l.lines--
		} else {
			break
		}
	}
	l.mu.Unlock()

	l.notify()
	return true
}

// Clear resets the transcript and the filter lookback.
func (l *LiveTranscript) Clear() {
	l.mu.Lock()
	l.html = ""
	l.lines = 0
	if r, ok := l.filter.(interface{ Reset() }); ok {
		r.Reset()
	}
	l.mu.Unlock()

	l.notify()
}

// SetModel records the model the host loaded.
func (l *LiveTranscript) SetModel(model string) {
	l.mu.Lock()
	if model != "" {
		l.model = model
	}
	l.mu.Unlock()

	l.notify()
}

// SetLanguage records the transcription language.
func (l *LiveTranscript) SetLanguage(lang string) {
	l.mu.Lock()
	if lang != "" {
		l.language = lang
	}
	l.mu.Unlock()

	l.notify()
}

// SetRecording flips the recording-in-progress flag.
func (l *LiveTranscript) SetRecording(on bool) {
	l.mu.Lock()
	l.recording = on
	l.mu.Unlock()

	l.notify()
}

// TranscriptHTML returns the current transcript markup.
func (l *LiveTranscript) TranscriptHTML() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.html
}

// NLines returns the live line count.
func (l *LiveTranscript) NLines() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lines
}

// Model returns the current model id, empty when none loaded.
func (l *LiveTranscript) Model() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.model
}

// Language returns the current language code.
func (l *LiveTranscript) Language() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.language
}

// Recording reports whether recording is in progress.
func (l *LiveTranscript) Recording() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.recording
}

// Restore mutators: applied by the persistence subsystem, they do not mark
// the state dirty.

func (l *LiveTranscript) RestoreTranscriptHTML(s string) {
	l.mu.Lock()
	l.html = s
	l.mu.Unlock()
}

func (l *LiveTranscript) RestoreNLines(n int) {
	l.mu.Lock()
	if n >= 0 {
		l.lines = n
	}
	l.mu.Unlock()
}

func (l *LiveTranscript) RestoreModel(m string) {
	l.mu.Lock()
	if m != "" {
		l.model = m
	}
	l.mu.Unlock()
}

func (l *LiveTranscript) RestoreLanguage(lang string) {
	l.mu.Lock()
	if lang != "" {
		l.language = lang
	}
	l.mu.Unlock()
}

// Host adapts the live state to the persistence accessor/mutator contract.
func (l *LiveTranscript) Host() persist.Host {
	return persist.Host{
		TranscriptHTML: l.TranscriptHTML,
		NLines:         l.NLines,
		Model:          l.Model,
		Language:       l.Language,
		Recording:      l.Recording,

		SetTranscriptHTML: l.RestoreTranscriptHTML,
		SetNLines:         l.RestoreNLines,
		SetModel:          l.RestoreModel,
		SetLanguage:       l.RestoreLanguage,
	}
}
