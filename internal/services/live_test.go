package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxstream/voxstream-backend/internal/persist"
	"github.com/voxstream/voxstream-backend/internal/transcript"
)

func newLive() *LiveTranscript {
	return NewLiveTranscript(transcript.NewPrefixFilter())
}

func TestAppendChunkBuildsMarkup(t *testing.T) {
	l := newLive()

	assert.True(t, l.AppendChunk("olá mundo"))
	assert.True(t, l.AppendChunk("segunda linha"))

	assert.Equal(t, "olá mundo<br>segunda linha<br>", l.TranscriptHTML())
	assert.Equal(t, 2, l.NLines())
}

func TestAppendChunkEscapesMarkup(t *testing.T) {
	l := newLive()

	l.AppendChunk(`<script>alert("x")</script>`)

	html := l.TranscriptHTML()
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestAppendChunkRejectsDuplicates(t *testing.T) {
	l := newLive()

	assert.True(t, l.AppendChunk("repeated"))
	assert.False(t, l.AppendChunk("repeated"))
	assert.Equal(t, 1, l.NLines())
}

func TestRollingWindowKeepsNewestLines(t *testing.T) {
	l := newLive()

	for i := 1; i <= 15; i++ {
		l.AppendChunk(fmt.Sprintf("%d of fifteen", i))
	}

	assert.Equal(t, maxLiveLines, l.NLines())

	var want strings.Builder
	for i := 6; i <= 15; i++ {
		fmt.Fprintf(&want, "%d of fifteen<br>", i)
	}
	assert.Equal(t, want.String(), l.TranscriptHTML())
}

func TestClearResetsStateAndFilter(t *testing.T) {
	l := newLive()

	l.AppendChunk("something")
	l.Clear()

	assert.Equal(t, "", l.TranscriptHTML())
	assert.Equal(t, 0, l.NLines())

	// The filter lookback was reset too; the same chunk is accepted again.
	assert.True(t, l.AppendChunk("something"))
}

func TestMutatorsNotifyOnChange(t *testing.T) {
	l := newLive()

	calls := 0
	l.SetOnChange(func() { calls++ })

	l.AppendChunk("a")
	l.SetModel("base")
	l.SetLanguage("en")
	l.SetRecording(true)
	l.Clear()

	assert.Equal(t, 5, calls)

	// Rejected chunks still do not fire the callback.
	l.AppendChunk("")
	assert.Equal(t, 5, calls)
}

func TestRestoreDoesNotNotify(t *testing.T) {
	l := newLive()

	calls := 0
	l.SetOnChange(func() { calls++ })

	l.RestoreTranscriptHTML("old<br>")
	l.RestoreNLines(1)
	l.RestoreModel("small")
	l.RestoreLanguage("en")

	assert.Equal(t, 0, calls)
	assert.Equal(t, "old<br>", l.TranscriptHTML())
	assert.Equal(t, 1, l.NLines())
	assert.Equal(t, "small", l.Model())
	assert.Equal(t, "en", l.Language())
}

func TestDefaultsAndEmptyGuards(t *testing.T) {
	l := newLive()

	assert.Equal(t, persist.DefaultLanguage, l.Language())

	l.SetModel("base")
	l.SetModel("")
	assert.Equal(t, "base", l.Model())

	l.SetLanguage("")
	assert.Equal(t, persist.DefaultLanguage, l.Language())

	l.RestoreNLines(-3)
	assert.Equal(t, 0, l.NLines())
}

func TestHostAdapterRoundTrip(t *testing.T) {
	l := newLive()
	h := l.Host()

	l.AppendChunk("via live")
	assert.Equal(t, l.TranscriptHTML(), h.TranscriptHTML())
	assert.Equal(t, l.NLines(), h.NLines())

	h.SetTranscriptHTML("via host<br>")
	h.SetNLines(1)
	assert.Equal(t, "via host<br>", l.TranscriptHTML())
	assert.Equal(t, 1, l.NLines())
}
