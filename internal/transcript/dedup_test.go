package transcript

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldAppendRejectsEmpty(t *testing.T) {
	f := NewPrefixFilter()

	_, ok := f.ShouldAppend("")
	assert.False(t, ok)
	_, ok = f.ShouldAppend("   \t ")
	assert.False(t, ok)
}

func TestShouldAppendRejectsExactDuplicate(t *testing.T) {
	f := NewPrefixFilter()

	out, ok := f.ShouldAppend("hello world")
	assert.True(t, ok)
	assert.Equal(t, "hello world", out)

	_, ok = f.ShouldAppend("hello world")
	assert.False(t, ok)

	// Whitespace variations still count as duplicates.
	_, ok = f.ShouldAppend("  hello world  ")
	assert.False(t, ok)
}

func TestShouldAppendTrimsGrowingLine(t *testing.T) {
	f := NewPrefixFilter()

	f.ShouldAppend("the quick")

	out, ok := f.ShouldAppend("the quick brown fox")
	assert.True(t, ok)
	assert.Equal(t, "brown fox", out)
}

func TestShouldAppendPicksShortestSuffix(t *testing.T) {
	f := NewPrefixFilter()

	f.ShouldAppend("the")
	f.ShouldAppend("the quick brown")

	out, ok := f.ShouldAppend("the quick brown fox")
	assert.True(t, ok)
	assert.Equal(t, "fox", out)
}

func TestShouldAppendLookbackWindowExpires(t *testing.T) {
	f := NewPrefixFilter()

	f.ShouldAppend("first line")
	for i := 0; i < defaultLookback; i++ {
		f.ShouldAppend(fmt.Sprintf("filler %d", i))
	}

	// "first line" has fallen out of the window and is accepted again.
	out, ok := f.ShouldAppend("first line")
	assert.True(t, ok)
	assert.Equal(t, "first line", out)
}

func TestResetClearsWindow(t *testing.T) {
	f := NewPrefixFilter()

	f.ShouldAppend("hello")
	f.Reset()

	out, ok := f.ShouldAppend("hello")
	assert.True(t, ok)
	assert.Equal(t, "hello", out)
}
