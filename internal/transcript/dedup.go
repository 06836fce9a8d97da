// Package transcript filters the chunks a speech engine emits before they
// are appended to the live transcript. Engines tend to re-emit a line with
// a few more words as audio accumulates; the filter keeps only the new
// material.
package transcript

import "strings"

// Filter decides whether a chunk adds anything to the transcript. It is a
// best-effort heuristic, replaceable behind this interface.
type Filter interface {
	// ShouldAppend returns the text to append and whether to append at
	// all. The returned text may be a trimmed suffix of chunk.
	ShouldAppend(chunk string) (string, bool)
}

const defaultLookback = 10

// PrefixFilter rejects chunks already seen in a recent-window lookback and
// trims chunks that merely extend a recent line, appending only the suffix.
type PrefixFilter struct {
	recent []string
	limit  int
}

// NewPrefixFilter returns a PrefixFilter with the default lookback window.
func NewPrefixFilter() *PrefixFilter {
	return &PrefixFilter{limit: defaultLookback}
}

func (f *PrefixFilter) ShouldAppend(chunk string) (string, bool) {
	text := strings.TrimSpace(chunk)
	if text == "" {
		return "", false
	}

	out := text
	for _, line := range f.recent {
		if line == text {
			return "", false
		}
		// Engine re-emitted a recent line with more words: keep the tail.
		if strings.HasPrefix(text, line) {
			suffix := strings.TrimSpace(text[len(line):])
			if suffix == "" {
				return "", false
			}
			if len(suffix) < len(out) {
				out = suffix
			}
		}
	}

	f.remember(text)
	return out, true
}

func (f *PrefixFilter) remember(line string) {
	f.recent = append(f.recent, line)
	if len(f.recent) > f.limit {
		f.recent = f.recent[len(f.recent)-f.limit:]
	}
}

// Reset clears the lookback window.
func (f *PrefixFilter) Reset() {
	f.recent = nil
}
