package pipeline

import (
	"strings"
	"sync"
)

const (
	// recentWindowSize bounds the recent-segment ring buffer.
	recentWindowSize = 20
	// contextRecentSegments is how many recent segments feed the
	// generation context while the full transcript is still short.
	contextRecentSegments = 5
	// fullContextThreshold is the full-transcript length beyond which it
	// becomes the generation context instead of the recent window.
	fullContextThreshold = 100
)

// Transcript owns the session's append-only full transcript and a
// bounded window of recent segments. Written only by the processing
// loop; safe for concurrent readers.
type Transcript struct {
	mu     sync.RWMutex
	full   string
	recent []string
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a transcribed segment. Empty or whitespace-only text is a
// no-op. Returns the full transcript snapshot after the append and
// whether anything was appended.
func (t *Transcript) Append(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		t.mu.RLock()
		full := t.full
		t.mu.RUnlock()
		return full, false
	}

	t.mu.Lock()
	t.recent = append(t.recent, text)
	if len(t.recent) > recentWindowSize {
		t.recent = t.recent[1:]
	}
	t.full += " " + text
	full := t.full
	t.mu.Unlock()

	return full, true
}

// Full returns the entire transcript so far.
func (t *Transcript) Full() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.full
}

// Len returns the full transcript length in bytes.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.full)
}

// Recent returns a copy of the recent-segment window, oldest first.
func (t *Transcript) Recent() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.recent))
	copy(out, t.recent)
	return out
}

// Context returns the text to ground answer generation on: the full
// transcript once it has grown past the threshold, otherwise the last
// few recent segments, so early-session questions are not answered
// against a near-empty transcript.
func (t *Transcript) Context() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.full) > fullContextThreshold {
		return t.full
	}

	start := len(t.recent) - contextRecentSegments
	if start < 0 {
		start = 0
	}
	return strings.Join(t.recent[start:], " ")
}
