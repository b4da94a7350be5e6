package pipeline

import (
	"fmt"
	"strings"
	"testing"
)

func TestTranscriptAppend(t *testing.T) {
	tr := NewTranscript()

	full, ok := tr.Append("hello there")
	if !ok {
		t.Fatal("Append of non-empty text should report true")
	}
	if full != " hello there" {
		t.Errorf("full = %q, want %q", full, " hello there")
	}

	full, _ = tr.Append("second segment")
	if full != " hello there second segment" {
		t.Errorf("full = %q, want segments joined by spaces", full)
	}
}

func TestTranscriptAppendEmptyIsNoOp(t *testing.T) {
	tr := NewTranscript()
	tr.Append("real text")
	before := tr.Len()

	for _, text := range []string{"", "   ", "\n\t "} {
		full, ok := tr.Append(text)
		if ok {
			t.Errorf("Append(%q) reported an append", text)
		}
		if len(full) != before {
			t.Errorf("Append(%q) changed transcript length", text)
		}
	}

	if got := len(tr.Recent()); got != 1 {
		t.Errorf("recent window has %d segments, want 1", got)
	}
}

func TestTranscriptLengthNonDecreasing(t *testing.T) {
	tr := NewTranscript()
	prev := 0
	inputs := []string{"one", "", "two", "   ", "three", "four"}
	for _, text := range inputs {
		tr.Append(text)
		if tr.Len() < prev {
			t.Fatalf("transcript shrank after Append(%q): %d < %d", text, tr.Len(), prev)
		}
		prev = tr.Len()
	}
}

func TestTranscriptRecentWindowEviction(t *testing.T) {
	tr := NewTranscript()

	total := recentWindowSize + 7
	for i := 0; i < total; i++ {
		tr.Append(fmt.Sprintf("segment-%d", i))
	}

	recent := tr.Recent()
	if len(recent) != recentWindowSize {
		t.Fatalf("recent window has %d segments, want %d", len(recent), recentWindowSize)
	}

	// Must hold exactly the last N segments in arrival order.
	for i, seg := range recent {
		want := fmt.Sprintf("segment-%d", total-recentWindowSize+i)
		if seg != want {
			t.Errorf("recent[%d] = %q, want %q", i, seg, want)
		}
	}

	// The full transcript still holds everything.
	if !strings.Contains(tr.Full(), "segment-0") {
		t.Error("full transcript lost its oldest segment")
	}
}

func TestTranscriptContextShortUsesRecent(t *testing.T) {
	tr := NewTranscript()
	tr.Append("brief")

	if got := tr.Context(); got != "brief" {
		t.Errorf("Context() = %q, want recent-window join while transcript is short", got)
	}
}

func TestTranscriptContextRecentCapped(t *testing.T) {
	tr := NewTranscript()
	// Eight tiny segments keep the full transcript under the threshold.
	for i := 0; i < 8; i++ {
		tr.Append(fmt.Sprintf("s%d", i))
	}

	got := tr.Context()
	want := "s3 s4 s5 s6 s7"
	if got != want {
		t.Errorf("Context() = %q, want last %d segments %q", got, contextRecentSegments, want)
	}
}

func TestTranscriptContextLongUsesFull(t *testing.T) {
	tr := NewTranscript()
	long := strings.Repeat("words and more words ", 10) // > 100 chars
	tr.Append(long)

	if got := tr.Context(); got != tr.Full() {
		t.Errorf("Context() should be the full transcript once past %d chars", fullContextThreshold)
	}
}

func TestTranscriptEmptyContext(t *testing.T) {
	tr := NewTranscript()
	if got := tr.Context(); got != "" {
		t.Errorf("Context() on empty transcript = %q, want empty", got)
	}
}
