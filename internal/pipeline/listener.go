package pipeline

import (
	"log"
	"time"
)

// Listener receives pipeline notifications. Implementations must
// tolerate calls arriving after Stop returns: in-flight answer
// generation is not cancelled and may complete late.
type Listener interface {
	// TranscriptUpdate fires after each chunk's text is appended.
	TranscriptUpdate(increment, full string)
	// QuestionDetected fires once per unique question in the session.
	QuestionDetected(question string)
	// AnswerReady fires when generation for a detected question completes.
	AnswerReady(question, answer string, latency time.Duration)
}

// LogListener writes pipeline events to the standard logger. Used by
// the CLI's live mode.
type LogListener struct{}

func (LogListener) TranscriptUpdate(increment, _ string) {
	log.Printf("Transcript: %s", increment)
}

func (LogListener) QuestionDetected(question string) {
	log.Printf("Question detected: %s", question)
}

func (LogListener) AnswerReady(question, answer string, latency time.Duration) {
	log.Printf("Answer ready in %dms for %q:\n%s", latency.Milliseconds(), question, answer)
}
