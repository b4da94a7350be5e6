// Package assistant generates interview answers and meeting analysis
// from transcripts.
package assistant

import "context"

// Format selects how a generated answer is structured.
type Format string

const (
	// FormatBullets requests short bullet points, one per STAR component.
	FormatBullets Format = "bullets"
	// FormatFull requests a complete narrative answer.
	FormatFull Format = "full"
)

// Answerer produces AI-generated answers and transcript analysis.
type Answerer interface {
	// QuickAnswer generates a fast STAR-structured candidate answer to an
	// interview question, grounded in the transcript so far.
	QuickAnswer(ctx context.Context, question, transcript string, format Format) (string, error)

	// Summarize generates a meeting summary: topics, decisions, action
	// items, and takeaways.
	Summarize(ctx context.Context, transcript string) (string, error)

	// InterviewPrep generates an interview preparation guide from the
	// session transcript.
	InterviewPrep(ctx context.Context, transcript string) (string, error)

	// ExtractQA produces a formatted Q&A document: every question asked in
	// the transcript with a well-structured answer.
	ExtractQA(ctx context.Context, transcript string) (string, error)
}
