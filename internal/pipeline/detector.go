package pipeline

import (
	"regexp"
	"strings"
)

// Question detection favors recall over precision: a missed interview
// question costs far more than an occasional false positive routed to
// answer generation.

// questionPatterns match anywhere in a sentence, case-insensitively.
var questionPatterns = []*regexp.Regexp{
	// wh-question openers
	regexp.MustCompile(`(?i)\b(what|why|how|when|where|who|which)\b`),
	// request-for-narrative openers
	regexp.MustCompile(`(?i)\b(tell me about|describe|explain|walk me through)\b`),
	// modal-request openers
	regexp.MustCompile(`(?i)\b(can you|could you|would you|will you)\b`),
	// yes/no interrogative openers
	regexp.MustCompile(`(?i)\b(have you|do you|did you|are you|were you)\b`),
	// example-elicitation phrases
	regexp.MustCompile(`(?i)\b(give me an example of|share an experience|talk about a time when)\b`),
}

var sentenceSplit = regexp.MustCompile(`[.!?]+|\n+`)

// minQuestionLen is the shortest trimmed sentence worth classifying;
// fragments below this are transcription noise.
const minQuestionLen = 10

// IsQuestion reports whether text contains a question: a literal question
// mark, or any question pattern anywhere in the text.
func IsQuestion(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	for _, pattern := range questionPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// ExtractQuestions splits text into candidate sentences and returns the
// ones classified as questions, in original order, each normalized to
// end with a question mark. Idempotent for already-normalized questions.
func ExtractQuestions(text string) []string {
	var questions []string

	for _, sentence := range sentenceSplit.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= minQuestionLen {
			continue
		}
		if !IsQuestion(sentence) {
			continue
		}
		if !strings.HasSuffix(sentence, "?") {
			sentence += "?"
		}
		questions = append(questions, sentence)
	}

	return questions
}
