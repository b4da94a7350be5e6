// Package transcribe provides speech-to-text backends.
//
// Supported backends:
//   - openai: OpenAI Whisper API (default)
package transcribe

import (
	"context"
	"fmt"

	"github.com/chaz8081/meetpilot/internal/config"
)

// Transcriber converts audio samples to text.
type Transcriber interface {
	// Transcribe converts mono float32 audio samples to text.
	// Safe for concurrent use.
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error)
	// Close releases backend resources.
	Close() error
}

// New creates a Transcriber based on the config backend setting.
func New(cfg *config.TranscribeConfig, apiKey string) (Transcriber, error) {
	switch cfg.Backend {
	case "openai", "":
		return NewOpenAITranscriber(apiKey, cfg.Model)
	default:
		return nil, fmt.Errorf("transcribe: unknown backend %q (supported: openai)", cfg.Backend)
	}
}
