package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/chaz8081/meetpilot/internal/audio"
)

// OpenAITranscriber sends audio chunks to the OpenAI Whisper API.
// It holds no per-request state; concurrent Transcribe calls are safe.
type OpenAITranscriber struct {
	client *openai.Client
	model  string
}

// NewOpenAITranscriber creates a Whisper API transcriber.
func NewOpenAITranscriber(apiKey, model string) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("transcribe: OpenAI API key is required (set OPENAI_API_KEY)")
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAITranscriber{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Transcribe encodes the samples as a WAV container and requests a plain
// text transcription.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}

	data, err := audio.EncodeWAV(samples, sampleRate)
	if err != nil {
		return "", fmt.Errorf("transcribe: encode chunk: %w", err)
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: "chunk.wav",
		Reader:   bytes.NewReader(data),
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: whisper request: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// Close releases backend resources. The API client holds none.
func (t *OpenAITranscriber) Close() error {
	return nil
}
