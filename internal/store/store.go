// Package store persists session artifacts: raw recordings as WAV files
// and transcripts as headed text files.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chaz8081/meetpilot/internal/audio"
)

const timestampLayout = "20060102_150405"

// Store writes recordings and transcripts under two configured
// directories, creating them on first use.
type Store struct {
	recordingsDir  string
	transcriptsDir string
}

func New(recordingsDir, transcriptsDir string) *Store {
	return &Store{
		recordingsDir:  recordingsDir,
		transcriptsDir: transcriptsDir,
	}
}

// SaveRecording writes samples to a timestamped WAV file and returns its
// path. Empty sessions are an error so callers never write silent files.
func (s *Store) SaveRecording(samples []float32, sampleRate int) (string, error) {
	if len(samples) == 0 {
		return "", fmt.Errorf("no audio data to save")
	}
	if err := os.MkdirAll(s.recordingsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating recordings dir: %w", err)
	}

	name := fmt.Sprintf("meeting_%s.wav", time.Now().Format(timestampLayout))
	path := filepath.Join(s.recordingsDir, name)
	if err := audio.WriteWAVFile(path, samples, sampleRate); err != nil {
		return "", err
	}
	return path, nil
}

// SaveTranscript writes text alongside a header naming the recording it
// came from, and returns the transcript path.
func (s *Store) SaveTranscript(text, recordingPath string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no transcript to save")
	}
	if err := os.MkdirAll(s.transcriptsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating transcripts dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(recordingPath), filepath.Ext(recordingPath))
	if base == "" {
		base = fmt.Sprintf("meeting_%s", time.Now().Format(timestampLayout))
	}
	path := filepath.Join(s.transcriptsDir, base+"_transcript.txt")

	var b strings.Builder
	fmt.Fprintf(&b, "Transcript for: %s\n", filepath.Base(recordingPath))
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("-", 80))
	b.WriteString("\n\n")
	b.WriteString(text)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing transcript: %w", err)
	}
	return path, nil
}

// LoadTranscript reads a transcript file, stripping the header block if
// one is present so callers get only the transcript body.
func LoadTranscript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}

	text := string(data)
	lines := strings.Split(text, "\n")
	if len(lines) > 3 && strings.HasPrefix(lines[2], strings.Repeat("-", 20)) {
		text = strings.Join(lines[4:], "\n")
	}
	return strings.TrimSpace(text), nil
}

// ListRecordings returns the WAV files currently saved, newest-named
// last (timestamped names sort chronologically).
func (s *Store) ListRecordings() ([]string, error) {
	entries, err := os.ReadDir(s.recordingsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing recordings: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".wav") {
			continue
		}
		paths = append(paths, filepath.Join(s.recordingsDir, e.Name()))
	}
	return paths, nil
}
