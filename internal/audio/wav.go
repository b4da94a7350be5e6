package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV converts float32 PCM samples to a 16-bit mono WAV file held
// in memory, ready for upload to the transcription API.
func EncodeWAV(samples []float32, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	ws := &seekBuffer{}
	if err := encodeTo(ws, samples, sampleRate); err != nil {
		return nil, err
	}
	return ws.buf, nil
}

// WriteWAVFile writes float32 PCM samples to path as a 16-bit mono WAV file.
func WriteWAVFile(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := encodeTo(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadWAVFile decodes a WAV file into mono float32 samples normalized to
// [-1.0, 1.0], returning the samples and the file's sample rate.
func ReadWAVFile(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return decodeWAV(f)
}

// DecodeWAV decodes in-memory WAV data into mono float32 samples
// normalized to [-1.0, 1.0].
func DecodeWAV(data []byte) ([]float32, int, error) {
	return decodeWAV(bytes.NewReader(data))
}

func encodeTo(ws io.WriteSeeker, samples []float32, sampleRate int) error {
	enc := wav.NewEncoder(ws, sampleRate, 16, 1, 1)

	ints := make([]int, len(samples))
	for i, s := range samples {
		// Clamp before scaling so clipped capture does not wrap around.
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		ints[i] = int(s * 32767)
	}

	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           ints,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing WAV: %w", err)
	}
	return nil
}

func decodeWAV(rs io.ReadSeeker) ([]float32, int, error) {
	dec := wav.NewDecoder(rs)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding WAV: %w", err)
	}

	samples := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float32(s) / 32768.0
	}
	return samples, int(dec.SampleRate), nil
}

// seekBuffer is an in-memory io.WriteSeeker. The wav encoder needs to
// seek back to patch the RIFF header once sample counts are known.
type seekBuffer struct {
	buf []byte
	pos int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.buf) {
		grown := make([]byte, need)
		copy(grown, b.buf)
		b.buf = grown
	}
	copy(b.buf[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(b.pos) + offset
	case io.SeekEnd:
		pos = int64(len(b.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position %d", pos)
	}
	b.pos = int(pos)
	return pos, nil
}
