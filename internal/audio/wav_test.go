package audio

import (
	"io"
	"math"
	"path/filepath"
	"testing"
)

func sine(n int, freq, sampleRate float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
	}
	return out
}

func TestEncodeWAVRoundTrip(t *testing.T) {
	samples := sine(1600, 440, 16000) // 100ms of A4

	data, err := EncodeWAV(samples, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("EncodeWAV() returned empty data")
	}

	decoded, rate, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}
	if rate != 16000 {
		t.Errorf("sample rate = %d, want 16000", rate)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(decoded), len(samples))
	}

	// 16-bit quantization loses precision; values should still be close.
	for i := 0; i < len(samples); i += 100 {
		if diff := math.Abs(float64(decoded[i] - samples[i])); diff > 0.001 {
			t.Errorf("sample %d: decoded %v, want ~%v (diff %v)", i, decoded[i], samples[i], diff)
		}
	}
}

func TestEncodeWAVClampsOutOfRange(t *testing.T) {
	samples := []float32{2.0, -2.0, 0.0}

	data, err := EncodeWAV(samples, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}

	decoded, _, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}

	if decoded[0] < 0.99 {
		t.Errorf("clipped positive sample decoded to %v, want ~1.0", decoded[0])
	}
	if decoded[1] > -0.99 {
		t.Errorf("clipped negative sample decoded to %v, want ~-1.0", decoded[1])
	}
}

func TestEncodeWAVInvalidSampleRate(t *testing.T) {
	if _, err := EncodeWAV([]float32{0}, 0); err == nil {
		t.Fatal("EncodeWAV with zero sample rate should return error")
	}
}

func TestWriteAndReadWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wav")
	samples := sine(800, 220, 8000)

	if err := WriteWAVFile(path, samples, 8000); err != nil {
		t.Fatalf("WriteWAVFile() error = %v", err)
	}

	decoded, rate, err := ReadWAVFile(path)
	if err != nil {
		t.Fatalf("ReadWAVFile() error = %v", err)
	}
	if rate != 8000 {
		t.Errorf("sample rate = %d, want 8000", rate)
	}
	if len(decoded) != len(samples) {
		t.Errorf("read %d samples, want %d", len(decoded), len(samples))
	}
}

func TestReadWAVFileMissing(t *testing.T) {
	if _, _, err := ReadWAVFile("/nonexistent/audio.wav"); err == nil {
		t.Fatal("ReadWAVFile with missing file should return error")
	}
}

func TestSeekBuffer(t *testing.T) {
	b := &seekBuffer{}

	if _, err := b.Write([]byte("abcdef")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Seek back and overwrite, the way the wav encoder patches headers.
	if _, err := b.Seek(2, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if _, err := b.Write([]byte("XY")); err != nil {
		t.Fatalf("Write() after seek error = %v", err)
	}

	if got := string(b.buf); got != "abXYef" {
		t.Errorf("buffer = %q, want %q", got, "abXYef")
	}

	if pos, err := b.Seek(0, io.SeekEnd); err != nil || pos != 6 {
		t.Errorf("Seek(0, end) = %d, %v, want 6, nil", pos, err)
	}

	if _, err := b.Seek(-10, io.SeekStart); err == nil {
		t.Error("negative seek should return error")
	}
}
