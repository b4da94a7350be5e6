package audio

import (
	"sync"
	"time"
)

// Chunk is a fixed-duration slice of captured audio handed to the
// processing pipeline as one unit. Immutable once emitted.
type Chunk struct {
	Samples    []float32
	SampleRate int
	CapturedAt time.Time
}

// Duration returns the chunk length in wall-clock time.
func (c Chunk) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(len(c.Samples)) / float64(c.SampleRate) * float64(time.Second))
}

// ChunkSink receives completed chunks. Implementations must not block;
// the capture callback runs on the audio driver's thread.
type ChunkSink func(Chunk)

// Chunker accumulates raw capture frames into fixed-duration chunks.
// When the buffer reaches the target size a chunk is emitted and the
// trailing overlap is retained as the head of the next buffer, so words
// spanning a chunk boundary appear in both chunks.
type Chunker struct {
	sampleRate int
	target     int
	overlap    int
	emit       ChunkSink

	mu    sync.Mutex
	buf   []float32
	carry int // leading samples already emitted as part of the previous chunk
}

// NewChunker creates a Chunker emitting chunks of chunkSeconds length with
// overlapSeconds retained across boundaries. An overlap equal to or larger
// than the chunk length is clamped to zero.
func NewChunker(sampleRate int, chunkSeconds, overlapSeconds int, emit ChunkSink) *Chunker {
	target := chunkSeconds * sampleRate
	overlap := overlapSeconds * sampleRate
	if overlap >= target {
		overlap = 0
	}
	return &Chunker{
		sampleRate: sampleRate,
		target:     target,
		overlap:    overlap,
		emit:       emit,
	}
}

// Push appends captured frames to the buffer and emits any chunks that
// became complete. It never blocks on the consumer.
func (c *Chunker) Push(samples []float32) {
	c.mu.Lock()
	c.buf = append(c.buf, samples...)

	var ready []Chunk
	for len(c.buf) >= c.target {
		out := make([]float32, c.target)
		copy(out, c.buf[:c.target])
		ready = append(ready, Chunk{
			Samples:    out,
			SampleRate: c.sampleRate,
			CapturedAt: time.Now(),
		})

		// Retain the trailing overlap as the head of the next buffer.
		next := make([]float32, 0, c.overlap+len(c.buf)-c.target)
		next = append(next, c.buf[c.target-c.overlap:c.target]...)
		next = append(next, c.buf[c.target:]...)
		c.buf = next
		c.carry = c.overlap
	}
	c.mu.Unlock()

	for _, chunk := range ready {
		c.emit(chunk)
	}
}

// Flush emits whatever remains in the buffer as a final, possibly short,
// chunk. A buffer holding only the retained overlap is discarded since
// those samples were already emitted. Called once at session end.
func (c *Chunker) Flush() {
	c.mu.Lock()
	var final *Chunk
	if len(c.buf) > c.carry {
		out := make([]float32, len(c.buf))
		copy(out, c.buf)
		final = &Chunk{
			Samples:    out,
			SampleRate: c.sampleRate,
			CapturedAt: time.Now(),
		}
	}
	c.buf = nil
	c.carry = 0
	c.mu.Unlock()

	if final != nil {
		c.emit(*final)
	}
}

// Buffered returns the number of samples currently accumulated.
func (c *Chunker) Buffered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}
