// Package pipeline implements the real-time audio-to-answer pipeline:
// a chunk queue, streaming transcription, question detection over the
// growing transcript, and asynchronous answer generation.
package pipeline

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chaz8081/meetpilot/internal/assistant"
	"github.com/chaz8081/meetpilot/internal/audio"
	"github.com/chaz8081/meetpilot/internal/transcribe"
)

const (
	// dequeueTimeout bounds each queue wait so Stop is observed promptly.
	dequeueTimeout = time.Second
	// stopTimeout bounds how long Stop waits for the loop to exit.
	stopTimeout = 5 * time.Second
)

// Question is a unique question detected during the session.
type Question struct {
	Text      string    `json:"text"`
	FirstSeen time.Time `json:"first_seen"`
}

// Statistics is a read-only snapshot of pipeline progress.
type Statistics struct {
	TranscriptLength  int `json:"transcript_length"`
	ChunksProcessed   int `json:"chunks_processed"`
	QuestionsDetected int `json:"questions_detected"`
	QueueDepth        int `json:"queue_depth"`
}

// Processor drives the processing loop: it pulls accumulated chunks off
// the queue, transcribes them, aggregates the transcript, detects
// questions, and dispatches answer generation. One Processor serves one
// session.
type Processor struct {
	transcriber transcribe.Transcriber
	answerer    assistant.Answerer
	listener    Listener
	queue       *Queue[audio.Chunk]
	transcript  *Transcript

	mu        sync.Mutex
	seen      map[string]struct{}
	questions []Question

	chunks  atomic.Int64
	running atomic.Bool
	done    chan struct{}
}

// NewProcessor creates a processor wired to the given collaborators.
// A nil listener logs events instead.
func NewProcessor(tr transcribe.Transcriber, ans assistant.Answerer, l Listener) *Processor {
	if l == nil {
		l = LogListener{}
	}
	return &Processor{
		transcriber: tr,
		answerer:    ans,
		listener:    l,
		queue:       NewQueue[audio.Chunk](),
		transcript:  NewTranscript(),
		seen:        make(map[string]struct{}),
	}
}

// Enqueue adds a chunk to the processing queue. Never blocks; safe to
// call from the capture callback.
func (p *Processor) Enqueue(chunk audio.Chunk) {
	p.queue.Enqueue(chunk)
}

// Start spawns the processing loop. No-op if already running.
func (p *Processor) Start() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.done = make(chan struct{})
	go p.loop(p.done)
	log.Println("Stream processor started")
}

// Stop clears the run flag and waits, bounded, for the loop to observe
// it. The processor reports idle even if the wait times out; a straggling
// iteration is abandoned and chunks still queued are discarded.
func (p *Processor) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	select {
	case <-p.done:
	case <-time.After(stopTimeout):
		log.Println("Stream processor: loop did not exit within shutdown bound, abandoning")
	}
	log.Println("Stream processor stopped")
}

// Running reports whether the processing loop is active.
func (p *Processor) Running() bool {
	return p.running.Load()
}

// Transcript exposes the session transcript for context reads and saving.
func (p *Processor) Transcript() *Transcript {
	return p.transcript
}

// Questions returns the questions detected so far, in detection order.
func (p *Processor) Questions() []Question {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Question, len(p.questions))
	copy(out, p.questions)
	return out
}

// Statistics returns a snapshot of pipeline progress. Callable in any
// state.
func (p *Processor) Statistics() Statistics {
	p.mu.Lock()
	detected := len(p.questions)
	p.mu.Unlock()

	return Statistics{
		TranscriptLength:  p.transcript.Len(),
		ChunksProcessed:   int(p.chunks.Load()),
		QuestionsDetected: detected,
		QueueDepth:        p.queue.Len(),
	}
}

func (p *Processor) loop(done chan struct{}) {
	defer close(done)
	for p.running.Load() {
		chunk, ok := p.queue.Dequeue(dequeueTimeout)
		if !ok {
			continue
		}
		p.processChunk(chunk)
	}
}

// processChunk runs one loop iteration. A malformed chunk must never
// terminate the loop, so the iteration is panic-guarded.
func (p *Processor) processChunk(chunk audio.Chunk) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: processing chunk (%.1fs of audio): %v", chunk.Duration().Seconds(), r)
		}
	}()

	// Every dequeued chunk counts as processed, whether or not its
	// transcription succeeds.
	p.chunks.Add(1)

	text, err := p.transcriber.Transcribe(context.Background(), chunk.Samples, chunk.SampleRate)
	if err != nil {
		log.Printf("ERROR: transcription failed: %v", err)
		return
	}

	full, appended := p.transcript.Append(text)
	if !appended {
		return
	}
	p.listener.TranscriptUpdate(text, full)

	for _, question := range ExtractQuestions(text) {
		p.handleQuestion(question)
	}
}

// handleQuestion records a newly detected question and dispatches answer
// generation. Exact duplicates within the session are dropped.
func (p *Processor) handleQuestion(question string) {
	p.mu.Lock()
	if _, dup := p.seen[question]; dup {
		p.mu.Unlock()
		return
	}
	p.seen[question] = struct{}{}
	p.questions = append(p.questions, Question{Text: question, FirstSeen: time.Now()})
	p.mu.Unlock()

	p.listener.QuestionDetected(question)

	go p.generateAnswer(question)
}

// generateAnswer runs in its own goroutine so slow generation never
// delays transcription of subsequent chunks. Errors are logged and the
// question simply gets no answer; there is no retry.
func (p *Processor) generateAnswer(question string) {
	grounding := p.transcript.Context()

	start := time.Now()
	answer, err := p.answerer.QuickAnswer(context.Background(), question, grounding, assistant.FormatBullets)
	if err != nil {
		log.Printf("ERROR: answer generation for %q: %v", question, err)
		return
	}

	p.listener.AnswerReady(question, answer, time.Since(start))
}
