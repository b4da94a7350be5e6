// Package server exposes the recording pipeline over HTTP and pushes
// live transcript, question and answer events to browsers over
// WebSockets.
package server

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/chaz8081/meetpilot/internal/assistant"
	"github.com/chaz8081/meetpilot/internal/audio"
	"github.com/chaz8081/meetpilot/internal/config"
	"github.com/chaz8081/meetpilot/internal/pipeline"
	"github.com/chaz8081/meetpilot/internal/store"
	"github.com/chaz8081/meetpilot/internal/transcribe"
)

// Session is one live recording: mic capture feeding the chunker, which
// feeds the processor. Only one session runs at a time.
type Session struct {
	ID        uuid.UUID `json:"id"`
	StartedAt time.Time `json:"started_at"`

	recorder  *audio.Recorder
	chunker   *audio.Chunker
	processor *pipeline.Processor
}

type Server struct {
	cfg   *config.Config
	app   *fiber.App
	hub   *Hub
	store *store.Store

	transcriber transcribe.Transcriber
	answerer    assistant.Answerer

	mu      sync.Mutex
	session *Session
}

func New(cfg *config.Config) (*Server, error) {
	tr, err := transcribe.New(&cfg.Transcribe, cfg.OpenAIAPIKey)
	if err != nil {
		return nil, err
	}
	ans, err := assistant.NewOpenAIAssistant(cfg.OpenAIAPIKey, cfg.Assistant.Model)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:         cfg,
		app:         fiber.New(fiber.Config{DisableStartupMessage: true}),
		hub:         NewHub(),
		store:       store.New(cfg.RecordingsDir, cfg.TranscriptsDir),
		transcriber: tr,
		answerer:    ans,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Get("/api/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app.Get("/api/config", s.handleConfig)
	s.app.Get("/api/stats", s.handleStats)
	s.app.Post("/api/recording/start", s.handleStart)
	s.app.Post("/api/recording/stop", s.handleStop)
	s.app.Post("/api/answer", s.handleAnswer)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handleWS))
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen() error {
	log.Printf("Server listening on %s", s.cfg.Server.Addr)
	return s.app.Listen(s.cfg.Server.Addr)
}

// Shutdown stops the HTTP listener and tears down any live session.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	sess := s.session
	s.session = nil
	s.mu.Unlock()
	if sess != nil {
		sess.recorder.Stop()
		sess.recorder.Close()
		sess.processor.Stop()
	}
	return s.app.Shutdown()
}

func (s *Server) handleConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"sample_rate":     s.cfg.Audio.SampleRate,
		"channels":        s.cfg.Audio.Channels,
		"chunk_seconds":   s.cfg.Chunking.ChunkSeconds,
		"overlap_seconds": s.cfg.Chunking.OverlapSeconds,
		"backend":         s.cfg.Transcribe.Backend,
		"model":           s.cfg.Transcribe.Model,
	})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	if sess == nil {
		return c.JSON(fiber.Map{
			"recording": false,
			"clients":   s.hub.ClientCount(),
		})
	}
	return c.JSON(fiber.Map{
		"recording":  true,
		"session_id": sess.ID,
		"started_at": sess.StartedAt,
		"clients":    s.hub.ClientCount(),
		"stats":      sess.processor.Statistics(),
	})
}

func (s *Server) handleStart(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "recording already in progress"})
	}

	proc := pipeline.NewProcessor(s.transcriber, s.answerer, s.hub)
	chunker := audio.NewChunker(
		int(s.cfg.Audio.SampleRate),
		s.cfg.Chunking.ChunkSeconds,
		s.cfg.Chunking.OverlapSeconds,
		proc.Enqueue,
	)
	rec, err := audio.NewRecorder(s.cfg.Audio.SampleRate, s.cfg.Audio.Channels, chunker.Push)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	proc.Start()
	if err := rec.Start(); err != nil {
		proc.Stop()
		rec.Close()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s.session = &Session{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		recorder:  rec,
		chunker:   chunker,
		processor: proc,
	}

	log.Printf("Recording started, session %s", s.session.ID)
	s.hub.Broadcast("status", fiber.Map{"recording": true, "session_id": s.session.ID})
	return c.JSON(s.session)
}

func (s *Server) handleStop(c *fiber.Ctx) error {
	s.mu.Lock()
	sess := s.session
	s.session = nil
	s.mu.Unlock()

	if sess == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no recording in progress"})
	}

	samples := sess.recorder.Stop()
	sess.recorder.Close()
	sess.chunker.Flush()
	sess.processor.Stop()

	transcript := sess.processor.Transcript().Full()

	var recordingPath, transcriptPath string
	var err error
	if recordingPath, err = s.store.SaveRecording(samples, int(s.cfg.Audio.SampleRate)); err != nil {
		log.Printf("ERROR: saving recording: %v", err)
		s.hub.Broadcast("error", fiber.Map{"message": fmt.Sprintf("saving recording: %v", err)})
	}
	if transcript != "" {
		if transcriptPath, err = s.store.SaveTranscript(transcript, recordingPath); err != nil {
			log.Printf("ERROR: saving transcript: %v", err)
		}
	}

	stats := sess.processor.Statistics()
	log.Printf("Recording stopped, session %s: %d chunks, %d questions",
		sess.ID, stats.ChunksProcessed, stats.QuestionsDetected)

	s.hub.Broadcast("recording_complete", fiber.Map{
		"session_id":      sess.ID,
		"recording_path":  recordingPath,
		"transcript_path": transcriptPath,
		"stats":           stats,
	})

	return c.JSON(fiber.Map{
		"session_id":      sess.ID,
		"transcript":      transcript,
		"recording_path":  recordingPath,
		"transcript_path": transcriptPath,
		"questions":       sess.processor.Questions(),
		"stats":           stats,
	})
}

type answerRequest struct {
	Question string `json:"question"`
	Format   string `json:"format"`
}

// handleAnswer generates an answer on demand, for questions the client
// typed or re-asked rather than ones the detector caught live.
func (s *Server) handleAnswer(c *fiber.Ctx) error {
	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "`question` field is required"})
	}

	format := assistant.Format(req.Format)
	if format != assistant.FormatFull {
		format = assistant.FormatBullets
	}

	var grounding string
	s.mu.Lock()
	if s.session != nil {
		grounding = s.session.processor.Transcript().Context()
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	start := time.Now()
	answer, err := s.answerer.QuickAnswer(ctx, req.Question, grounding, format)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"question":   req.Question,
		"answer":     answer,
		"latency_ms": time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleWS(c *websocket.Conn) {
	s.hub.Add(c)
	defer func() {
		s.hub.Remove(c)
		c.Close()
	}()

	// Clients only listen; the read loop just detects disconnects.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
