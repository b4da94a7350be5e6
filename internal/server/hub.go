package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// event is the wire frame pushed to browser clients.
type event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub fans pipeline events out to every connected WebSocket client. It
// also implements pipeline.Listener so the processor can notify it
// directly.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	log.Printf("WebSocket client connected (%d total)", n)
}

func (h *Hub) Remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	n := len(h.conns)
	h.mu.Unlock()
	log.Printf("WebSocket client disconnected (%d total)", n)
}

// Broadcast sends an event to all clients. Writes that fail drop the
// client; the read loop in the handler notices the closed conn and
// cleans up.
func (h *Hub) Broadcast(name string, data any) {
	payload, err := json.Marshal(event{Event: name, Data: data})
	if err != nil {
		log.Printf("ERROR: marshaling %s event: %v", name, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(h.conns, c)
			c.Close()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// pipeline.Listener implementation.

func (h *Hub) TranscriptUpdate(increment, full string) {
	h.Broadcast("transcript_update", map[string]string{
		"text": increment,
		"full": full,
	})
}

func (h *Hub) QuestionDetected(question string) {
	h.Broadcast("question_detected", map[string]string{
		"question": question,
	})
}

func (h *Hub) AnswerReady(question, answer string, latency time.Duration) {
	h.Broadcast("answer_ready", map[string]any{
		"question":   question,
		"answer":     answer,
		"latency_ms": latency.Milliseconds(),
	})
}
