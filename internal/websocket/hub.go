package websocket

import (
	"sync"

	"loan-voice-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Hub tracks live relay sessions so out-of-band producers (the report
// pipeline) can push events to a client after its session's own pumps have
// moved on. One writer per session; sessions are never shared.
type Hub struct {
	clients map[uuid.UUID]*Writer

	register   chan registration
	unregister chan uuid.UUID

	mu sync.RWMutex

	logger logger.ILogger
}

type registration struct {
	id     uuid.UUID
	writer *Writer
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Writer),
		register:   make(chan registration),
		unregister: make(chan uuid.UUID),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case reg := <-h.register:
			h.mu.Lock()
			h.clients[reg.id] = reg.writer
			h.mu.Unlock()
			h.logger.Info("Hub", "Session registered", map[string]interface{}{"session_id": reg.id})

		case id := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, id)
			h.mu.Unlock()
			h.logger.Info("Hub", "Session unregistered", map[string]interface{}{"session_id": id})
		}
	}
}

func (h *Hub) Register(id uuid.UUID, w *Writer) {
	h.register <- registration{id: id, writer: w}
}

func (h *Hub) Unregister(id uuid.UUID) {
	h.unregister <- id
}

// Send pushes a text payload to the session's client. Returns false when the
// session is gone or its write queue is full.
func (h *Hub) Send(sessionID uuid.UUID, payload []byte) bool {
	h.mu.RLock()
	w, ok := h.clients[sessionID]
	h.mu.RUnlock()

	if !ok {
		return false
	}
	return w.SendRaw(payload)
}
