package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"loan-voice-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = (pongWait * 9) / 10
	sendQueueSize = 256
)

type frame struct {
	messageType int
	data        []byte
}

// Writer serializes all outbound traffic for one client connection. The relay
// pump, the background extraction/confirmation tasks and the report pipeline
// all write concurrently; the websocket permits one writer at a time.
type Writer struct {
	conn *websocket.Conn

	send chan frame
	done chan struct{}

	closeOnce sync.Once
	logger    logger.ILogger
}

func NewWriter(conn *websocket.Conn, log logger.ILogger) *Writer {
	return &Writer{
		conn:   conn,
		send:   make(chan frame, sendQueueSize),
		done:   make(chan struct{}),
		logger: log,
	}
}

// Run pumps queued frames onto the connection until Close is called or a
// write fails. Pings keep the browser connection alive across quiet spells.
func (w *Writer) Run() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case f := <-w.send:
			w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(f.messageType, f.data); err != nil {
				return
			}
		case <-ticker.C:
			w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-w.done:
			w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			w.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// SendJSON queues a JSON event as a text frame.
func (w *Writer) SendJSON(v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		w.logger.Error("Writer", "Failed to marshal outbound event", map[string]interface{}{"error": err.Error()})
		return false
	}
	return w.enqueue(frame{messageType: websocket.TextMessage, data: data})
}

// SendRaw queues pre-marshaled JSON as a text frame.
func (w *Writer) SendRaw(payload []byte) bool {
	return w.enqueue(frame{messageType: websocket.TextMessage, data: payload})
}

// SendBinary queues raw audio bytes.
func (w *Writer) SendBinary(payload []byte) bool {
	return w.enqueue(frame{messageType: websocket.BinaryMessage, data: payload})
}

func (w *Writer) enqueue(f frame) bool {
	select {
	case <-w.done:
		return false
	default:
	}

	select {
	case w.send <- f:
		return true
	default:
		// A slow client gets frames dropped rather than stalling the
		// relay or the background tasks.
		w.logger.Warn("Writer", "Send queue full, dropping frame", map[string]interface{}{"message_type": f.messageType})
		return false
	}
}

func (w *Writer) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
	})
}
