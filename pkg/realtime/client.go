// Package realtime is a thin client for the OpenAI Realtime speech API over
// websocket: dial, session configuration, audio buffer control and typed
// event decoding. The relay owns the read loop; writes are serialized here.
package realtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

type Config struct {
	APIKey       string
	BaseURL      string // wss://api.openai.com/v1/realtime
	Model        string
	Voice        string
	Instructions string
}

type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// Dial connects to the realtime endpoint and sends the initial session.update
// carrying model, voice and instructions. PCM16 in both directions.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	url := fmt.Sprintf("%s?model=%s", cfg.BaseURL, cfg.Model)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.APIKey)
	header.Set("OpenAI-Beta", "realtime=v1")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dial realtime api: %w", err)
	}

	c := &Client{conn: conn}

	update := sessionUpdateEvent{
		Type: "session.update",
		Session: sessionConfig{
			Model:             cfg.Model,
			Voice:             cfg.Voice,
			Modalities:        []string{"text", "audio"},
			InputAudioFormat:  "pcm16",
			OutputAudioFormat: "pcm16",
			Instructions:      strings.TrimSpace(cfg.Instructions),
		},
	}
	if err := c.writeJSON(update); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send session.update: %w", err)
	}

	return c, nil
}

// AppendAudio forwards one raw PCM16 frame into the upstream input buffer.
func (c *Client) AppendAudio(frame []byte) error {
	return c.writeJSON(audioAppendEvent{
		Type:  "input_audio_buffer.append",
		Audio: base64.StdEncoding.EncodeToString(frame),
	})
}

// CommitAudio closes the current input buffer segment.
func (c *Client) CommitAudio() error {
	return c.writeJSON(typedEvent{Type: "input_audio_buffer.commit"})
}

// CreateResponse asks the model to respond to the committed audio.
func (c *Client) CreateResponse() error {
	return c.writeJSON(typedEvent{Type: "response.create"})
}

// ReadEvent blocks until the next upstream event arrives.
func (c *Client) ReadEvent() (Event, error) {
	var ev Event
	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		return ev, err
	}
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ev, fmt.Errorf("decode upstream event: %w", err)
	}
	return ev, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}
