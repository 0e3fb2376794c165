package realtime

import "encoding/base64"

// Inbound event types the relay dispatches on. Anything else is logged and
// skipped.
const (
	EventTranscriptDelta = "response.audio_transcript.delta"
	EventAudioDelta      = "response.audio.delta"
	EventResponseCreated = "response.created"
	EventResponseDone    = "response.done"
	EventSessionUpdated  = "session.updated"
	EventError           = "error"
)

// Event is the decoded shape of an upstream message. Only the fields the
// relay consumes are mapped; the rest of the payload is ignored.
type Event struct {
	Type  string `json:"type"`
	Delta string `json:"delta,omitempty"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AudioChunk decodes the base64 audio payload of a response.audio.delta event.
func (e Event) AudioChunk() ([]byte, error) {
	return base64.StdEncoding.DecodeString(e.Delta)
}

// Outbound control events.

type sessionUpdateEvent struct {
	Type    string        `json:"type"` // "session.update"
	Session sessionConfig `json:"session"`
}

type sessionConfig struct {
	Model             string   `json:"model"`
	Voice             string   `json:"voice"`
	Modalities        []string `json:"modalities"`
	InputAudioFormat  string   `json:"input_audio_format"`
	OutputAudioFormat string   `json:"output_audio_format"`
	Instructions      string   `json:"instructions"`
}

type audioAppendEvent struct {
	Type  string `json:"type"` // "input_audio_buffer.append"
	Audio string `json:"audio"`
}

type typedEvent struct {
	Type string `json:"type"` // "input_audio_buffer.commit" | "response.create"
}
