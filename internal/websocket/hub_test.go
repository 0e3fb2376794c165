package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}

func (nopLogger) Sync() error { return nil }

func TestHubSendRouting(t *testing.T) {
	hub := NewHub(nopLogger{})
	go hub.Run()

	id := uuid.New()
	w := NewWriter(nil, nopLogger{})
	hub.Register(id, w)

	// Registration runs through the hub loop; poll until routable.
	require.Eventually(t, func() bool {
		return hub.Send(id, []byte(`{"type":"email_status"}`))
	}, time.Second, 10*time.Millisecond)

	select {
	case f := <-w.send:
		assert.Equal(t, []byte(`{"type":"email_status"}`), f.data)
	default:
		t.Fatal("payload was not queued on the session writer")
	}

	// Unknown session is a clean miss.
	assert.False(t, hub.Send(uuid.New(), []byte("x")))

	hub.Unregister(id)
	require.Eventually(t, func() bool {
		return !hub.Send(id, []byte("x"))
	}, time.Second, 10*time.Millisecond)
}

func TestIsEndOfAudio(t *testing.T) {
	assert.True(t, isEndOfAudio([]byte("end_of_audio")))
	assert.False(t, isEndOfAudio([]byte("end_of_audio ")))
	assert.False(t, isEndOfAudio([]byte{0x65, 0x6e, 0x64})) // audio bytes that merely start like it
	assert.False(t, isEndOfAudio(nil))
}

func TestWriterEnqueue(t *testing.T) {
	w := NewWriter(nil, nopLogger{})

	assert.True(t, w.SendJSON(map[string]string{"type": "tts_start"}))
	assert.True(t, w.SendBinary([]byte{0x01, 0x02}))

	f := <-w.send
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(f.data, &decoded))
	assert.Equal(t, "tts_start", decoded["type"])

	f = <-w.send
	assert.Equal(t, []byte{0x01, 0x02}, f.data)
}

func TestWriterDropsWhenQueueFull(t *testing.T) {
	w := NewWriter(nil, nopLogger{})

	for i := 0; i < sendQueueSize; i++ {
		require.True(t, w.SendRaw([]byte("x")))
	}
	assert.False(t, w.SendRaw([]byte("overflow")))
}

func TestWriterRejectsAfterClose(t *testing.T) {
	w := NewWriter(nil, nopLogger{})
	w.Close()
	w.Close() // idempotent

	assert.False(t, w.SendRaw([]byte("x")))
	assert.False(t, w.SendJSON(map[string]string{"type": "x"}))
}
