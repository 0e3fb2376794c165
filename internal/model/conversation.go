package model

import (
	"fmt"
	"strings"
	"sync"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UserAudioPlaceholder is logged for a user turn; the relay never sees the
// user's transcript, only raw audio frames.
const UserAudioPlaceholder = "[user spoke audio]"

// Turn is one logged utterance attributed to the user or the assistant.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ConversationLog is the append-only, per-session record of turns. Consecutive
// assistant transcript deltas are coalesced onto the trailing assistant turn
// so each response cycle yields one logical utterance.
type ConversationLog struct {
	mu    sync.Mutex
	turns []Turn
}

func NewConversationLog() *ConversationLog {
	return &ConversationLog{
		turns: make([]Turn, 0, 16),
	}
}

// AppendUser starts a new user turn. A user turn always breaks assistant
// coalescing.
func (l *ConversationLog) AppendUser(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, Turn{Role: RoleUser, Text: text})
}

// AppendAssistantDelta extends the trailing assistant turn with a transcript
// fragment, or starts a new assistant turn when the log is empty or ends with
// a user turn. Fragments are trimmed and space-joined. Empty deltas are
// ignored.
func (l *ConversationLog) AppendAssistantDelta(delta string) {
	text := strings.TrimSpace(delta)
	if text == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if n := len(l.turns); n > 0 && l.turns[n-1].Role == RoleAssistant {
		l.turns[n-1].Text += " " + text
		return
	}
	l.turns = append(l.turns, Turn{Role: RoleAssistant, Text: text})
}

func (l *ConversationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// Snapshot returns a copy of the full log.
func (l *ConversationLog) Snapshot() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Tail returns a copy of the last n turns (fewer when the log is shorter).
func (l *ConversationLog) Tail(n int) []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	start := len(l.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(l.turns)-start)
	copy(out, l.turns[start:])
	return out
}

// Transcript flattens turns into "role: text" lines for prompt input.
func Transcript(turns []Turn) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s: %s", t.Role, t.Text))
	}
	return b.String()
}
