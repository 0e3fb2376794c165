package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendAssistantDeltaCoalescing(t *testing.T) {
	log := NewConversationLog()

	log.AppendAssistantDelta("Hello")
	log.AppendAssistantDelta(" there")
	log.AppendAssistantDelta("!")

	turns := log.Snapshot()
	if assert.Len(t, turns, 1) {
		assert.Equal(t, RoleAssistant, turns[0].Role)
		assert.Equal(t, "Hello there !", turns[0].Text)
	}
}

func TestAppendAssistantDeltaIgnoresEmpty(t *testing.T) {
	log := NewConversationLog()

	log.AppendAssistantDelta("  ")
	log.AppendAssistantDelta("")
	assert.Equal(t, 0, log.Len())

	log.AppendAssistantDelta("Hi")
	log.AppendAssistantDelta("   ")
	turns := log.Snapshot()
	if assert.Len(t, turns, 1) {
		assert.Equal(t, "Hi", turns[0].Text)
	}
}

func TestUserTurnBreaksCoalescing(t *testing.T) {
	log := NewConversationLog()

	log.AppendAssistantDelta("How can I help?")
	log.AppendUser(UserAudioPlaceholder)
	log.AppendAssistantDelta("Sure,")
	log.AppendAssistantDelta("one moment.")

	turns := log.Snapshot()
	if assert.Len(t, turns, 3) {
		assert.Equal(t, RoleAssistant, turns[0].Role)
		assert.Equal(t, RoleUser, turns[1].Role)
		assert.Equal(t, UserAudioPlaceholder, turns[1].Text)
		assert.Equal(t, "Sure, one moment.", turns[2].Text)
	}
}

func TestTail(t *testing.T) {
	log := NewConversationLog()
	log.AppendUser("a")
	log.AppendAssistantDelta("b")
	log.AppendUser("c")
	log.AppendAssistantDelta("d")

	tail := log.Tail(2)
	if assert.Len(t, tail, 2) {
		assert.Equal(t, "c", tail[0].Text)
		assert.Equal(t, "d", tail[1].Text)
	}

	assert.Len(t, log.Tail(10), 4)
	assert.Len(t, log.Tail(0), 0)
}

func TestSnapshotIsACopy(t *testing.T) {
	log := NewConversationLog()
	log.AppendUser("a")

	snap := log.Snapshot()
	snap[0].Text = "mutated"

	assert.Equal(t, "a", log.Snapshot()[0].Text)
}

func TestTranscript(t *testing.T) {
	turns := []Turn{
		{Role: RoleAssistant, Text: "Hello, welcome."},
		{Role: RoleUser, Text: UserAudioPlaceholder},
		{Role: RoleAssistant, Text: "What is your name?"},
	}

	want := "assistant: Hello, welcome.\nuser: [user spoke audio]\nassistant: What is your name?"
	assert.Equal(t, want, Transcript(turns))
	assert.Equal(t, "", Transcript(nil))
}
