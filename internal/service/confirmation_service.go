package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"loan-voice-be/internal/constant"
	"loan-voice-be/internal/model"
	"loan-voice-be/internal/pkg/logger"
	"loan-voice-be/pkg/llm"
	"loan-voice-be/pkg/utils"
)

// FieldEmitter pushes a single pending/confirmed update to the client.
type FieldEmitter func(confirmed bool, field string, value interface{})

// IConfirmationService classifies fields mentioned in a recent conversation
// slice as newly pending or explicitly confirmed, mutating the session's
// field state and emitting one event per accepted update. On any fault the
// state is left untouched and nothing is emitted.
type IConfirmationService interface {
	Track(ctx context.Context, segment string, state *model.FieldState, emit FieldEmitter)
}

type confirmationService struct {
	provider llm.LLMProvider
	timeout  time.Duration
	logger   logger.ILogger
}

func NewConfirmationService(provider llm.LLMProvider, timeout time.Duration, log logger.ILogger) IConfirmationService {
	return &confirmationService{
		provider: provider,
		timeout:  timeout,
		logger:   log,
	}
}

type fieldUpdate struct {
	Value     interface{} `json:"value"`
	Confirmed bool        `json:"confirmed"`
}

func (s *confirmationService) Track(ctx context.Context, segment string, state *model.FieldState, emit FieldEmitter) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.provider.Chat(ctx,
		[]llm.Message{
			{Role: "system", Content: constant.ConfirmationSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(constant.ConfirmationPromptTemplate, segment)},
		},
		llm.WithTemperature(0),
		llm.WithMaxTokens(200),
	)
	if err != nil {
		s.logger.Warn("ConfirmationService", "Confirmation call failed, state unchanged", map[string]interface{}{"error": err.Error()})
		return
	}

	var envelope struct {
		Updates json.RawMessage `json:"updates"`
	}
	if err := utils.UnmarshalLenient(raw, &envelope); err != nil {
		s.logger.Warn("ConfirmationService", "Model output was not JSON, state unchanged", map[string]interface{}{"error": err.Error()})
		return
	}
	if len(envelope.Updates) == 0 {
		return
	}

	// The updates object is walked token-by-token so fields keep the
	// model's response order, which map unmarshaling would scramble. The
	// whole object must parse before anything is applied.
	updates, err := decodeOrderedUpdates(envelope.Updates)
	if err != nil {
		s.logger.Warn("ConfirmationService", "Malformed updates object, state unchanged", map[string]interface{}{"error": err.Error()})
		return
	}

	for _, u := range updates {
		if isEmptyValue(u.update.Value) {
			continue
		}
		if u.update.Confirmed {
			state.SetConfirmed(u.field, u.update.Value)
		} else {
			state.SetPending(u.field, u.update.Value)
		}
		if emit != nil {
			emit(u.update.Confirmed, u.field, u.update.Value)
		}
	}
}

type orderedUpdate struct {
	field  string
	update fieldUpdate
}

func decodeOrderedUpdates(raw json.RawMessage) ([]orderedUpdate, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("updates is not an object")
	}

	var out []orderedUpdate
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		field, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token in updates object")
		}

		var update fieldUpdate
		if err := dec.Decode(&update); err != nil {
			return nil, err
		}
		out = append(out, orderedUpdate{field: field, update: update})
	}

	return out, nil
}

func isEmptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
