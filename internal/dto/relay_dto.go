package dto

import "loan-voice-be/pkg/loan"

// ClientConfig is the first control message the browser sends after the
// websocket upgrade. Anything other than type "config" fails the handshake.
type ClientConfig struct {
	Type       string `json:"type" validate:"required,eq=config"`
	SampleRate int    `json:"sample_rate,omitempty" validate:"omitempty,gt=0"`
}

type ConfigAck struct {
	Type string `json:"type"` // "config_ack"
}

// ChatMessage carries assistant transcript fragments to the client.
type ChatMessage struct {
	Type string `json:"type"` // "chat_message"
	Role string `json:"role"`
	Text string `json:"text"`
}

// FieldUpdate covers "field_extracted", "field_pending" and "field_confirmed".
type FieldUpdate struct {
	Type  string      `json:"type"`
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

type LoanCalculations struct {
	Type string      `json:"type"` // "loan_calculations"
	Data loan.Result `json:"data"`
}

type EmailStatus struct {
	Type   string `json:"type"`   // "email_status"
	Status string `json:"status"` // "sent" | "failed"
	To     string `json:"to"`
}

// Signal is a bare marker event such as "tts_start" / "tts_end".
type Signal struct {
	Type string `json:"type"`
}

type ErrorEvent struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

const (
	EventConfigAck        = "config_ack"
	EventChatMessage      = "chat_message"
	EventFieldExtracted   = "field_extracted"
	EventFieldPending     = "field_pending"
	EventFieldConfirmed   = "field_confirmed"
	EventLoanCalculations = "loan_calculations"
	EventEmailStatus      = "email_status"
	EventTTSStart         = "tts_start"
	EventTTSEnd           = "tts_end"
	EventError            = "error"

	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)
