package websocket

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"loan-voice-be/internal/dto"
	"loan-voice-be/internal/model"
	"loan-voice-be/internal/pkg/logger"
	"loan-voice-be/internal/service"
	"loan-voice-be/pkg/loan"
	"loan-voice-be/pkg/realtime"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// endOfAudioSentinel is the reserved frame the browser sends in place of
// audio to mark the end of a user utterance.
var endOfAudioSentinel = []byte("end_of_audio")

// isEndOfAudio matches the sentinel regardless of frame type; browsers differ
// on whether a string send arrives as a text or binary frame.
func isEndOfAudio(msg []byte) bool {
	return bytes.Equal(msg, endOfAudioSentinel)
}

const (
	// recentTurnWindow is how many trailing turns the confirmation
	// tracker sees.
	recentTurnWindow = 4
	// minTurnsForTracking gates the tracker until there is an actual
	// exchange to classify.
	minTurnsForTracking = 2
)

// Session owns one client connection and its paired upstream speech session.
// Two pumps run concurrently: client audio up, upstream events down. All
// conversation state is scoped here; nothing is shared across connections.
type Session struct {
	id       uuid.UUID
	conn     *websocket.Conn
	writer   *Writer
	upstream *realtime.Client

	log    *model.ConversationLog
	fields *model.FieldState

	extractor  service.IExtractionService
	tracker    service.IConfirmationService
	reports    service.IReportService
	calculator *loan.Calculator

	logger logger.ILogger

	ctx    context.Context
	cancel context.CancelFunc

	tasks       sync.WaitGroup
	trackerBusy atomic.Bool
}

type SessionDeps struct {
	Extractor  service.IExtractionService
	Tracker    service.IConfirmationService
	Reports    service.IReportService
	Calculator *loan.Calculator
	Logger     logger.ILogger
}

func NewSession(id uuid.UUID, conn *websocket.Conn, upstream *realtime.Client, deps SessionDeps) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:         id,
		conn:       conn,
		writer:     NewWriter(conn, deps.Logger),
		upstream:   upstream,
		log:        model.NewConversationLog(),
		fields:     model.NewFieldState(),
		extractor:  deps.Extractor,
		tracker:    deps.Tracker,
		reports:    deps.Reports,
		calculator: deps.Calculator,
		logger:     deps.Logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *Session) ID() uuid.UUID   { return s.id }
func (s *Session) Writer() *Writer { return s.writer }

// Run drives both pumps until either socket fails, then tears everything
// down: the session context cancels still-running background tasks and both
// connections close, unblocking the other pump.
func (s *Session) Run() {
	go s.writer.Run()

	errCh := make(chan error, 2)
	go func() { errCh <- s.pumpUpstream() }()
	go func() { errCh <- s.pumpClient() }()

	err := <-errCh
	if err != nil {
		s.logger.Info("Session", "Relay ended", map[string]interface{}{"session_id": s.id, "error": err.Error()})
	}

	s.cancel()
	s.upstream.Close()
	s.conn.Close()
	<-errCh

	s.writer.Close()
	s.tasks.Wait()

	pending, confirmed := s.fields.Counts()
	s.logger.Info("Session", "Session closed", map[string]interface{}{
		"session_id": s.id,
		"turns":      s.log.Len(),
		"pending":    pending,
		"confirmed":  confirmed,
	})
}

// pumpClient forwards inbound audio frames to the upstream input buffer. The
// sentinel frame commits the buffer, triggers a response, and logs the user
// turn synchronously so extraction sees it in order.
func (s *Session) pumpClient() error {
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, msg, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}

		if isEndOfAudio(msg) {
			if err := s.upstream.CommitAudio(); err != nil {
				return err
			}
			if err := s.upstream.CreateResponse(); err != nil {
				return err
			}
			s.log.AppendUser(model.UserAudioPlaceholder)
			continue
		}

		if messageType != websocket.BinaryMessage {
			s.logger.Debug("Session", "Ignoring non-audio client frame", map[string]interface{}{"session_id": s.id, "message_type": messageType})
			continue
		}

		if err := s.upstream.AppendAudio(msg); err != nil {
			return err
		}
	}
}

// pumpUpstream dispatches upstream events: transcript deltas become chat
// messages and coalesce into the log, audio deltas stream down bracketed by
// tts markers, and each completed response kicks off the background analysis.
func (s *Session) pumpUpstream() error {
	for {
		ev, err := s.upstream.ReadEvent()
		if err != nil {
			if s.ctx.Err() != nil {
				return nil // session already shutting down
			}
			s.writer.SendJSON(dto.ErrorEvent{Type: dto.EventError, Message: "speech session lost"})
			return err
		}

		switch ev.Type {
		case realtime.EventTranscriptDelta:
			text := strings.TrimSpace(ev.Delta)
			if text == "" {
				continue
			}
			s.writer.SendJSON(dto.ChatMessage{Type: dto.EventChatMessage, Role: model.RoleAssistant, Text: text})
			s.log.AppendAssistantDelta(text)

		case realtime.EventAudioDelta:
			chunk, err := ev.AudioChunk()
			if err != nil {
				s.logger.Warn("Session", "Bad audio delta from upstream", map[string]interface{}{"session_id": s.id, "error": err.Error()})
				continue
			}
			s.writer.SendJSON(dto.Signal{Type: dto.EventTTSStart})
			s.writer.SendBinary(chunk)
			s.writer.SendJSON(dto.Signal{Type: dto.EventTTSEnd})

		case realtime.EventResponseDone:
			s.launchAnalysis()

		case realtime.EventResponseCreated, realtime.EventSessionUpdated:
			s.logger.Debug("Session", "Upstream lifecycle event", map[string]interface{}{"session_id": s.id, "type": ev.Type})

		case realtime.EventError:
			msg := "unknown upstream error"
			if ev.Error != nil {
				msg = ev.Error.Message
			}
			s.logger.Warn("Session", "Upstream error event", map[string]interface{}{"session_id": s.id, "error": msg})

		default:
			s.logger.Debug("Session", "Unhandled upstream event", map[string]interface{}{"session_id": s.id, "type": ev.Type})
		}
	}
}

// launchAnalysis snapshots the log and fires extraction (always) and the
// confirmation tracker (once there is an exchange, and only one at a time)
// as tracked background tasks. The pumps never wait on them.
func (s *Session) launchAnalysis() {
	snapshot := s.log.Snapshot()
	if len(snapshot) == 0 {
		return
	}

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		s.runExtraction(snapshot)
	}()

	if len(snapshot) >= minTurnsForTracking && s.trackerBusy.CompareAndSwap(false, true) {
		segment := snapshot
		if len(segment) > recentTurnWindow {
			segment = segment[len(segment)-recentTurnWindow:]
		}
		s.tasks.Add(1)
		go func() {
			defer s.tasks.Done()
			defer s.trackerBusy.Store(false)
			s.runConfirmation(model.Transcript(segment))
		}()
	}
}

func (s *Session) runExtraction(snapshot []model.Turn) {
	fields := s.extractor.Extract(s.ctx, model.Transcript(snapshot))
	if s.ctx.Err() != nil {
		return
	}

	for _, fv := range fields.Present() {
		s.writer.SendJSON(dto.FieldUpdate{Type: dto.EventFieldExtracted, Field: fv.Field, Value: fv.Value})
	}

	result := s.calculator.Calculate(loan.Inputs{
		MonthlySalary:   fields.MonthlySalary,
		LoanAmount:      fields.LoanAmount,
		LoanTenureYears: fields.LoanTenureYears,
	})
	s.writer.SendJSON(dto.LoanCalculations{Type: dto.EventLoanCalculations, Data: result})

	s.reports.RequestReport(service.ReportRequest{
		SessionID: s.id,
		Fields:    fields,
		Result:    result,
	})
}

func (s *Session) runConfirmation(segment string) {
	s.tracker.Track(s.ctx, segment, s.fields, func(confirmed bool, field string, value interface{}) {
		eventType := dto.EventFieldPending
		if confirmed {
			eventType = dto.EventFieldConfirmed
		}
		s.writer.SendJSON(dto.FieldUpdate{Type: eventType, Field: field, Value: value})
	})
}
