package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-voice-be/internal/dto"
	"loan-voice-be/internal/model"
	"loan-voice-be/internal/pkg/logger"
	"loan-voice-be/internal/pkg/mailer"
	"loan-voice-be/pkg/loan"
	"loan-voice-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const ReportTopic = "loan.report.requested"

const reportSubject = "Your Home Loan Analysis Report"

// StatusDelivery pushes an out-of-band payload to a live session's client.
// Implemented by the websocket hub. Send returns false when the session is
// already gone, which is not an error: report delivery outlives sessions.
type StatusDelivery interface {
	Send(sessionID uuid.UUID, payload []byte) bool
}

// ReportRequest is the bus payload published after each extraction pass.
type ReportRequest struct {
	SessionID uuid.UUID        `json:"session_id"`
	Fields    model.LoanFields `json:"fields"`
	Result    loan.Result      `json:"result"`
}

// IReportService owns the email leg of the pipeline: extraction publishes a
// request, the consumer gates on consent, sends the report under a bounded
// timeout, and pushes an email_status event back through the hub. Failure is
// terminal-but-local: logged, reported, never retried.
type IReportService interface {
	RequestReport(req ReportRequest)
	Start(ctx context.Context) error
}

type reportService struct {
	pubSub   *gochannel.GoChannel
	mail     mailer.IEmailService
	delivery StatusDelivery
	timeout  time.Duration
	logger   logger.ILogger
}

func NewReportService(
	pubSub *gochannel.GoChannel,
	mail mailer.IEmailService,
	delivery StatusDelivery,
	timeout time.Duration,
	log logger.ILogger,
) IReportService {
	return &reportService{
		pubSub:   pubSub,
		mail:     mail,
		delivery: delivery,
		timeout:  timeout,
		logger:   log,
	}
}

func (s *reportService) RequestReport(req ReportRequest) {
	payload, err := json.Marshal(req)
	if err != nil {
		s.logger.Error("ReportService", "Failed to marshal report request", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(ReportTopic, msg); err != nil {
		s.logger.Error("ReportService", "Failed to publish report request", map[string]interface{}{"error": err.Error()})
	}
}

func (s *reportService) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, ReportTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
			msg.Ack()
		}
	}()

	return nil
}

func (s *reportService) processMessage(msg *message.Message) {
	var req ReportRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		s.logger.Error("ReportService", "Failed to unmarshal report request", map[string]interface{}{"error": err.Error()})
		return
	}

	// The extracted address is authoritative, and a report goes out only
	// with an address AND explicit consent.
	if req.Fields.EmailAddress == nil || !req.Fields.EmailConsent {
		s.logger.Debug("ReportService", "Report skipped: no address or no consent", map[string]interface{}{
			"session_id":  req.SessionID,
			"has_address": req.Fields.EmailAddress != nil,
			"consent":     req.Fields.EmailConsent,
		})
		return
	}
	to := *req.Fields.EmailAddress

	body := composeReportBody(req.Fields, req.Result)

	status := dto.EmailStatusSent
	if err := s.sendWithTimeout(to, body); err != nil {
		s.logger.Warn("ReportService", "Report email failed", map[string]interface{}{
			"session_id": req.SessionID,
			"to":         to,
			"error":      err.Error(),
		})
		status = dto.EmailStatusFailed
	} else {
		s.logger.Info("ReportService", "Report email sent", map[string]interface{}{
			"session_id": req.SessionID,
			"to":         to,
		})
	}

	event, err := json.Marshal(dto.EmailStatus{Type: dto.EventEmailStatus, Status: status, To: to})
	if err != nil {
		return
	}
	if delivered := s.delivery.Send(req.SessionID, event); !delivered {
		s.logger.Debug("ReportService", "Session gone before email status delivery", map[string]interface{}{"session_id": req.SessionID})
	}
}

// sendWithTimeout bounds the SMTP dial+send, which has no context support of
// its own. On timeout the send goroutine is abandoned.
func (s *reportService) sendWithTimeout(to, body string) error {
	done := make(chan error, 1)
	go func() {
		done <- s.mail.SendReport(to, reportSubject, body)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(s.timeout):
		return fmt.Errorf("email send timed out after %s", s.timeout)
	}
}

func composeReportBody(fields model.LoanFields, result loan.Result) string {
	name := "N/A"
	if fields.FirstName != nil {
		name = *fields.FirstName
	}
	eligibility := "Not Eligible"
	if result.Eligible {
		eligibility = "Eligible"
	}

	return fmt.Sprintf(
		"Hello!\n\n"+
			"Here's a summary of your home loan analysis:\n\n"+
			"Name: %s\n"+
			"Loan Amount: ₹%s\n"+
			"Monthly Salary: ₹%s\n"+
			"Tenure: %s years\n\n"+
			"Estimated EMI: ₹%s\n"+
			"Total Payable: ₹%s\n"+
			"Total Interest: ₹%s\n"+
			"Eligibility Status: %s\n"+
			"Remarks: %s\n\n"+
			"Thank you for using our Home Loan Assistant!",
		name,
		formatAmount(fields.LoanAmount),
		formatAmount(fields.MonthlySalary),
		formatTenure(fields.LoanTenureYears),
		formatAmount(result.EMIAmount),
		formatAmount(result.TotalPayable),
		formatAmount(result.TotalInterest),
		eligibility,
		result.Reason,
	)
}

func formatAmount(v *int64) string {
	if v == nil {
		return "N/A"
	}
	return utils.GroupDigits(*v)
}

func formatTenure(v *int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *v)
}
