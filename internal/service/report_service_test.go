package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"loan-voice-be/internal/dto"
	"loan-voice-be/internal/model"
	"loan-voice-be/pkg/loan"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMailer struct {
	mu    sync.Mutex
	err   error
	sends []struct{ to, subject, body string }
}

func (m *stubMailer) SendReport(toEmail, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, struct{ to, subject, body string }{toEmail, subject, body})
	return m.err
}

func (m *stubMailer) sent() []struct{ to, subject, body string } {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]struct{ to, subject, body string }, len(m.sends))
	copy(out, m.sends)
	return out
}

type stubDelivery struct {
	payloads chan []byte
}

func newStubDelivery() *stubDelivery {
	return &stubDelivery{payloads: make(chan []byte, 8)}
}

func (d *stubDelivery) Send(sessionID uuid.UUID, payload []byte) bool {
	d.payloads <- payload
	return true
}

func (d *stubDelivery) await(t *testing.T) dto.EmailStatus {
	t.Helper()
	select {
	case payload := <-d.payloads:
		var status dto.EmailStatus
		require.NoError(t, json.Unmarshal(payload, &status))
		return status
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for email status")
		return dto.EmailStatus{}
	}
}

func newTestReportService(t *testing.T, mail *stubMailer, delivery *stubDelivery) IReportService {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewReportService(pubSub, mail, delivery, time.Second, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, svc.Start(ctx))
	return svc
}

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func consentedFields(email string) model.LoanFields {
	return model.LoanFields{
		FirstName:    strPtr("Ravi"),
		EmailAddress: strPtr(email),
		LoanAmount:   int64Ptr(3000000),
		EmailConsent: true,
	}
}

func TestReportSentWithConsent(t *testing.T) {
	mail := &stubMailer{}
	delivery := newStubDelivery()
	svc := newTestReportService(t, mail, delivery)

	svc.RequestReport(ReportRequest{
		SessionID: uuid.New(),
		Fields:    consentedFields("ravi@example.com"),
		Result:    loan.Result{Eligible: true, Reason: "Eligible"},
	})

	status := delivery.await(t)
	assert.Equal(t, dto.EventEmailStatus, status.Type)
	assert.Equal(t, dto.EmailStatusSent, status.Status)
	assert.Equal(t, "ravi@example.com", status.To)

	sends := mail.sent()
	if assert.Len(t, sends, 1) {
		assert.Equal(t, "ravi@example.com", sends[0].to)
		assert.Equal(t, "Your Home Loan Analysis Report", sends[0].subject)
		assert.Contains(t, sends[0].body, "Name: Ravi")
		assert.Contains(t, sends[0].body, "Loan Amount: ₹3,000,000")
	}
}

func TestReportFailureStillReportsStatus(t *testing.T) {
	mail := &stubMailer{err: errors.New("smtp refused")}
	delivery := newStubDelivery()
	svc := newTestReportService(t, mail, delivery)

	svc.RequestReport(ReportRequest{
		SessionID: uuid.New(),
		Fields:    consentedFields("ravi@example.com"),
	})

	status := delivery.await(t)
	assert.Equal(t, dto.EmailStatusFailed, status.Status)
	assert.Equal(t, "ravi@example.com", status.To)
}

func TestReportSkippedWithoutConsentOrAddress(t *testing.T) {
	tests := []struct {
		name   string
		fields model.LoanFields
	}{
		{
			name:   "no address",
			fields: model.LoanFields{EmailConsent: true},
		},
		{
			name:   "no consent",
			fields: model.LoanFields{EmailAddress: strPtr("ravi@example.com")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mail := &stubMailer{}
			delivery := newStubDelivery()
			svc := newTestReportService(t, mail, delivery)

			svc.RequestReport(ReportRequest{SessionID: uuid.New(), Fields: tt.fields})

			time.Sleep(100 * time.Millisecond)
			assert.Empty(t, mail.sent())
			assert.Empty(t, delivery.payloads)
		})
	}
}

func TestComposeReportBodyMissingValues(t *testing.T) {
	body := composeReportBody(model.LoanFields{}, loan.Result{
		Reason: "Waiting for salary, loan amount, and tenure data",
	})

	assert.Contains(t, body, "Name: N/A")
	assert.Contains(t, body, "Loan Amount: ₹N/A")
	assert.Contains(t, body, "Tenure: N/A years")
	assert.Contains(t, body, "Eligibility Status: Not Eligible")
	assert.Contains(t, body, "Remarks: Waiting for salary, loan amount, and tenure data")
}
