// internal/flows/payment/payment-submitter/submitter_test.go
package paymentsubmitter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "lease-client/internal/common/errors"
	"lease-client/internal/common/logger"
	"lease-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		DefaultApplicationFee: 50,
		ProcessingFee:         0,
		Timeout:               time.Second,
	}
}

func createValidDraft() models.PaymentDraft {
	return models.PaymentDraft{
		CardNumber: "4111111111111111",
		ExpiryDate: "12/29",
		CVV:        "123",
		NameOnCard: "John Smith",
		BillingZip: "78701",
	}
}

type fakeProcessor struct {
	mu       sync.Mutex
	calls    int
	payloads []models.PaymentPayload
	started  chan struct{}
	release  chan struct{}
	result   *models.PaymentResult
	err      error
}

func (f *fakeProcessor) ProcessPayment(ctx context.Context, payload models.PaymentPayload) (*models.PaymentResult, error) {
	f.mu.Lock()
	f.calls++
	f.payloads = append(f.payloads, payload)
	result, err := f.result, f.err
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}
	return &models.PaymentResult{Success: true, TransactionID: "txn-1"}, nil
}

func (f *fakeProcessor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProcessor) set(result *models.PaymentResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result, f.err = result, err
}

func newTestSubmitter(t *testing.T, p Processor, opts ...Option) *Submitter {
	t.Helper()
	s := NewSubmitter(createTestConfig(), p, logger.NewTestLogger(t), opts...)
	t.Cleanup(s.Close)
	return s
}

func fill(t *testing.T, s *Submitter, d models.PaymentDraft) {
	t.Helper()
	require.NoError(t, s.SetField(FieldCardNumber, d.CardNumber))
	require.NoError(t, s.SetField(FieldExpiryDate, d.ExpiryDate))
	require.NoError(t, s.SetField(FieldCVV, d.CVV))
	require.NoError(t, s.SetField(FieldNameOnCard, d.NameOnCard))
	require.NoError(t, s.SetField(FieldBillingZip, d.BillingZip))
}

// ==========================
// Validation Tests
// ==========================

func TestValidate_Order(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(d *models.PaymentDraft)
		wantField string
		wantMsg   string
	}{
		{
			name:      "everything blank reports card number first",
			mutate:    func(d *models.PaymentDraft) { *d = models.PaymentDraft{} },
			wantField: "cardNumber",
			wantMsg:   "Please enter a valid credit card number.",
		},
		{
			name:      "short card number",
			mutate:    func(d *models.PaymentDraft) { d.CardNumber = "41111111111111" },
			wantField: "cardNumber",
			wantMsg:   "Please enter a valid credit card number.",
		},
		{
			name: "expiry without slash before bad cvv",
			mutate: func(d *models.PaymentDraft) {
				d.ExpiryDate = "1229"
				d.CVV = "1"
			},
			wantField: "expiryDate",
			wantMsg:   "Please enter a valid expiry date (MM/YY).",
		},
		{
			name:      "short cvv",
			mutate:    func(d *models.PaymentDraft) { d.CVV = "12" },
			wantField: "cvv",
			wantMsg:   "Please enter a valid CVV code.",
		},
		{
			name: "name before zip",
			mutate: func(d *models.PaymentDraft) {
				d.NameOnCard = "  "
				d.BillingZip = ""
			},
			wantField: "nameOnCard",
			wantMsg:   "Please enter the name on your card.",
		},
		{
			name:      "zip",
			mutate:    func(d *models.PaymentDraft) { d.BillingZip = "" },
			wantField: "billingZip",
			wantMsg:   "Please enter your billing ZIP code.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := createValidDraft()
			tt.mutate(&d)

			err := Validate(d)
			var cardErr *apperrors.InvalidCardFieldError
			require.True(t, errors.As(err, &cardErr))
			assert.Equal(t, tt.wantField, cardErr.Field)
			assert.Equal(t, tt.wantMsg, cardErr.Message)
		})
	}
}

func TestValidate_Accepts15DigitCard(t *testing.T) {
	d := createValidDraft()
	d.CardNumber = "378282246310005"
	d.CVV = "1234"
	assert.NoError(t, Validate(d))
}

func TestBuildPayload(t *testing.T) {
	p := BuildPayload("app-1", createValidDraft())
	assert.Equal(t, models.PaymentPayload{
		LeaseApplicationID: "app-1",
		PaymentMethod:      "credit_card",
		CardNumber:         "4111111111111111",
		ExpiryDate:         "12/29",
		CVV:                "123",
		BillingZip:         "78701",
	}, p)
}

// ==========================
// Submit Tests
// ==========================

func TestSubmitter_InvalidDraftNeverReachesGateway(t *testing.T) {
	p := &fakeProcessor{}
	s := newTestSubmitter(t, p)
	d := createValidDraft()
	d.CVV = "1"
	fill(t, s, d)

	_, err := s.Submit(context.Background(), "app-1")
	assert.Equal(t, apperrors.ErrCodeInvalidCardField, apperrors.CodeOf(err))
	assert.Equal(t, 0, p.Calls())

	snap := s.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, "Invalid CVV", snap.Title)
}

func TestSubmitter_Success(t *testing.T) {
	p := &fakeProcessor{result: &models.PaymentResult{Success: true, Message: "ok", TransactionID: "txn-42"}}
	s := newTestSubmitter(t, p)
	fill(t, s, createValidDraft())

	result, err := s.Submit(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "txn-42", result.TransactionID)
	require.Equal(t, 1, p.Calls())
	assert.Equal(t, "credit_card", p.payloads[0].PaymentMethod)
	assert.Equal(t, "app-1", p.payloads[0].LeaseApplicationID)

	snap := s.Snapshot()
	assert.Equal(t, PhasePaid, snap.Phase)
	assert.Equal(t, "txn-42", snap.TransactionID)
	assert.Empty(t, snap.MaskedCard)

	_, err = s.Submit(context.Background(), "app-1")
	assert.True(t, errors.Is(err, ErrAlreadyPaid))
	assert.True(t, errors.Is(s.SetField(FieldCVV, "999"), ErrAlreadyPaid))
	assert.Equal(t, 1, p.Calls())
}

func TestSubmitter_DeclinedMessages(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "server message", message: "Card declined", want: "Card declined"},
		{name: "fallback", message: "", want: PaymentFailedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProcessor{result: &models.PaymentResult{Success: false, Message: tt.message}}
			s := newTestSubmitter(t, p)
			fill(t, s, createValidDraft())

			_, err := s.Submit(context.Background(), "app-1")
			var failed *PaymentFailedError
			require.True(t, errors.As(err, &failed))
			assert.Equal(t, tt.want, failed.Message)

			snap := s.Snapshot()
			assert.Equal(t, PhaseFailed, snap.Phase)
			assert.Equal(t, tt.want, snap.Message)
			assert.Equal(t, "************1111", snap.MaskedCard)
		})
	}
}

func TestSubmitter_NetworkFailureThenRetry(t *testing.T) {
	p := &fakeProcessor{err: apperrors.NewNetworkFailureError("processApplicationPayment", errors.New("connection refused"))}
	s := newTestSubmitter(t, p)
	fill(t, s, createValidDraft())

	_, err := s.Submit(context.Background(), "app-1")
	var failed *PaymentFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, PaymentFailedMessage, failed.Message)
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, PhaseFailed, s.Snapshot().Phase)

	p.set(nil, nil)
	_, err = s.Submit(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Calls())
	assert.Equal(t, PhasePaid, s.Snapshot().Phase)
}

func TestSubmitter_ConcurrentSubmitSendsOnce(t *testing.T) {
	p := &fakeProcessor{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s := newTestSubmitter(t, p)
	fill(t, s, createValidDraft())

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), "app-1")
		done <- err
	}()
	<-p.started

	_, err := s.Submit(context.Background(), "app-1")
	assert.True(t, errors.Is(err, ErrPaymentInFlight))

	close(p.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, p.Calls())
}

func TestSubmitter_RequiresApplicationID(t *testing.T) {
	p := &fakeProcessor{}
	s := newTestSubmitter(t, p)
	fill(t, s, createValidDraft())

	_, err := s.Submit(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrMissingApplicationID))
	assert.Equal(t, 0, p.Calls())
}

func TestSubmitter_Summary(t *testing.T) {
	fee := 75.5
	s := newTestSubmitter(t, &fakeProcessor{}, WithApplicationFee(&fee))
	sum := s.Summary()
	assert.Equal(t, 75.5, sum.Total)
	assert.Equal(t, "Application Fee: $75.50, Processing Fee: $0.00, Total: $75.50", sum.String())

	fallback := newTestSubmitter(t, &fakeProcessor{}, WithApplicationFee(nil))
	assert.Equal(t, 50.0, fallback.Summary().ApplicationFee)
}

func TestSubmitter_UnknownField(t *testing.T) {
	s := newTestSubmitter(t, &fakeProcessor{})
	assert.True(t, errors.Is(s.SetField(FieldKey("pin"), "1234"), ErrUnknownField))
}
