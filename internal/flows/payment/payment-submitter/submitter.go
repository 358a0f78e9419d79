// internal/flows/payment/payment-submitter/submitter.go
package paymentsubmitter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	apperrors "lease-client/internal/common/errors"
	"lease-client/internal/common/logger"
	"lease-client/internal/common/metrics"
	"lease-client/internal/common/notify"
	"lease-client/internal/models"
)

const FlowName = "payment-submitter"

var (
	ErrPaymentInFlight      = errors.New("PAYMENT_IN_FLIGHT")
	ErrAlreadyPaid          = errors.New("ALREADY_PAID")
	ErrMissingApplicationID = errors.New("MISSING_APPLICATION_ID")
	ErrUnknownField         = errors.New("UNKNOWN_PAYMENT_FIELD")
)

// PaymentFailedError is returned when the attempt did not go through. The
// draft is kept so Submit can be called again.
type PaymentFailedError struct {
	Message string
	Cause   error
}

func (e *PaymentFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("payment failed: %s: %v", e.Message, e.Cause)
	}
	return "payment failed: " + e.Message
}

func (e *PaymentFailedError) Unwrap() error {
	return e.Cause
}

// Processor is the slice of the gateway that charges the application fee.
type Processor interface {
	ProcessPayment(ctx context.Context, payload models.PaymentPayload) (*models.PaymentResult, error)
}

type Option func(*Submitter)

// WithApplicationFee sets the fee returned by the application submission.
// A nil fee falls back to the configured default.
func WithApplicationFee(fee *float64) Option {
	return func(s *Submitter) {
		if fee != nil {
			s.fee = *fee
		}
	}
}

// Submitter owns one payment draft and charges it against an application.
type Submitter struct {
	config    *Config
	processor Processor
	logger    logger.Logger
	errs      *apperrors.ErrorHandler
	hub       *notify.Hub[Snapshot]
	fee       float64

	mu            sync.Mutex
	phase         Phase
	draft         models.PaymentDraft
	applicationID string
	transactionID string
	title         string
	message       string
	err           error
}

func NewSubmitter(config *Config, processor Processor, log logger.Logger, opts ...Option) *Submitter {
	if config == nil {
		config = LoadConfig(nil)
	}
	l := log.WithFields(map[string]interface{}{"flow": FlowName})
	s := &Submitter{
		config:    config,
		processor: processor,
		logger:    l,
		errs:      apperrors.NewErrorHandler(l),
		hub:       notify.NewHub[Snapshot](0),
		fee:       config.DefaultApplicationFee,
		phase:     PhaseIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Submitter) SetField(key FieldKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhasePaid {
		return ErrAlreadyPaid
	}
	switch key {
	case FieldCardNumber:
		s.draft.CardNumber = value
	case FieldExpiryDate:
		s.draft.ExpiryDate = value
	case FieldCVV:
		s.draft.CVV = value
	case FieldNameOnCard:
		s.draft.NameOnCard = value
	case FieldBillingZip:
		s.draft.BillingZip = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	s.publishLocked()
	return nil
}

// Validate checks the current draft without contacting the gateway.
func (s *Submitter) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Validate(s.draft)
}

func (s *Submitter) Summary() Summary {
	return Summary{
		ApplicationFee: s.fee,
		ProcessingFee:  s.config.ProcessingFee,
		Total:          s.fee + s.config.ProcessingFee,
	}
}

// Submit validates the draft and charges it once. A call while another is
// pending returns ErrPaymentInFlight and sends nothing. Failures leave the
// draft intact for a manual retry.
func (s *Submitter) Submit(ctx context.Context, applicationID string) (*models.PaymentResult, error) {
	applicationID = strings.TrimSpace(applicationID)

	s.mu.Lock()
	switch s.phase {
	case PhaseProcessing:
		s.mu.Unlock()
		return nil, ErrPaymentInFlight
	case PhasePaid:
		s.mu.Unlock()
		return nil, ErrAlreadyPaid
	}
	if applicationID == "" {
		s.mu.Unlock()
		return nil, ErrMissingApplicationID
	}
	if err := Validate(s.draft); err != nil {
		var cardErr *apperrors.InvalidCardFieldError
		errors.As(err, &cardErr)
		s.err = err
		s.title = cardErr.Title
		s.message = cardErr.Message
		s.errs.Handle("payment", err)
		s.publishLocked()
		s.mu.Unlock()
		metrics.Payments.WithLabelValues("invalid").Inc()
		return nil, err
	}

	payload := BuildPayload(applicationID, s.draft)
	s.applicationID = applicationID
	s.phase = PhaseProcessing
	s.clearMessageLocked()
	s.publishLocked()
	s.mu.Unlock()

	s.logger.Info("processing payment", map[string]interface{}{
		"applicationId": applicationID,
		"card":          logger.MaskTail(payload.CardNumber),
		"amount":        s.Summary().Total,
	})

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	result, err := s.processor.ProcessPayment(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		failed := &PaymentFailedError{Message: PaymentFailedMessage, Cause: err}
		s.failLocked(failed)
		s.errs.Handle("payment", err)
		metrics.Payments.WithLabelValues("error").Inc()
		return nil, failed
	}
	if !result.Success {
		msg := strings.TrimSpace(result.Message)
		if msg == "" {
			msg = PaymentFailedMessage
		}
		failed := &PaymentFailedError{Message: msg}
		s.failLocked(failed)
		s.logger.Warn("payment declined", map[string]interface{}{
			"applicationId": applicationID,
			"message":       msg,
		})
		metrics.Payments.WithLabelValues("declined").Inc()
		return result, failed
	}

	s.phase = PhasePaid
	s.transactionID = result.TransactionID
	s.draft = models.PaymentDraft{}
	s.title = PaymentSuccessTitle
	s.message = PaymentSuccessText
	s.err = nil
	s.publishLocked()
	metrics.Payments.WithLabelValues("paid").Inc()
	s.logger.Info("payment completed", map[string]interface{}{
		"applicationId": applicationID,
		"transactionId": result.TransactionID,
	})
	return result, nil
}

func (s *Submitter) failLocked(err *PaymentFailedError) {
	s.phase = PhaseFailed
	s.err = err
	s.title = "Payment Failed"
	s.message = err.Message
	s.publishLocked()
}

func (s *Submitter) clearMessageLocked() {
	s.err = nil
	s.title = ""
	s.message = ""
}

func (s *Submitter) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Submitter) Subscribe() (<-chan Snapshot, func()) {
	return s.hub.Subscribe()
}

func (s *Submitter) Close() {
	s.hub.Close()
}

func (s *Submitter) snapshotLocked() Snapshot {
	return Snapshot{
		ApplicationID: s.applicationID,
		Phase:         s.phase,
		Summary:       s.Summary(),
		MaskedCard:    logger.MaskTail(s.draft.CardNumber),
		NameOnCard:    s.draft.NameOnCard,
		TransactionID: s.transactionID,
		Title:         s.title,
		Message:       s.message,
		Err:           s.err,
	}
}

func (s *Submitter) publishLocked() {
	s.hub.Publish(s.snapshotLocked())
}
