// internal/flows/payment/payment-submitter/models.go
package paymentsubmitter

import "fmt"

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseProcessing Phase = "processing"
	PhasePaid       Phase = "paid"
	PhaseFailed     Phase = "failed"
)

type FieldKey string

const (
	FieldCardNumber FieldKey = "cardNumber"
	FieldExpiryDate FieldKey = "expiryDate"
	FieldCVV        FieldKey = "cvv"
	FieldNameOnCard FieldKey = "nameOnCard"
	FieldBillingZip FieldKey = "billingZip"
)

// Fields lists the payment fields in validation order.
var Fields = []FieldKey{FieldCardNumber, FieldExpiryDate, FieldCVV, FieldNameOnCard, FieldBillingZip}

const (
	PaymentFailedMessage = "There was an error processing your payment. Please try again."
	PaymentSuccessTitle  = "Payment Successful"
	PaymentSuccessText   = "Your application fee has been paid. Your application is now being processed."
)

// Summary is the fee breakdown shown before paying.
type Summary struct {
	ApplicationFee float64
	ProcessingFee  float64
	Total          float64
}

func FormatAmount(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func (s Summary) String() string {
	return fmt.Sprintf("Application Fee: %s, Processing Fee: %s, Total: %s",
		FormatAmount(s.ApplicationFee), FormatAmount(s.ProcessingFee), FormatAmount(s.Total))
}

// Snapshot is a value copy of the payment state. The card number and cvv
// are never exposed in full.
type Snapshot struct {
	ApplicationID string
	Phase         Phase
	Summary       Summary
	MaskedCard    string
	NameOnCard    string
	TransactionID string
	Title         string
	Message       string
	Err           error
}
