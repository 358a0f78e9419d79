// internal/flows/payment/payment-submitter/validation.go
package paymentsubmitter

import (
	"strings"

	apperrors "lease-client/internal/common/errors"
	"lease-client/internal/models"
)

type rule struct {
	field   FieldKey
	title   string
	message string
	check   func(d models.PaymentDraft) bool
}

// rules run in order; the first failing rule is reported.
var rules = []rule{
	{
		field:   FieldCardNumber,
		title:   "Invalid Card Number",
		message: "Please enter a valid credit card number.",
		check:   func(d models.PaymentDraft) bool { return len(strings.TrimSpace(d.CardNumber)) >= 15 },
	},
	{
		field:   FieldExpiryDate,
		title:   "Invalid Expiry Date",
		message: "Please enter a valid expiry date (MM/YY).",
		check:   func(d models.PaymentDraft) bool { return strings.Contains(strings.TrimSpace(d.ExpiryDate), "/") },
	},
	{
		field:   FieldCVV,
		title:   "Invalid CVV",
		message: "Please enter a valid CVV code.",
		check:   func(d models.PaymentDraft) bool { return len(strings.TrimSpace(d.CVV)) >= 3 },
	},
	{
		field:   FieldNameOnCard,
		title:   "Missing Name",
		message: "Please enter the name on your card.",
		check:   func(d models.PaymentDraft) bool { return strings.TrimSpace(d.NameOnCard) != "" },
	},
	{
		field:   FieldBillingZip,
		title:   "Missing ZIP Code",
		message: "Please enter your billing ZIP code.",
		check:   func(d models.PaymentDraft) bool { return strings.TrimSpace(d.BillingZip) != "" },
	},
}

// Validate returns an InvalidCardFieldError for the first field that fails.
func Validate(d models.PaymentDraft) error {
	for _, r := range rules {
		if !r.check(d) {
			return &apperrors.InvalidCardFieldError{
				Field:   string(r.field),
				Title:   r.title,
				Message: r.message,
			}
		}
	}
	return nil
}

// BuildPayload binds the draft to an application. The name on the card is
// not part of the payload.
func BuildPayload(applicationID string, d models.PaymentDraft) models.PaymentPayload {
	return models.PaymentPayload{
		LeaseApplicationID: applicationID,
		PaymentMethod:      models.PaymentMethodCreditCard,
		CardNumber:         strings.TrimSpace(d.CardNumber),
		ExpiryDate:         strings.TrimSpace(d.ExpiryDate),
		CVV:                strings.TrimSpace(d.CVV),
		BillingZip:         strings.TrimSpace(d.BillingZip),
	}
}
