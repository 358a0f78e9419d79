// internal/models/payment.go
package models

const PaymentMethodCreditCard = "credit_card"

// PaymentDraft holds card details while the applicant types them.
type PaymentDraft struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"` // MM/YY
	CVV        string `json:"cvv"`
	NameOnCard string `json:"nameOnCard"`
	BillingZip string `json:"billingZip"`
}

// PaymentPayload is the input of processApplicationPayment. The name on the
// card is collected for validation only and is not transmitted.
type PaymentPayload struct {
	LeaseApplicationID string `json:"leaseApplicationId"`
	PaymentMethod      string `json:"paymentMethod"`
	CardNumber         string `json:"cardNumber"`
	ExpiryDate         string `json:"expiryDate"`
	CVV                string `json:"cvv"`
	BillingZip         string `json:"billingZip"`
}

type PaymentResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}
