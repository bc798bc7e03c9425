package model

// Stripe payment intent statuses we act on.
const (
	IntentStatusSucceeded             = "succeeded"
	IntentStatusRequiresPaymentMethod = "requires_payment_method"
	IntentStatusProcessing            = "processing"
	IntentStatusCanceled              = "canceled"
)

// Webhook event types.
const (
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
	EventPaymentIntentFailed    = "payment_intent.payment_failed"
	EventPaymentIntentCanceled  = "payment_intent.canceled"
)

type PaymentError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PaymentIntent struct {
	ID               string            `json:"id"`
	Status           string            `json:"status"`
	Amount           int64             `json:"amount"` // minor units
	Currency         string            `json:"currency"`
	ClientSecret     string            `json:"client_secret"`
	Metadata         map[string]string `json:"metadata"`
	LastPaymentError *PaymentError     `json:"last_payment_error"`
}

type StripeEventData struct {
	Object PaymentIntent `json:"object"`
}

type StripeWebhookEvent struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Created    int64           `json:"created"`
	Data       StripeEventData `json:"data"`
	Livemode   bool            `json:"livemode"`
	APIVersion string          `json:"api_version"`
}
