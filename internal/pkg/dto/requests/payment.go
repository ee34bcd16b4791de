package requests

type StartPayment struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type PaymentWebhook struct {
	Body      []byte
	Signature string
	Timestamp string
}
