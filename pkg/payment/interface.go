package payment

import (
	"context"
)

// Provider abstracts the payment gateway. All amounts are integer cents.
type Provider interface {
	CreateIntent(ctx context.Context, request *IntentRequest) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
	Refund(ctx context.Context, request *RefundRequest) (*Refund, error)
}

type IntentRequest struct {
	AmountCents int64             `json:"amount_cents"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	CreatedAt    int64  `json:"created_at"`
}

type RefundRequest struct {
	IntentID    string `json:"intent_id"`
	AmountCents int64  `json:"amount_cents"`
	Reason      string `json:"reason"`
}

type Refund struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	CreatedAt   int64  `json:"created_at"`
}

// Intent statuses the services branch on. These mirror the gateway's
// vocabulary so mock and live providers agree.
const (
	IntentStatusRequiresPayment = "requires_payment_method"
	IntentStatusSucceeded       = "succeeded"
	IntentStatusCanceled        = "canceled"
)
