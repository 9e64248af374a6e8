package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type StripeProvider struct {
	client *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeProvider{
		client: sc,
	}
}

func (s *StripeProvider) CreateIntent(ctx context.Context, request *IntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(request.AmountCents),
		Currency:    stripe.String(request.Currency),
		Description: stripe.String(request.Description),
	}

	for key, value := range request.Metadata {
		params.AddMetadata(key, value)
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return intentFromStripe(pi), nil
}

func (s *StripeProvider) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	pi, err := s.client.PaymentIntents.Get(intentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	return intentFromStripe(pi), nil
}

func (s *StripeProvider) Refund(ctx context.Context, request *RefundRequest) (*Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(request.IntentID),
		Reason:        stripe.String(request.Reason),
	}

	if request.AmountCents > 0 {
		params.Amount = stripe.Int64(request.AmountCents)
	}

	refund, err := s.client.Refunds.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	return &Refund{
		ID:          refund.ID,
		Status:      string(refund.Status),
		AmountCents: refund.Amount,
		Currency:    string(refund.Currency),
		CreatedAt:   refund.Created,
	}, nil
}

func intentFromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
		CreatedAt:    pi.Created,
	}
}
