package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockProvider is an in-memory gateway for development and tests. Intents
// succeed immediately on retrieval, mirroring a card that never declines.
type MockProvider struct {
	mu      sync.Mutex
	intents map[string]*Intent
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		intents: make(map[string]*Intent),
	}
}

func (m *MockProvider) CreateIntent(ctx context.Context, request *IntentRequest) (*Intent, error) {
	if request.AmountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	id := "pi_mock_" + uuid.NewString()
	intent := &Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       IntentStatusRequiresPayment,
		AmountCents:  request.AmountCents,
		Currency:     request.Currency,
		CreatedAt:    time.Now().Unix(),
	}

	m.mu.Lock()
	m.intents[id] = intent
	m.mu.Unlock()

	return intent, nil
}

func (m *MockProvider) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	intent, ok := m.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("payment intent %s not found", intentID)
	}

	intent.Status = IntentStatusSucceeded
	return intent, nil
}

func (m *MockProvider) Refund(ctx context.Context, request *RefundRequest) (*Refund, error) {
	m.mu.Lock()
	intent, ok := m.intents[request.IntentID]
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("payment intent %s not found", request.IntentID)
	}

	amount := request.AmountCents
	if amount == 0 || amount > intent.AmountCents {
		amount = intent.AmountCents
	}

	return &Refund{
		ID:          "re_mock_" + uuid.NewString(),
		Status:      "succeeded",
		AmountCents: amount,
		Currency:    intent.Currency,
		CreatedAt:   time.Now().Unix(),
	}, nil
}
