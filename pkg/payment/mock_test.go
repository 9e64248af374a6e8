package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderIntentLifecycle(t *testing.T) {
	provider := NewMockProvider()
	ctx := context.Background()

	intent, err := provider.CreateIntent(ctx, &IntentRequest{
		AmountCents: 12500,
		Currency:    "usd",
		Description: "test rental",
	})
	require.NoError(t, err)

	assert.Equal(t, IntentStatusRequiresPayment, intent.Status)
	assert.Equal(t, int64(12500), intent.AmountCents)
	assert.Contains(t, intent.ID, "pi_mock_")
	assert.NotEmpty(t, intent.ClientSecret)

	// Retrieval settles the intent.
	fetched, err := provider.GetIntent(ctx, intent.ID)
	require.NoError(t, err)
	assert.Equal(t, IntentStatusSucceeded, fetched.Status)
}

func TestMockProviderRejectsNonPositiveAmount(t *testing.T) {
	provider := NewMockProvider()

	_, err := provider.CreateIntent(context.Background(), &IntentRequest{AmountCents: 0, Currency: "usd"})
	assert.Error(t, err)
}

func TestMockProviderUnknownIntent(t *testing.T) {
	provider := NewMockProvider()
	ctx := context.Background()

	_, err := provider.GetIntent(ctx, "pi_missing")
	assert.Error(t, err)

	_, err = provider.Refund(ctx, &RefundRequest{IntentID: "pi_missing", AmountCents: 100})
	assert.Error(t, err)
}

func TestMockProviderRefundBounds(t *testing.T) {
	provider := NewMockProvider()
	ctx := context.Background()

	intent, err := provider.CreateIntent(ctx, &IntentRequest{AmountCents: 10000, Currency: "usd"})
	require.NoError(t, err)

	// Partial refund keeps the requested amount.
	refund, err := provider.Refund(ctx, &RefundRequest{IntentID: intent.ID, AmountCents: 4000})
	require.NoError(t, err)
	assert.Equal(t, int64(4000), refund.AmountCents)

	// Zero means full refund; over-asking is capped at the intent amount.
	refund, err = provider.Refund(ctx, &RefundRequest{IntentID: intent.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), refund.AmountCents)

	refund, err = provider.Refund(ctx, &RefundRequest{IntentID: intent.ID, AmountCents: 99999})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), refund.AmountCents)
}
