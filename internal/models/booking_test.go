package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func rangeDays(start, end int) DateRange {
	return DateRange{Start: day(start), End: day(end)}
}

func TestDateRangeOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{"identical", rangeDays(0, 3), rangeDays(0, 3), true},
		{"contained", rangeDays(0, 10), rangeDays(2, 4), true},
		{"partial overlap", rangeDays(0, 5), rangeDays(3, 8), true},
		{"back to back", rangeDays(0, 3), rangeDays(3, 6), false},
		{"disjoint", rangeDays(0, 2), rangeDays(5, 8), false},
		{"single shared day", rangeDays(0, 4), rangeDays(3, 4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestDateRangeDays(t *testing.T) {
	assert.Equal(t, int64(3), rangeDays(0, 3).Days())
	assert.Equal(t, int64(1), rangeDays(0, 1).Days())

	// Partial days round up.
	partial := DateRange{Start: day(0), End: day(2).Add(6 * time.Hour)}
	assert.Equal(t, int64(3), partial.Days())
}

func TestDateRangeIsValid(t *testing.T) {
	assert.True(t, rangeDays(0, 1).IsValid())
	assert.False(t, rangeDays(1, 1).IsValid())
	assert.False(t, rangeDays(3, 1).IsValid())
}

func TestComputeTotalCents(t *testing.T) {
	t.Run("base price only", func(t *testing.T) {
		// 3 days at $100/day.
		total := ComputeTotalCents(10000, rangeDays(0, 3), nil, nil)
		assert.Equal(t, int64(30000), total)
	})

	t.Run("insurance and extras", func(t *testing.T) {
		insurance := &InsuranceSelection{Tier: InsuranceTierPremium, CostCents: 2500}
		extras := []BookingExtra{
			{Name: "child_seat", UnitPriceCents: 1000, Quantity: 2},
			{Name: "gps", UnitPriceCents: 1200, Quantity: 1},
		}
		// 3*10000 + 2500 + 2*1000 + 1200 = 35700
		total := ComputeTotalCents(10000, rangeDays(0, 3), insurance, extras)
		assert.Equal(t, int64(35700), total)
	})

	t.Run("partial day bills a full day", func(t *testing.T) {
		r := DateRange{Start: day(0), End: day(0).Add(12 * time.Hour)}
		total := ComputeTotalCents(7000, r, nil, nil)
		assert.Equal(t, int64(7000), total)
	})

	t.Run("zero quantity extra adds nothing", func(t *testing.T) {
		extras := []BookingExtra{{Name: "gps", UnitPriceCents: 1200, Quantity: 0}}
		total := ComputeTotalCents(10000, rangeDays(0, 1), nil, extras)
		assert.Equal(t, int64(10000), total)
	})
}

func TestBookingStatusBlocks(t *testing.T) {
	assert.False(t, BookingStatusPending.Blocks())
	assert.True(t, BookingStatusConfirmed.Blocks())
	assert.True(t, BookingStatusActive.Blocks())
	assert.False(t, BookingStatusCompleted.Blocks())
	assert.False(t, BookingStatusCancelled.Blocks())
}

func TestBookingStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusConfirmed},
		{BookingStatusPending, BookingStatusCancelled},
		{BookingStatusConfirmed, BookingStatusActive},
		{BookingStatusConfirmed, BookingStatusCancelled},
		{BookingStatusActive, BookingStatusCompleted},
	}
	for _, tr := range allowed {
		assert.True(t, tr.from.CanTransitionTo(tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusActive},
		{BookingStatusPending, BookingStatusCompleted},
		{BookingStatusActive, BookingStatusCancelled},
		{BookingStatusActive, BookingStatusConfirmed},
		{BookingStatusCompleted, BookingStatusActive},
		{BookingStatusCompleted, BookingStatusConfirmed},
		{BookingStatusCompleted, BookingStatusCancelled},
		{BookingStatusCancelled, BookingStatusPending},
		{BookingStatusCancelled, BookingStatusConfirmed},
		{BookingStatusConfirmed, BookingStatusConfirmed},
	}
	for _, tr := range denied {
		assert.False(t, tr.from.CanTransitionTo(tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestBookingTransition(t *testing.T) {
	b := &Booking{Status: BookingStatusPending}

	require.NoError(t, b.Transition(BookingStatusConfirmed))
	assert.Equal(t, BookingStatusConfirmed, b.Status)

	err := b.Transition(BookingStatusCompleted)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	var transitionErr *InvalidTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, BookingStatusConfirmed, transitionErr.From)
	assert.Equal(t, BookingStatusCompleted, transitionErr.To)

	// The failed transition must not change state.
	assert.Equal(t, BookingStatusConfirmed, b.Status)
}

func TestNewBookingCode(t *testing.T) {
	code := NewBookingCode()

	assert.True(t, strings.HasPrefix(code, "CR-"), "code %q should start with CR-", code)
	assert.Equal(t, code, strings.ToUpper(code))

	parts := strings.Split(code, "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 5)

	// Codes are unique in practice; two in a row must differ.
	assert.NotEqual(t, code, NewBookingCode())
}
