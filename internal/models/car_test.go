package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bookingIn(status BookingStatus, start, end int) *Booking {
	return &Booking{
		Status:    status,
		StartDate: day(start),
		EndDate:   day(end),
	}
}

func TestCarIsBookableFor(t *testing.T) {
	car := &Car{IsAvailable: true}

	t.Run("no bookings means available", func(t *testing.T) {
		assert.True(t, car.IsBookableFor(rangeDays(0, 3), nil))
		assert.True(t, car.IsBookableFor(rangeDays(0, 3), []*Booking{}))
	})

	t.Run("confirmed overlap blocks", func(t *testing.T) {
		existing := []*Booking{bookingIn(BookingStatusConfirmed, 1, 4)}
		assert.False(t, car.IsBookableFor(rangeDays(0, 3), existing))
	})

	t.Run("active overlap blocks", func(t *testing.T) {
		existing := []*Booking{bookingIn(BookingStatusActive, 2, 5)}
		assert.False(t, car.IsBookableFor(rangeDays(0, 3), existing))
	})

	t.Run("pending overlap does not block", func(t *testing.T) {
		existing := []*Booking{bookingIn(BookingStatusPending, 0, 3)}
		assert.True(t, car.IsBookableFor(rangeDays(0, 3), existing))
	})

	t.Run("completed and cancelled do not block", func(t *testing.T) {
		existing := []*Booking{
			bookingIn(BookingStatusCompleted, 0, 3),
			bookingIn(BookingStatusCancelled, 1, 4),
		}
		assert.True(t, car.IsBookableFor(rangeDays(0, 3), existing))
	})

	t.Run("back to back is allowed", func(t *testing.T) {
		existing := []*Booking{bookingIn(BookingStatusConfirmed, 3, 6)}
		assert.True(t, car.IsBookableFor(rangeDays(0, 3), existing))

		existing = []*Booking{bookingIn(BookingStatusConfirmed, 0, 3)}
		assert.True(t, car.IsBookableFor(rangeDays(3, 6), existing))
	})

	t.Run("order of existing bookings is irrelevant", func(t *testing.T) {
		forward := []*Booking{
			bookingIn(BookingStatusCancelled, 0, 3),
			bookingIn(BookingStatusConfirmed, 2, 5),
			bookingIn(BookingStatusPending, 1, 4),
		}
		backward := []*Booking{forward[2], forward[1], forward[0]}

		assert.Equal(t,
			car.IsBookableFor(rangeDays(0, 3), forward),
			car.IsBookableFor(rangeDays(0, 3), backward))
	})

	t.Run("unlisted car is never bookable", func(t *testing.T) {
		delisted := &Car{IsAvailable: false}
		assert.False(t, delisted.IsBookableFor(rangeDays(0, 3), nil))
	})
}

func TestCarDisplayName(t *testing.T) {
	car := &Car{Make: "Toyota", Model: "Corolla", Year: 2022}
	assert.Equal(t, "2022 Toyota Corolla", car.DisplayName())
}

func TestIsValidCarFeature(t *testing.T) {
	assert.True(t, IsValidCarFeature("gps"))
	assert.True(t, IsValidCarFeature("child_seat"))
	assert.False(t, IsValidCarFeature("rocket_booster"))
	assert.False(t, IsValidCarFeature(""))
}
