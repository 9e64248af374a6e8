package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/validators"
)

func newCarService(t *testing.T, cars *fakeCarRepo, bookings *fakeBookingRepo) CarService {
	t.Helper()
	return NewCarService(cars, bookings, nil, testLogger(t))
}

func carRequest() *validators.CreateCarRequest {
	return &validators.CreateCarRequest{
		Make:             "Mazda",
		Model:            "3",
		Year:             2023,
		Category:         "compact",
		Transmission:     "automatic",
		FuelType:         "gasoline",
		Seats:            5,
		PricePerDayCents: 6500,
		Location:         "Berlin",
		LicensePlate:     "B-RT 1234",
	}
}

func TestCarCreateRequiresBusinessAccount(t *testing.T) {
	svc := newCarService(t, newFakeCarRepo(), newFakeBookingRepo())
	ctx := context.Background()

	customer := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleCustomer}
	_, err := svc.Create(ctx, customer, carRequest())
	assert.ErrorIs(t, err, ErrBusinessOnly)

	business := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleBusiness}
	car, err := svc.Create(ctx, business, carRequest())
	require.NoError(t, err)
	assert.Equal(t, business.UserID, car.OwnerID)
	assert.True(t, car.IsAvailable)
}

func TestCarDeleteRefusedWithUpcomingBookings(t *testing.T) {
	cars := newFakeCarRepo()
	bookings := newFakeBookingRepo()
	svc := newCarService(t, cars, bookings)
	ctx := context.Background()

	owner := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleBusiness}
	car, err := svc.Create(ctx, owner, carRequest())
	require.NoError(t, err)

	start, end := dates(5, 8)
	require.NoError(t, bookings.Create(ctx, &models.Booking{
		CarID:     car.ID,
		UserID:    primitive.NewObjectID(),
		StartDate: start,
		EndDate:   end,
		Status:    models.BookingStatusConfirmed,
	}))

	err = svc.Delete(ctx, owner, car.ID)
	assert.ErrorIs(t, err, ErrCarHasBookings)

	// A stranger cannot delete regardless.
	stranger := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleBusiness}
	err = svc.Delete(ctx, stranger, car.ID)
	assert.ErrorIs(t, err, ErrNotCarOwner)
}

func TestCarCheckAvailability(t *testing.T) {
	cars := newFakeCarRepo()
	bookings := newFakeBookingRepo()
	svc := newCarService(t, cars, bookings)
	ctx := context.Background()

	owner := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleBusiness}
	car, err := svc.Create(ctx, owner, carRequest())
	require.NoError(t, err)

	start, end := dates(2, 5)
	require.NoError(t, bookings.Create(ctx, &models.Booking{
		CarID:     car.ID,
		UserID:    primitive.NewObjectID(),
		StartDate: start,
		EndDate:   end,
		Status:    models.BookingStatusConfirmed,
	}))

	s, e := dates(3, 6)
	available, err := svc.CheckAvailability(ctx, car.ID, models.DateRange{Start: s, End: e})
	require.NoError(t, err)
	assert.False(t, available)

	// The day the blocking booking ends, the next rental may start.
	s, e = dates(5, 8)
	available, err = svc.CheckAvailability(ctx, car.ID, models.DateRange{Start: s, End: e})
	require.NoError(t, err)
	assert.True(t, available)
}

func TestCarQuote(t *testing.T) {
	cars := newFakeCarRepo()
	svc := newCarService(t, cars, newFakeBookingRepo())
	ctx := context.Background()

	owner := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleBusiness}
	car, err := svc.Create(ctx, owner, carRequest())
	require.NoError(t, err)

	s, e := dates(0, 4)
	quote, err := svc.Quote(ctx, car.ID, models.DateRange{Start: s, End: e})
	require.NoError(t, err)
	assert.Equal(t, int64(26000), quote)

	// Reversed range is rejected.
	_, err = svc.Quote(ctx, car.ID, models.DateRange{Start: e, End: s})
	assert.Error(t, err)
}

func TestCarUpdateOwnerOnly(t *testing.T) {
	cars := newFakeCarRepo()
	svc := newCarService(t, cars, newFakeBookingRepo())
	ctx := context.Background()

	owner := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleBusiness}
	car, err := svc.Create(ctx, owner, carRequest())
	require.NoError(t, err)

	newPrice := int64(7200)
	stranger := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleBusiness}
	_, err = svc.Update(ctx, stranger, car.ID, &validators.UpdateCarRequest{PricePerDayCents: &newPrice})
	assert.ErrorIs(t, err, ErrNotCarOwner)

	// Admins may manage any listing.
	admin := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleAdmin}
	_, err = svc.Update(ctx, admin, car.ID, &validators.UpdateCarRequest{PricePerDayCents: &newPrice})
	assert.NoError(t, err)
}
