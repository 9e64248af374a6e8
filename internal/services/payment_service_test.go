package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/utils"
	"gorent/pkg/payment"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New(utils.ErrUserNotFound)
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, errors.New(utils.ErrUserNotFound)
}

func (f *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	u, ok := f.users[id]
	if !ok {
		return errors.New(utils.ErrUserNotFound)
	}
	if password, ok := updates["password"]; ok {
		u.Password = password.(string)
	}
	if first, ok := updates["first_name"]; ok {
		u.FirstName = first.(string)
	}
	if phone, ok := updates["phone"]; ok {
		u.Phone = phone.(string)
	}
	if verified, ok := updates["is_verified"]; ok {
		u.IsVerified = verified.(bool)
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) AddLoyaltyPoints(ctx context.Context, id primitive.ObjectID, points int64) error {
	u, ok := f.users[id]
	if !ok {
		return errors.New(utils.ErrUserNotFound)
	}
	u.LoyaltyPoints += points
	return nil
}

func (f *fakeUserRepo) CountByRole(ctx context.Context) (map[models.UserRole]int64, error) {
	counts := make(map[models.UserRole]int64)
	for _, u := range f.users {
		counts[u.Role]++
	}
	return counts, nil
}

func (f *fakeUserRepo) CountVerified(ctx context.Context) (int64, error) {
	var count int64
	for _, u := range f.users {
		if u.IsVerified {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) CountRegisteredSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	for _, u := range f.users {
		if !u.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type paymentFixture struct {
	svc      PaymentService
	bookings *fakeBookingRepo
	users    *fakeUserRepo
	car      *models.Car
	renter   Actor
	booking  *models.Booking
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	bookings := newFakeBookingRepo()
	cars := newFakeCarRepo()
	users := newFakeUserRepo()

	renterUser := &models.User{Email: "renter@example.com"}
	require.NoError(t, users.Create(context.Background(), renterUser))
	renter := Actor{UserID: renterUser.ID, Role: models.UserRoleCustomer}

	car := &models.Car{
		Make:             "Skoda",
		Model:            "Octavia",
		Year:             2022,
		PricePerDayCents: 15000,
		OwnerID:          primitive.NewObjectID(),
		IsAvailable:      true,
	}
	require.NoError(t, cars.Create(context.Background(), car))

	start := time.Now().Add(48 * time.Hour)
	booking := &models.Booking{
		BookingCode:      models.NewBookingCode(),
		UserID:           renter.UserID,
		CarID:            car.ID,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, 3),
		TotalAmountCents: 45230,
		Status:           models.BookingStatusPending,
		PaymentStatus:    models.PaymentStatusPending,
	}
	require.NoError(t, bookings.Create(context.Background(), booking))

	bookingSvc := NewBookingService(bookings, cars, fakeTx{}, testLogger(t))

	return &paymentFixture{
		svc:      NewPaymentService(bookings, users, bookingSvc, payment.NewMockProvider(), "usd", testLogger(t)),
		bookings: bookings,
		users:    users,
		car:      car,
		renter:   renter,
		booking:  booking,
	}
}

func TestPaymentCreateIntent(t *testing.T) {
	fx := newPaymentFixture(t)
	ctx := context.Background()

	intent, err := fx.svc.CreateIntent(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(45230), intent.AmountCents)
	assert.Equal(t, "usd", intent.Currency)
	assert.NotEmpty(t, intent.ID)
	assert.NotEmpty(t, intent.ClientSecret)

	reread, err := fx.bookings.GetByID(ctx, fx.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, intent.ID, reread.PaymentIntentID)
}

func TestPaymentCreateIntentOnlyRenter(t *testing.T) {
	fx := newPaymentFixture(t)
	ctx := context.Background()

	stranger := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleCustomer}
	_, err := fx.svc.CreateIntent(ctx, stranger, fx.booking.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins can act on anyone's booking.
	admin := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleAdmin}
	_, err = fx.svc.CreateIntent(ctx, admin, fx.booking.ID)
	assert.NoError(t, err)
}

func TestPaymentCreateIntentRejectsUnpayable(t *testing.T) {
	fx := newPaymentFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.bookings.Update(ctx, fx.booking.ID, map[string]interface{}{
		"status": models.BookingStatusCancelled,
	}))

	_, err := fx.svc.CreateIntent(ctx, fx.renter, fx.booking.ID)
	assert.ErrorIs(t, err, ErrBookingNotPayable)
}

func TestPaymentConfirmAwardsLoyaltyPoints(t *testing.T) {
	fx := newPaymentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CreateIntent(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)

	confirmed, err := fx.svc.ConfirmPayment(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, confirmed.PaymentStatus)
	// Payment confirmation also drives pending -> confirmed, so the paid
	// booking blocks its dates.
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)

	// $452.30 earns 45 points, one per ten dollars rounded down.
	user, err := fx.users.GetByID(ctx, fx.renter.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(45), user.LoyaltyPoints)
}

func TestPaymentConfirmIsIdempotent(t *testing.T) {
	fx := newPaymentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CreateIntent(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)
	_, err = fx.svc.ConfirmPayment(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)

	// Confirming twice must not double the points.
	_, err = fx.svc.ConfirmPayment(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)

	user, err := fx.users.GetByID(ctx, fx.renter.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(45), user.LoyaltyPoints)
}

func TestPaymentConfirmWithoutIntent(t *testing.T) {
	fx := newPaymentFixture(t)

	_, err := fx.svc.ConfirmPayment(context.Background(), fx.renter, fx.booking.ID)
	assert.ErrorIs(t, err, ErrPaymentNotStarted)
}

func TestPaymentConfirmLosesDateRace(t *testing.T) {
	fx := newPaymentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CreateIntent(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)

	// Another booking takes the same dates while this one sits unpaid.
	require.NoError(t, fx.bookings.Create(ctx, &models.Booking{
		BookingCode: models.NewBookingCode(),
		UserID:      primitive.NewObjectID(),
		CarID:       fx.car.ID,
		StartDate:   fx.booking.StartDate,
		EndDate:     fx.booking.EndDate,
		Status:      models.BookingStatusConfirmed,
	}))

	_, err = fx.svc.ConfirmPayment(ctx, fx.renter, fx.booking.ID)
	assert.ErrorIs(t, err, models.ErrBookingConflict)

	// The loser stays an unpaid pending hold.
	reread, err := fx.bookings.GetByID(ctx, fx.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, reread.Status)
	assert.Equal(t, models.PaymentStatusPending, reread.PaymentStatus)
}

func TestPaymentConfirmAfterOwnerConfirm(t *testing.T) {
	fx := newPaymentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CreateIntent(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)

	// The owner confirmed before the payment cleared.
	require.NoError(t, fx.bookings.Update(ctx, fx.booking.ID, map[string]interface{}{
		"status": models.BookingStatusConfirmed,
	}))

	confirmed, err := fx.svc.ConfirmPayment(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)
	assert.Equal(t, models.PaymentStatusPaid, confirmed.PaymentStatus)
}

func TestPaymentRefund(t *testing.T) {
	fx := newPaymentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CreateIntent(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)
	_, err = fx.svc.ConfirmPayment(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)

	refund, err := fx.svc.RefundBooking(ctx, fx.renter, fx.booking.ID, 10000, "late pickup")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), refund.AmountCents)

	reread, err := fx.bookings.GetByID(ctx, fx.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartialRefund, reread.PaymentStatus)
	assert.Equal(t, int64(10000), reread.RefundAmountCents)
}

func TestPaymentRefundFullAmount(t *testing.T) {
	fx := newPaymentFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CreateIntent(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)
	_, err = fx.svc.ConfirmPayment(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)

	_, err = fx.svc.RefundBooking(ctx, fx.renter, fx.booking.ID, fx.booking.TotalAmountCents, "cancelled trip")
	require.NoError(t, err)

	reread, err := fx.bookings.GetByID(ctx, fx.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, reread.PaymentStatus)
}

func TestPaymentRefundGuards(t *testing.T) {
	fx := newPaymentFixture(t)
	ctx := context.Background()

	// Refund before payment.
	_, err := fx.svc.RefundBooking(ctx, fx.renter, fx.booking.ID, 1000, "")
	assert.ErrorIs(t, err, ErrPaymentIncomplete)

	_, err = fx.svc.CreateIntent(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)
	_, err = fx.svc.ConfirmPayment(ctx, fx.renter, fx.booking.ID)
	require.NoError(t, err)

	// Refund above the recorded total.
	_, err = fx.svc.RefundBooking(ctx, fx.renter, fx.booking.ID, fx.booking.TotalAmountCents+1, "")
	assert.ErrorIs(t, err, ErrRefundExceedsTotal)
}
