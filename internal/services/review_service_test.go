package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/utils"
	"gorent/internal/validators"
)

type fakeReviewRepo struct {
	reviews map[primitive.ObjectID]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[primitive.ObjectID]*models.Review)}
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error {
	for _, r := range f.reviews {
		if r.BookingID == review.BookingID {
			return errors.New("booking already has a review")
		}
	}
	review.ID = primitive.NewObjectID()
	clone := *review
	f.reviews[review.ID] = &clone
	return nil
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, errors.New(utils.ErrReviewNotFound)
	}
	clone := *r
	return &clone, nil
}

func (f *fakeReviewRepo) GetByBookingID(ctx context.Context, bookingID primitive.ObjectID) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.BookingID == bookingID {
			clone := *r
			return &clone, nil
		}
	}
	return nil, errors.New(utils.ErrReviewNotFound)
}

func (f *fakeReviewRepo) GetByCarID(ctx context.Context, carID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	var out []*models.Review
	for _, r := range f.reviews {
		if r.CarID == carID {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReviewRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	var out []*models.Review
	for _, r := range f.reviews {
		if r.UserID == userID {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r, ok := f.reviews[id]
	if !ok {
		return errors.New(utils.ErrReviewNotFound)
	}
	if response, ok := updates["response"]; ok {
		r.Response = response.(*models.ReviewResponse)
	}
	if votes, ok := updates["helpful"]; ok {
		r.Helpful = votes.([]models.HelpfulVote)
	}
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.reviews[id]; !ok {
		return errors.New(utils.ErrReviewNotFound)
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) RatingAggregate(ctx context.Context, carID primitive.ObjectID) (models.CarRating, error) {
	var sum, count int64
	for _, r := range f.reviews {
		if r.CarID == carID {
			sum += int64(r.Rating)
			count++
		}
	}
	if count == 0 {
		return models.CarRating{}, nil
	}
	return models.CarRating{Average: float64(sum) / float64(count), Count: count}, nil
}

type reviewFixture struct {
	svc      ReviewService
	reviews  *fakeReviewRepo
	bookings *fakeBookingRepo
	cars     *fakeCarRepo
	car      *models.Car
	owner    Actor
	renter   Actor
	booking  *models.Booking
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	reviews := newFakeReviewRepo()
	bookings := newFakeBookingRepo()
	cars := newFakeCarRepo()

	owner := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleBusiness}
	renter := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleCustomer}

	car := &models.Car{
		Make:             "Honda",
		Model:            "Civic",
		Year:             2023,
		PricePerDayCents: 8000,
		OwnerID:          owner.UserID,
		IsAvailable:      true,
	}
	require.NoError(t, cars.Create(context.Background(), car))

	start, end := dates(0, 3)
	booking := &models.Booking{
		BookingCode:      models.NewBookingCode(),
		UserID:           renter.UserID,
		CarID:            car.ID,
		StartDate:        start,
		EndDate:          end,
		TotalAmountCents: 24000,
		Status:           models.BookingStatusCompleted,
		PaymentStatus:    models.PaymentStatusPaid,
	}
	require.NoError(t, bookings.Create(context.Background(), booking))

	return &reviewFixture{
		svc:      NewReviewService(reviews, bookings, cars, testLogger(t)),
		reviews:  reviews,
		bookings: bookings,
		cars:     cars,
		car:      car,
		owner:    owner,
		renter:   renter,
		booking:  booking,
	}
}

func reviewRequest(bookingID primitive.ObjectID) *validators.CreateReviewRequest {
	return &validators.CreateReviewRequest{
		BookingID: bookingID.Hex(),
		Rating:    4,
		Title:     "Smooth rental",
		Comment:   "Clean car, easy pickup and dropoff.",
	}
}

func TestReviewCreate(t *testing.T) {
	fx := newReviewFixture(t)
	ctx := context.Background()

	review, err := fx.svc.Create(ctx, fx.renter, reviewRequest(fx.booking.ID))
	require.NoError(t, err)

	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, fx.car.ID, review.CarID)
	assert.True(t, review.IsVerified)
}

func TestReviewCreateWithImages(t *testing.T) {
	fx := newReviewFixture(t)
	ctx := context.Background()

	req := reviewRequest(fx.booking.ID)
	req.Images = []validators.ReviewImageRequest{
		{URL: "https://cdn.example.com/r/1.jpg", Caption: "at pickup"},
		{URL: "https://cdn.example.com/r/2.jpg"},
	}

	review, err := fx.svc.Create(ctx, fx.renter, req)
	require.NoError(t, err)

	require.Len(t, review.Images, 2)
	assert.Equal(t, "https://cdn.example.com/r/1.jpg", review.Images[0].URL)
	assert.Equal(t, "at pickup", review.Images[0].Caption)
}

func TestReviewCreateOnlyRenter(t *testing.T) {
	fx := newReviewFixture(t)

	_, err := fx.svc.Create(context.Background(), fx.owner, reviewRequest(fx.booking.ID))
	assert.ErrorIs(t, err, ErrNotBookingRenter)
}

func TestReviewCreateRequiresCompletedBooking(t *testing.T) {
	fx := newReviewFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.bookings.Update(ctx, fx.booking.ID, map[string]interface{}{
		"status": models.BookingStatusActive,
	}))

	_, err := fx.svc.Create(ctx, fx.renter, reviewRequest(fx.booking.ID))
	assert.ErrorIs(t, err, ErrBookingNotCompleted)
}

func TestReviewCreateOncePerBooking(t *testing.T) {
	fx := newReviewFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, fx.renter, reviewRequest(fx.booking.ID))
	require.NoError(t, err)

	_, err = fx.svc.Create(ctx, fx.renter, reviewRequest(fx.booking.ID))
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestReviewRespond(t *testing.T) {
	fx := newReviewFixture(t)
	ctx := context.Background()

	review, err := fx.svc.Create(ctx, fx.renter, reviewRequest(fx.booking.ID))
	require.NoError(t, err)

	// Only the car owner may respond.
	_, err = fx.svc.Respond(ctx, fx.renter, review.ID, &validators.ReviewResponseRequest{Comment: "Thanks!"})
	assert.ErrorIs(t, err, ErrForbidden)

	responded, err := fx.svc.Respond(ctx, fx.owner, review.ID, &validators.ReviewResponseRequest{Comment: "Thanks for renting with us."})
	require.NoError(t, err)
	require.NotNil(t, responded.Response)
	assert.Equal(t, "Thanks for renting with us.", responded.Response.Text)
	assert.Equal(t, fx.owner.UserID, responded.Response.ResponderID)
}

func TestReviewMarkHelpfulDedupes(t *testing.T) {
	fx := newReviewFixture(t)
	ctx := context.Background()

	review, err := fx.svc.Create(ctx, fx.renter, reviewRequest(fx.booking.ID))
	require.NoError(t, err)

	voter := Actor{UserID: primitive.NewObjectID(), Role: models.UserRoleCustomer}
	require.NoError(t, fx.svc.MarkHelpful(ctx, voter, review.ID))
	require.NoError(t, fx.svc.MarkHelpful(ctx, voter, review.ID))

	reread, err := fx.reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Len(t, reread.Helpful, 1)
}

func TestReviewDelete(t *testing.T) {
	fx := newReviewFixture(t)
	ctx := context.Background()

	review, err := fx.svc.Create(ctx, fx.renter, reviewRequest(fx.booking.ID))
	require.NoError(t, err)

	// The car owner is not the author and may not delete.
	err = fx.svc.Delete(ctx, fx.owner, review.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, fx.svc.Delete(ctx, fx.renter, review.ID))

	_, err = fx.reviews.GetByID(ctx, review.ID)
	assert.Error(t, err)
}
