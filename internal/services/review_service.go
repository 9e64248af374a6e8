package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/internal/validators"
	"gorent/pkg/logger"
)

var (
	ErrBookingNotCompleted = errors.New("only completed bookings can be reviewed")
	ErrNotBookingRenter    = errors.New("only the renter may review the booking")
	ErrAlreadyReviewed     = errors.New("booking already has a review")
)

type ReviewService interface {
	Create(ctx context.Context, actor Actor, req *validators.CreateReviewRequest) (*models.Review, error)
	GetForCar(ctx context.Context, carID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	GetForUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	Respond(ctx context.Context, actor Actor, reviewID primitive.ObjectID, req *validators.ReviewResponseRequest) (*models.Review, error)
	MarkHelpful(ctx context.Context, actor Actor, reviewID primitive.ObjectID) error
	Delete(ctx context.Context, actor Actor, reviewID primitive.ObjectID) error
}

type reviewService struct {
	reviewRepo  interfaces.ReviewRepository
	bookingRepo interfaces.BookingRepository
	carRepo     interfaces.CarRepository
	logger      *logger.Logger
}

func NewReviewService(
	reviewRepo interfaces.ReviewRepository,
	bookingRepo interfaces.BookingRepository,
	carRepo interfaces.CarRepository,
	log *logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		logger:      log,
	}
}

// Create gates reviews on a completed booking by the same renter, one per
// booking. The car's denormalized rating is recomputed afterwards.
func (s *reviewService) Create(ctx context.Context, actor Actor, req *validators.CreateReviewRequest) (*models.Review, error) {
	bookingID, err := primitive.ObjectIDFromHex(req.BookingID)
	if err != nil {
		return nil, errors.New("invalid booking id")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != actor.UserID {
		return nil, ErrNotBookingRenter
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, ErrBookingNotCompleted
	}
	if _, err := s.reviewRepo.GetByBookingID(ctx, bookingID); err == nil {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		BookingID:  bookingID,
		CarID:      booking.CarID,
		UserID:     actor.UserID,
		Rating:     req.Rating,
		Title:      req.Title,
		Comment:    req.Comment,
		IsVerified: true, // tied to a real completed rental
	}

	if req.Aspects != nil {
		review.Aspects = &models.ReviewAspects{
			Cleanliness: req.Aspects.Cleanliness,
			Comfort:     req.Aspects.Comfort,
			Performance: req.Aspects.Performance,
			Value:       req.Aspects.Value,
		}
	}

	for _, img := range req.Images {
		review.Images = append(review.Images, models.ReviewImage{
			URL:     img.URL,
			Caption: img.Caption,
		})
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.refreshCarRating(ctx, booking.CarID)

	s.logger.WithBookingID(bookingID).WithCarID(booking.CarID).
		WithField("rating", req.Rating).Info("Review created")

	return review, nil
}

func (s *reviewService) GetForCar(ctx context.Context, carID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	return s.reviewRepo.GetByCarID(ctx, carID, params)
}

func (s *reviewService) GetForUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	return s.reviewRepo.GetByUserID(ctx, userID, params)
}

func (s *reviewService) Respond(ctx context.Context, actor Actor, reviewID primitive.ObjectID, req *validators.ReviewResponseRequest) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, review.CarID)
	if err != nil {
		return nil, err
	}

	if !CanRespondToReview(actor, car) {
		return nil, ErrForbidden
	}

	response := &models.ReviewResponse{
		Text:        req.Comment,
		Date:        time.Now(),
		ResponderID: actor.UserID,
	}

	if err := s.reviewRepo.Update(ctx, reviewID, map[string]interface{}{"response": response}); err != nil {
		return nil, err
	}

	return s.reviewRepo.GetByID(ctx, reviewID)
}

func (s *reviewService) MarkHelpful(ctx context.Context, actor Actor, reviewID primitive.ObjectID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	for _, vote := range review.Helpful {
		if vote.UserID == actor.UserID {
			return nil // already voted
		}
	}

	votes := append(review.Helpful, models.HelpfulVote{
		UserID: actor.UserID,
		Date:   time.Now(),
	})

	return s.reviewRepo.Update(ctx, reviewID, map[string]interface{}{"helpful": votes})
}

func (s *reviewService) Delete(ctx context.Context, actor Actor, reviewID primitive.ObjectID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if !CanManageReview(actor, review) {
		return ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.refreshCarRating(ctx, review.CarID)
	return nil
}

func (s *reviewService) refreshCarRating(ctx context.Context, carID primitive.ObjectID) {
	rating, err := s.reviewRepo.RatingAggregate(ctx, carID)
	if err != nil {
		s.logger.WithError(err).WithCarID(carID).Warn("Failed to aggregate car rating")
		return
	}
	if err := s.carRepo.UpdateRating(ctx, carID, rating); err != nil {
		s.logger.WithError(err).WithCarID(carID).Warn("Failed to update car rating")
	}
}
