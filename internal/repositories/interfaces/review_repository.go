package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/utils"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	GetByBookingID(ctx context.Context, bookingID primitive.ObjectID) (*models.Review, error)
	GetByCarID(ctx context.Context, carID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// RatingAggregate recomputes the average and count over a car's reviews.
	RatingAggregate(ctx context.Context, carID primitive.ObjectID) (models.CarRating, error)
}
