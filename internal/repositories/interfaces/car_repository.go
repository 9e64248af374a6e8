package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/utils"
)

type CarRepository interface {
	Create(ctx context.Context, car *models.Car) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Car, error)
	GetByLicensePlate(ctx context.Context, plate string) (*models.Car, error)
	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Car, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Search applies an arbitrary filter built by the service layer.
	Search(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Car, int64, error)

	AddImage(ctx context.Context, id primitive.ObjectID, image models.CarImage) error
	RemoveImage(ctx context.Context, id primitive.ObjectID, imageURL string) error

	// UpdateRating replaces the denormalized rating aggregate.
	UpdateRating(ctx context.Context, id primitive.ObjectID, rating models.CarRating) error
	IncrementBookingCount(ctx context.Context, id primitive.ObjectID) error
}
