package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/utils"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	GetByCode(ctx context.Context, code string) (*models.Booking, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetByCarIDs(ctx context.Context, carIDs []primitive.ObjectID, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// GetBlockingForCar returns the bookings that make the car unavailable
	// for the given range: confirmed or active, with dates overlapping
	// [start, end).
	GetBlockingForCar(ctx context.Context, carID primitive.ObjectID, r models.DateRange) ([]*models.Booking, error)

	// CountBlockingForCar counts confirmed or active bookings ending after
	// now, regardless of range. Used to refuse deleting a car with upcoming
	// rentals.
	CountBlockingForCar(ctx context.Context, carID primitive.ObjectID, after time.Time) (int64, error)

	// DistinctBookedCarIDs returns the IDs of cars with a blocking booking
	// overlapping [start, end). Feeds the catalog date filter.
	DistinctBookedCarIDs(ctx context.Context, r models.DateRange) ([]primitive.ObjectID, error)

	// CompletedSince returns completed bookings for the owner's cars with
	// end dates in the window. Feeds the dashboard revenue buckets.
	CompletedSince(ctx context.Context, carIDs []primitive.ObjectID, since time.Time) ([]*models.Booking, error)
}
