package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/utils"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error)

	// AddLoyaltyPoints atomically increments the user's balance.
	AddLoyaltyPoints(ctx context.Context, id primitive.ObjectID, points int64) error

	// User base counters for the admin stats endpoint.
	CountByRole(ctx context.Context) (map[models.UserRole]int64, error)
	CountVerified(ctx context.Context) (int64, error)
	CountRegisteredSince(ctx context.Context, since time.Time) (int64, error)
}
