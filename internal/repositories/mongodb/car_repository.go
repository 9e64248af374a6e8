package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
)

type carRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewCarRepository(db *mongo.Database, cache CacheService) interfaces.CarRepository {
	return &carRepository{
		collection: db.Collection("cars"),
		cache:      cache,
	}
}

func (r *carRepository) Create(ctx context.Context, car *models.Car) error {
	car.ID = primitive.NewObjectID()
	car.LicensePlate = strings.ToUpper(strings.TrimSpace(car.LicensePlate))
	car.CreatedAt = time.Now()
	car.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, car)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s", utils.ErrPlateExists)
		}
		return fmt.Errorf("failed to create car: %w", err)
	}

	if car.IsAvailable {
		r.cacheCar(ctx, car)
	}

	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Car, error) {
	if car := r.getFromCache(ctx, id.Hex()); car != nil {
		return car, nil
	}

	var car models.Car
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&car)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%s", utils.ErrCarNotFound)
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}

	if car.IsAvailable {
		r.cacheCar(ctx, &car)
	}

	return &car, nil
}

func (r *carRepository) GetByLicensePlate(ctx context.Context, plate string) (*models.Car, error) {
	var car models.Car
	err := r.collection.FindOne(ctx, bson.M{"license_plate": strings.ToUpper(strings.TrimSpace(plate))}).Decode(&car)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%s", utils.ErrCarNotFound)
		}
		return nil, fmt.Errorf("failed to get car by license plate: %w", err)
	}

	return &car, nil
}

func (r *carRepository) GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Car, int64, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID}, params)
}

func (r *carRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	if plate, exists := updates["license_plate"]; exists {
		if plateStr, ok := plate.(string); ok {
			updates["license_plate"] = strings.ToUpper(strings.TrimSpace(plateStr))
		}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s", utils.ErrPlateExists)
		}
		return fmt.Errorf("failed to update car: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s", utils.ErrCarNotFound)
	}

	r.invalidate(ctx, id.Hex())
	return nil
}

func (r *carRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%s", utils.ErrCarNotFound)
	}

	r.invalidate(ctx, id.Hex())
	return nil
}

func (r *carRepository) Search(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Car, int64, error) {
	return r.find(ctx, filter, params)
}

func (r *carRepository) AddImage(ctx context.Context, id primitive.ObjectID, image models.CarImage) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"images": image},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add car image: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s", utils.ErrCarNotFound)
	}

	r.invalidate(ctx, id.Hex())
	return nil
}

func (r *carRepository) RemoveImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$pull": bson.M{"images": bson.M{"url": imageURL}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove car image: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s", utils.ErrCarNotFound)
	}

	r.invalidate(ctx, id.Hex())
	return nil
}

func (r *carRepository) UpdateRating(ctx context.Context, id primitive.ObjectID, rating models.CarRating) error {
	return r.Update(ctx, id, map[string]interface{}{"rating": rating})
}

func (r *carRepository) IncrementBookingCount(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"booking_count": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to increment booking count: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s", utils.ErrCarNotFound)
	}

	r.invalidate(ctx, id.Hex())
	return nil
}

func (r *carRepository) find(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Car, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find cars: %w", err)
	}
	defer cursor.Close(ctx)

	var cars []*models.Car
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, 0, fmt.Errorf("failed to decode cars: %w", err)
	}

	return cars, total, nil
}

func (r *carRepository) cacheCar(ctx context.Context, car *models.Car) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, utils.CacheCarPrefix+car.ID.Hex(), car, carCacheTTL)
}

func (r *carRepository) getFromCache(ctx context.Context, id string) *models.Car {
	if r.cache == nil {
		return nil
	}
	var car models.Car
	if err := r.cache.Get(ctx, utils.CacheCarPrefix+id, &car); err != nil {
		return nil
	}
	return &car
}

func (r *carRepository) invalidate(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, utils.CacheCarPrefix+id)
}
