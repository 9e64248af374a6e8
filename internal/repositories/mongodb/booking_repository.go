package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
)

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%s", utils.ErrBookingNotFound)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByCode(ctx context.Context, code string) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"booking_code": code}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%s", utils.ErrBookingNotFound)
		}
		return nil, fmt.Errorf("failed to get booking by code: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter, params)
}

func (r *bookingRepository) GetByCarIDs(ctx context.Context, carIDs []primitive.ObjectID, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	filter := bson.M{"car_id": bson.M{"$in": carIDs}}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter, params)
}

func (r *bookingRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s", utils.ErrBookingNotFound)
	}

	return nil
}

// GetBlockingForCar finds confirmed or active bookings whose [start, end)
// range overlaps the candidate range. The half-open comparison makes
// back-to-back rentals (one ends the day the next starts) compatible.
func (r *bookingRepository) GetBlockingForCar(ctx context.Context, carID primitive.ObjectID, dateRange models.DateRange) ([]*models.Booking, error) {
	filter := bson.M{
		"car_id":     carID,
		"status":     bson.M{"$in": []models.BookingStatus{models.BookingStatusConfirmed, models.BookingStatusActive}},
		"start_date": bson.M{"$lt": dateRange.End},
		"end_date":   bson.M{"$gt": dateRange.Start},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find blocking bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode blocking bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountBlockingForCar(ctx context.Context, carID primitive.ObjectID, after time.Time) (int64, error) {
	filter := bson.M{
		"car_id":   carID,
		"status":   bson.M{"$in": []models.BookingStatus{models.BookingStatusConfirmed, models.BookingStatusActive}},
		"end_date": bson.M{"$gt": after},
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count blocking bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) DistinctBookedCarIDs(ctx context.Context, dateRange models.DateRange) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"status":     bson.M{"$in": []models.BookingStatus{models.BookingStatusConfirmed, models.BookingStatusActive}},
		"start_date": bson.M{"$lt": dateRange.End},
		"end_date":   bson.M{"$gt": dateRange.Start},
	}

	values, err := r.collection.Distinct(ctx, "car_id", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find booked car IDs: %w", err)
	}

	carIDs := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			carIDs = append(carIDs, id)
		}
	}

	return carIDs, nil
}

func (r *bookingRepository) CompletedSince(ctx context.Context, carIDs []primitive.ObjectID, since time.Time) ([]*models.Booking, error) {
	filter := bson.M{
		"car_id":   bson.M{"$in": carIDs},
		"status":   models.BookingStatusCompleted,
		"end_date": bson.M{"$gte": since},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "end_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find completed bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode completed bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) find(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, total, nil
}
