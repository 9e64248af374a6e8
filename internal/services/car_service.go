package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/internal/validators"
	"gorent/pkg/logger"
	"gorent/pkg/storage"
)

var (
	ErrNotCarOwner    = errors.New("only the car owner may perform this action")
	ErrCarHasBookings = errors.New("car has upcoming bookings and cannot be removed")
	ErrBusinessOnly   = errors.New("only business accounts may list cars")
)

type CarService interface {
	Create(ctx context.Context, actor Actor, req *validators.CreateCarRequest) (*models.Car, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Car, error)
	Search(ctx context.Context, req *validators.SearchCarsRequest, params *utils.PaginationParams) ([]*models.Car, int64, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Car, int64, error)
	Update(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdateCarRequest) (*models.Car, error)
	Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error
	CheckAvailability(ctx context.Context, carID primitive.ObjectID, r models.DateRange) (bool, error)
	Quote(ctx context.Context, carID primitive.ObjectID, r models.DateRange) (int64, error)
	UploadImage(ctx context.Context, actor Actor, carID primitive.ObjectID, upload *storage.UploadRequest, isPrimary bool) (*models.CarImage, error)
	RemoveImage(ctx context.Context, actor Actor, carID primitive.ObjectID, imageURL string) error
}

type carService struct {
	carRepo     interfaces.CarRepository
	bookingRepo interfaces.BookingRepository
	storage     storage.Provider
	logger      *logger.Logger
}

func NewCarService(
	carRepo interfaces.CarRepository,
	bookingRepo interfaces.BookingRepository,
	storageProvider storage.Provider,
	log *logger.Logger,
) CarService {
	return &carService{
		carRepo:     carRepo,
		bookingRepo: bookingRepo,
		storage:     storageProvider,
		logger:      log,
	}
}

func (s *carService) Create(ctx context.Context, actor Actor, req *validators.CreateCarRequest) (*models.Car, error) {
	if !CanCreateCar(actor) {
		return nil, ErrBusinessOnly
	}

	car := &models.Car{
		Make:             req.Make,
		Model:            req.Model,
		Year:             req.Year,
		Category:         models.CarCategory(req.Category),
		Transmission:     models.Transmission(req.Transmission),
		FuelType:         models.FuelType(req.FuelType),
		Seats:            req.Seats,
		PricePerDayCents: req.PricePerDayCents,
		Location:         req.Location,
		Description:      req.Description,
		Features:         req.Features,
		Mileage:          req.Mileage,
		LicensePlate:     req.LicensePlate,
		OwnerID:          actor.UserID,
		IsAvailable:      true,
	}

	if err := s.carRepo.Create(ctx, car); err != nil {
		return nil, err
	}

	s.logger.WithCarID(car.ID).WithUserID(actor.UserID).Info("Car listed")
	return car, nil
}

func (s *carService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Car, error) {
	return s.carRepo.GetByID(ctx, id)
}

func (s *carService) Search(ctx context.Context, req *validators.SearchCarsRequest, params *utils.PaginationParams) ([]*models.Car, int64, error) {
	filter := bson.M{"is_available": true}

	if req.Category != "" {
		filter["category"] = req.Category
	}
	if req.Transmission != "" {
		filter["transmission"] = req.Transmission
	}
	if req.FuelType != "" {
		filter["fuel_type"] = req.FuelType
	}
	if req.Location != "" {
		filter["location"] = bson.M{"$regex": req.Location, "$options": "i"}
	}
	if req.MinSeats > 0 {
		filter["seats"] = bson.M{"$gte": req.MinSeats}
	}

	price := bson.M{}
	if req.MinPrice > 0 {
		price["$gte"] = req.MinPrice
	}
	if req.MaxPrice > 0 {
		price["$lte"] = req.MaxPrice
	}
	if len(price) > 0 {
		filter["price_per_day_cents"] = price
	}

	if req.Query != "" {
		filter["$or"] = []bson.M{
			{"make": bson.M{"$regex": req.Query, "$options": "i"}},
			{"model": bson.M{"$regex": req.Query, "$options": "i"}},
		}
	}

	// Date filter: exclude cars with a confirmed or active booking
	// overlapping [start, end).
	if req.StartDate != nil && req.EndDate != nil {
		bookedIDs, err := s.bookingRepo.DistinctBookedCarIDs(ctx, models.DateRange{
			Start: *req.StartDate,
			End:   *req.EndDate,
		})
		if err != nil {
			return nil, 0, err
		}
		if len(bookedIDs) > 0 {
			filter["_id"] = bson.M{"$nin": bookedIDs}
		}
	}

	return s.carRepo.Search(ctx, filter, params)
}

func (s *carService) GetByOwner(ctx context.Context, ownerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Car, int64, error) {
	return s.carRepo.GetByOwnerID(ctx, ownerID, params)
}

func (s *carService) Update(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdateCarRequest) (*models.Car, error) {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanManageCar(actor, car) {
		return nil, ErrNotCarOwner
	}

	updates := make(map[string]interface{})
	if req.Make != nil {
		updates["make"] = *req.Make
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Transmission != nil {
		updates["transmission"] = *req.Transmission
	}
	if req.FuelType != nil {
		updates["fuel_type"] = *req.FuelType
	}
	if req.Seats != nil {
		updates["seats"] = *req.Seats
	}
	if req.PricePerDayCents != nil {
		updates["price_per_day_cents"] = *req.PricePerDayCents
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Features != nil {
		updates["features"] = req.Features
	}
	if req.Mileage != nil {
		updates["mileage"] = *req.Mileage
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if len(updates) > 0 {
		if err := s.carRepo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.carRepo.GetByID(ctx, id)
}

func (s *carService) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanManageCar(actor, car) {
		return ErrNotCarOwner
	}

	upcoming, err := s.bookingRepo.CountBlockingForCar(ctx, id, time.Now())
	if err != nil {
		return err
	}
	if upcoming > 0 {
		return ErrCarHasBookings
	}

	if err := s.carRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithCarID(id).WithUserID(actor.UserID).Info("Car removed")
	return nil
}

// CheckAvailability answers whether the car can take [start, end). Loads the
// blocking bookings and defers the decision to the model.
func (s *carService) CheckAvailability(ctx context.Context, carID primitive.ObjectID, r models.DateRange) (bool, error) {
	if !r.IsValid() {
		return false, fmt.Errorf("invalid date range")
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return false, err
	}

	blocking, err := s.bookingRepo.GetBlockingForCar(ctx, carID, r)
	if err != nil {
		return false, err
	}

	return car.IsBookableFor(r, blocking), nil
}

// Quote prices the range without creating anything. Insurance and extras are
// added at booking time.
func (s *carService) Quote(ctx context.Context, carID primitive.ObjectID, r models.DateRange) (int64, error) {
	if !r.IsValid() {
		return 0, fmt.Errorf("invalid date range")
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return 0, err
	}

	return models.ComputeTotalCents(car.PricePerDayCents, r, nil, nil), nil
}

func (s *carService) UploadImage(ctx context.Context, actor Actor, carID primitive.ObjectID, upload *storage.UploadRequest, isPrimary bool) (*models.CarImage, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	if !CanManageCar(actor, car) {
		return nil, ErrNotCarOwner
	}

	resp, err := s.storage.Upload(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	image := models.CarImage{
		URL:       resp.URL,
		Alt:       car.DisplayName(),
		IsPrimary: isPrimary,
	}

	if err := s.carRepo.AddImage(ctx, carID, image); err != nil {
		return nil, err
	}

	return &image, nil
}

func (s *carService) RemoveImage(ctx context.Context, actor Actor, carID primitive.ObjectID, imageURL string) error {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return err
	}

	if !CanManageCar(actor, car) {
		return ErrNotCarOwner
	}

	return s.carRepo.RemoveImage(ctx, carID, imageURL)
}
