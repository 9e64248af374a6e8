package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/internal/validators"
	"gorent/pkg/logger"
)

var (
	ErrForbidden            = errors.New(utils.ErrForbidden)
	ErrCancelNotAllowed     = errors.New("booking can only be cancelled while pending or confirmed")
	ErrRefundExceedsTotal   = errors.New("refund cannot exceed the booking total")
	ErrCarUnavailableListed = errors.New("car is not open for booking")
)

// TransactionRunner is the slice of database.MongoDB the booking service
// needs. Kept as an interface so tests can run the callback without a
// replica set.
type TransactionRunner interface {
	WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) (interface{}, error)) (interface{}, error)
}

type BookingService interface {
	Create(ctx context.Context, actor Actor, req *validators.CreateBookingRequest) (*models.Booking, error)
	GetByID(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.Booking, error)
	GetByCode(ctx context.Context, actor Actor, code string) (*models.Booking, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	ListForOwner(ctx context.Context, ownerID primitive.ObjectID, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdateBookingStatusRequest) (*models.Booking, error)
	ConfirmPaid(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	Cancel(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.CancelBookingRequest) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo interfaces.BookingRepository
	carRepo     interfaces.CarRepository
	tx          TransactionRunner
	logger      *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	carRepo interfaces.CarRepository,
	tx TransactionRunner,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		tx:          tx,
		logger:      log,
	}
}

// Create prices the rental and records it as pending. Availability is
// checked here for early feedback, then re-checked inside a transaction on
// confirmation, so a lost race surfaces at confirm time rather than as a
// double rental.
func (s *bookingService) Create(ctx context.Context, actor Actor, req *validators.CreateBookingRequest) (*models.Booking, error) {
	carID, err := primitive.ObjectIDFromHex(req.CarID)
	if err != nil {
		return nil, fmt.Errorf("invalid car id")
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if !car.IsAvailable {
		return nil, ErrCarUnavailableListed
	}

	dateRange := models.DateRange{Start: req.StartDate, End: req.EndDate}
	if !dateRange.IsValid() {
		return nil, fmt.Errorf("invalid date range")
	}

	blocking, err := s.bookingRepo.GetBlockingForCar(ctx, carID, dateRange)
	if err != nil {
		return nil, err
	}
	if !car.IsBookableFor(dateRange, blocking) {
		return nil, models.ErrBookingConflict
	}

	var insurance *models.InsuranceSelection
	if req.InsuranceTier != "" {
		insurance = &models.InsuranceSelection{
			Tier:      models.InsuranceTier(req.InsuranceTier),
			CostCents: req.InsuranceCents,
		}
	}

	extras := make([]models.BookingExtra, 0, len(req.Extras))
	for _, e := range req.Extras {
		extras = append(extras, models.BookingExtra{
			Name:           e.Name,
			UnitPriceCents: e.UnitPriceCents,
			Quantity:       e.Quantity,
		})
	}

	drivers := make([]models.AdditionalDriver, 0, len(req.AdditionalDrivers))
	for _, d := range req.AdditionalDrivers {
		drivers = append(drivers, models.AdditionalDriver{
			Name:          d.Name,
			LicenseNumber: d.LicenseNumber,
			Relationship:  d.Relationship,
		})
	}

	booking := &models.Booking{
		BookingCode:       models.NewBookingCode(),
		UserID:            actor.UserID,
		CarID:             carID,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		PickupLocation:    req.PickupLocation,
		DropoffLocation:   req.DropoffLocation,
		TotalAmountCents:  models.ComputeTotalCents(car.PricePerDayCents, dateRange, insurance, extras),
		Status:            models.BookingStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
		AdditionalDrivers: drivers,
		SpecialRequests:   req.SpecialRequests,
		Insurance:         insurance,
		Extras:            extras,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(booking.ID, "created", map[string]interface{}{
		"car_id":       carID.Hex(),
		"user_id":      actor.UserID.Hex(),
		"total_cents":  booking.TotalAmountCents,
		"booking_code": booking.BookingCode,
	})

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, booking.CarID)
	if err != nil {
		car = nil // car may have been delisted; renter can still view
	}

	if !CanViewBooking(actor, booking, car) {
		return nil, ErrForbidden
	}

	return booking, nil
}

func (s *bookingService) GetByCode(ctx context.Context, actor Actor, code string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, actor, booking.ID)
}

func (s *bookingService) ListForUser(ctx context.Context, userID primitive.ObjectID, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return s.bookingRepo.GetByUserID(ctx, userID, status, params)
}

func (s *bookingService) ListForOwner(ctx context.Context, ownerID primitive.ObjectID, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	cars, _, err := s.carRepo.GetByOwnerID(ctx, ownerID, &utils.PaginationParams{Page: 1, PageSize: utils.MaxPageSize, Sort: "created_at", Order: "desc"})
	if err != nil {
		return nil, 0, err
	}
	if len(cars) == 0 {
		return nil, 0, nil
	}

	carIDs := make([]primitive.ObjectID, len(cars))
	for i, c := range cars {
		carIDs[i] = c.ID
	}

	return s.bookingRepo.GetByCarIDs(ctx, carIDs, status, params)
}

func (s *bookingService) UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.UpdateBookingStatusRequest) (*models.Booking, error) {
	next := models.BookingStatus(req.Status)
	if next == models.BookingStatusCancelled {
		return s.Cancel(ctx, actor, id, &validators.CancelBookingRequest{})
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, booking.CarID)
	if err != nil {
		return nil, err
	}

	if !CanTransitionBooking(actor, booking, car, next) {
		return nil, ErrForbidden
	}

	if !booking.Status.CanTransitionTo(next) {
		return nil, &models.InvalidTransitionError{From: booking.Status, To: next}
	}

	if next == models.BookingStatusConfirmed {
		return s.confirm(ctx, booking, car)
	}

	updates := map[string]interface{}{"status": next}
	switch next {
	case models.BookingStatusActive:
		if req.Mileage != nil {
			updates["mileage_start"] = *req.Mileage
		}
		if req.FuelLevel != "" {
			updates["fuel_level_start"] = req.FuelLevel
		}
	case models.BookingStatusCompleted:
		if req.Mileage != nil {
			updates["mileage_end"] = *req.Mileage
		}
		if req.FuelLevel != "" {
			updates["fuel_level_end"] = req.FuelLevel
		}
	}

	if err := s.bookingRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(id, "status_changed", map[string]interface{}{
		"from": booking.Status,
		"to":   next,
	})

	return s.bookingRepo.GetByID(ctx, id)
}

// ConfirmPaid promotes a pending booking to confirmed once its payment has
// cleared. It runs the same transactional availability re-check as an owner
// confirm, so a paid booking that lost its dates surfaces the conflict to
// the payer instead of silently staying a hold. A booking the owner already
// confirmed passes through unchanged.
func (s *bookingService) ConfirmPaid(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != models.BookingStatusPending {
		if booking.Status.Blocks() {
			return booking, nil
		}
		return nil, &models.InvalidTransitionError{From: booking.Status, To: models.BookingStatusConfirmed}
	}

	car, err := s.carRepo.GetByID(ctx, booking.CarID)
	if err != nil {
		return nil, err
	}

	return s.confirm(ctx, booking, car)
}

// confirm re-checks availability and flips the status atomically. Two
// pending bookings for overlapping ranges can both exist; only one may win
// the confirm. The loser gets ErrBookingConflict and stays pending.
func (s *bookingService) confirm(ctx context.Context, booking *models.Booking, car *models.Car) (*models.Booking, error) {
	_, err := s.tx.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		blocking, err := s.bookingRepo.GetBlockingForCar(sessCtx, booking.CarID, booking.Range())
		if err != nil {
			return nil, err
		}
		if !car.IsBookableFor(booking.Range(), blocking) {
			return nil, models.ErrBookingConflict
		}

		if err := s.bookingRepo.Update(sessCtx, booking.ID, map[string]interface{}{
			"status": models.BookingStatusConfirmed,
		}); err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.carRepo.IncrementBookingCount(ctx, booking.CarID); err != nil {
		s.logger.WithError(err).WithCarID(booking.CarID).Warn("Failed to bump booking count")
	}

	s.logger.LogBookingEvent(booking.ID, "confirmed", map[string]interface{}{
		"car_id": booking.CarID.Hex(),
	})

	return s.bookingRepo.GetByID(ctx, booking.ID)
}

// Cancel is allowed from pending and confirmed only. The recorded total is
// preserved; the refund is tracked separately and may not exceed it.
func (s *bookingService) Cancel(ctx context.Context, actor Actor, id primitive.ObjectID, req *validators.CancelBookingRequest) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanCancelBooking(actor, booking) {
		return nil, ErrForbidden
	}

	if !booking.Status.CanTransitionTo(models.BookingStatusCancelled) {
		if booking.Status == models.BookingStatusActive || booking.Status.IsTerminal() {
			return nil, ErrCancelNotAllowed
		}
		return nil, &models.InvalidTransitionError{From: booking.Status, To: models.BookingStatusCancelled}
	}

	if req.RefundAmountCents > booking.TotalAmountCents {
		return nil, ErrRefundExceedsTotal
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":              models.BookingStatusCancelled,
		"cancellation_date":   now,
		"refund_amount_cents": req.RefundAmountCents,
	}
	if req.Reason != "" {
		updates["cancellation_reason"] = req.Reason
	}

	if err := s.bookingRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(id, "cancelled", map[string]interface{}{
		"reason":       req.Reason,
		"refund_cents": req.RefundAmountCents,
	})

	return s.bookingRepo.GetByID(ctx, id)
}
