package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/pkg/logger"
	"gorent/pkg/payment"
)

var (
	ErrBookingNotPayable = errors.New("booking is not awaiting payment")
	ErrPaymentNotStarted = errors.New("no payment intent exists for this booking")
	ErrPaymentIncomplete = errors.New("payment has not completed")
)

type PaymentService interface {
	CreateIntent(ctx context.Context, actor Actor, bookingID primitive.ObjectID) (*payment.Intent, error)
	ConfirmPayment(ctx context.Context, actor Actor, bookingID primitive.ObjectID) (*models.Booking, error)
	RefundBooking(ctx context.Context, actor Actor, bookingID primitive.ObjectID, amountCents int64, reason string) (*payment.Refund, error)
}

type paymentService struct {
	bookingRepo interfaces.BookingRepository
	userRepo    interfaces.UserRepository
	bookings    BookingService
	provider    payment.Provider
	currency    string
	logger      *logger.Logger
}

func NewPaymentService(
	bookingRepo interfaces.BookingRepository,
	userRepo interfaces.UserRepository,
	bookings BookingService,
	provider payment.Provider,
	currency string,
	log *logger.Logger,
) PaymentService {
	return &paymentService{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		bookings:    bookings,
		provider:    provider,
		currency:    currency,
		logger:      log,
	}
}

func (s *paymentService) CreateIntent(ctx context.Context, actor Actor, bookingID primitive.ObjectID) (*payment.Intent, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusConfirmed {
		return nil, ErrBookingNotPayable
	}
	if booking.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrBookingNotPayable
	}

	intent, err := s.provider.CreateIntent(ctx, &payment.IntentRequest{
		AmountCents: booking.TotalAmountCents,
		Currency:    s.currency,
		Description: fmt.Sprintf("Car rental %s", booking.BookingCode),
		Metadata: map[string]string{
			"booking_id":   booking.ID.Hex(),
			"booking_code": booking.BookingCode,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Update(ctx, bookingID, map[string]interface{}{
		"payment_intent_id": intent.ID,
	}); err != nil {
		return nil, err
	}

	s.logger.LogPaymentEvent(bookingID, "intent_created", booking.TotalAmountCents, s.currency)

	return intent, nil
}

// ConfirmPayment verifies the intent with the gateway, confirms the booking
// through its state machine, marks it paid and awards loyalty points: one
// per ten dollars spent, rounded down. If a competing booking took the dates
// since the hold was placed, the payer gets the conflict error and the
// booking stays an unpaid pending hold.
func (s *paymentService) ConfirmPayment(ctx context.Context, actor Actor, bookingID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if booking.PaymentIntentID == "" {
		return nil, ErrPaymentNotStarted
	}
	if booking.PaymentStatus == models.PaymentStatusPaid {
		return booking, nil
	}

	intent, err := s.provider.GetIntent(ctx, booking.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if intent.Status != payment.IntentStatusSucceeded {
		return nil, ErrPaymentIncomplete
	}

	if _, err := s.bookings.ConfirmPaid(ctx, bookingID); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Update(ctx, bookingID, map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
	}); err != nil {
		return nil, err
	}

	points := booking.TotalAmountCents / utils.LoyaltyCentsPerPoint
	if points > 0 {
		if err := s.userRepo.AddLoyaltyPoints(ctx, booking.UserID, points); err != nil {
			s.logger.WithError(err).WithBookingID(bookingID).Warn("Failed to award loyalty points")
		}
	}

	s.logger.LogPaymentEvent(bookingID, "payment_confirmed", booking.TotalAmountCents, s.currency)

	return s.bookingRepo.GetByID(ctx, bookingID)
}

func (s *paymentService) RefundBooking(ctx context.Context, actor Actor, bookingID primitive.ObjectID, amountCents int64, reason string) (*payment.Refund, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && booking.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if booking.PaymentStatus != models.PaymentStatusPaid {
		return nil, ErrPaymentIncomplete
	}
	if amountCents > booking.TotalAmountCents {
		return nil, ErrRefundExceedsTotal
	}

	refund, err := s.provider.Refund(ctx, &payment.RefundRequest{
		IntentID:    booking.PaymentIntentID,
		AmountCents: amountCents,
		Reason:      reason,
	})
	if err != nil {
		return nil, err
	}

	paymentStatus := models.PaymentStatusPartialRefund
	if refund.AmountCents >= booking.TotalAmountCents {
		paymentStatus = models.PaymentStatusRefunded
	}

	if err := s.bookingRepo.Update(ctx, bookingID, map[string]interface{}{
		"payment_status":      paymentStatus,
		"refund_amount_cents": refund.AmountCents,
	}); err != nil {
		return nil, err
	}

	s.logger.LogPaymentEvent(bookingID, "refunded", refund.AmountCents, s.currency)

	return refund, nil
}
