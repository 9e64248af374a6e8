package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Blocks reports whether a booking in this status holds the car's dates.
// Pending bookings are holds, not locks: they never block other bookings but
// must pass a fresh availability check before being confirmed.
func (s BookingStatus) Blocks() bool {
	return s == BookingStatusConfirmed || s == BookingStatusActive
}

// IsTerminal reports whether no further transition is possible.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

var bookingTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending: {
		BookingStatusConfirmed: true,
		BookingStatusCancelled: true,
	},
	BookingStatusConfirmed: {
		BookingStatusActive:    true,
		BookingStatusCancelled: true,
	},
	BookingStatusActive: {
		BookingStatusCompleted: true,
	},
}

// CanTransitionTo reports whether the state machine permits s -> next.
// Same-state updates are not permitted; the machine never silently no-ops.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return bookingTransitions[s][next]
}

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusFailed        PaymentStatus = "failed"
	PaymentStatusRefunded      PaymentStatus = "refunded"
	PaymentStatusPartialRefund PaymentStatus = "partially_refunded"
)

type InsuranceTier string

const (
	InsuranceTierBasic         InsuranceTier = "basic"
	InsuranceTierPremium       InsuranceTier = "premium"
	InsuranceTierComprehensive InsuranceTier = "comprehensive"
)

// InsuranceSelection is a flat-cost insurance package. The cost comes from
// the catalog for the selected tier; it is not derived per day here.
type InsuranceSelection struct {
	Tier      InsuranceTier `json:"tier" bson:"tier"`
	CostCents int64         `json:"cost_cents" bson:"cost_cents"`
}

type BookingExtra struct {
	Name           string `json:"name" bson:"name"`
	UnitPriceCents int64  `json:"unit_price_cents" bson:"unit_price_cents"`
	Quantity       int    `json:"quantity" bson:"quantity"`
}

type AdditionalDriver struct {
	Name          string `json:"name" bson:"name"`
	LicenseNumber string `json:"license_number" bson:"license_number"`
	Relationship  string `json:"relationship" bson:"relationship"`
}

type FuelLevel string

const (
	FuelLevelEmpty         FuelLevel = "empty"
	FuelLevelQuarter       FuelLevel = "quarter"
	FuelLevelHalf          FuelLevel = "half"
	FuelLevelThreeQuarters FuelLevel = "three-quarters"
	FuelLevelFull          FuelLevel = "full"
)

type Booking struct {
	ID                 primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	BookingCode        string              `json:"booking_code" bson:"booking_code"`
	UserID             primitive.ObjectID  `json:"user_id" bson:"user_id"`
	CarID              primitive.ObjectID  `json:"car_id" bson:"car_id"`
	StartDate          time.Time           `json:"start_date" bson:"start_date"`
	EndDate            time.Time           `json:"end_date" bson:"end_date"`
	PickupLocation     string              `json:"pickup_location" bson:"pickup_location"`
	DropoffLocation    string              `json:"dropoff_location" bson:"dropoff_location"`
	TotalAmountCents   int64               `json:"total_amount_cents" bson:"total_amount_cents"`
	Status             BookingStatus       `json:"status" bson:"status"`
	PaymentStatus      PaymentStatus       `json:"payment_status" bson:"payment_status"`
	PaymentIntentID    string              `json:"payment_intent_id,omitempty" bson:"payment_intent_id,omitempty"`
	AdditionalDrivers  []AdditionalDriver  `json:"additional_drivers,omitempty" bson:"additional_drivers,omitempty"`
	SpecialRequests    string              `json:"special_requests,omitempty" bson:"special_requests,omitempty"`
	Insurance          *InsuranceSelection `json:"insurance,omitempty" bson:"insurance,omitempty"`
	Extras             []BookingExtra      `json:"extras,omitempty" bson:"extras,omitempty"`
	MileageStart       *int                `json:"mileage_start,omitempty" bson:"mileage_start,omitempty"`
	MileageEnd         *int                `json:"mileage_end,omitempty" bson:"mileage_end,omitempty"`
	FuelLevelStart     FuelLevel           `json:"fuel_level_start,omitempty" bson:"fuel_level_start,omitempty"`
	FuelLevelEnd       FuelLevel           `json:"fuel_level_end,omitempty" bson:"fuel_level_end,omitempty"`
	CancellationReason string              `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	CancellationDate   *time.Time          `json:"cancellation_date,omitempty" bson:"cancellation_date,omitempty"`
	RefundAmountCents  int64               `json:"refund_amount_cents" bson:"refund_amount_cents"`
	CreatedAt          time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at" bson:"updated_at"`
}

// Range returns the booking's half-open rental interval.
func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// Transition moves the booking to next, or fails with an
// InvalidTransitionError that leaves the booking untouched.
func (b *Booking) Transition(next BookingStatus) error {
	if !b.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: b.Status, To: next}
	}
	b.Status = next
	return nil
}

// DateRange is a half-open interval [Start, End): Start is inclusive, End is
// exclusive, so a booking ending at t and one starting at t never conflict.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsValid reports Start < End. Zero-length and inverted ranges are rejected
// here, before any availability or pricing logic runs.
func (r DateRange) IsValid() bool {
	return r.Start.Before(r.End)
}

// Overlaps implements the half-open interval test.
func (r DateRange) Overlaps(other DateRange) bool {
	return other.Start.Before(r.End) && other.End.After(r.Start)
}

// Days is the number of billable days: partial days round up to a full day.
func (r DateRange) Days() int64 {
	d := r.End.Sub(r.Start)
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// ComputeTotalCents prices a rental in integer cents to keep the arithmetic
// exact across currency amounts. Inputs are validated non-negative upstream.
func ComputeTotalCents(dailyRateCents int64, r DateRange, insurance *InsuranceSelection, extras []BookingExtra) int64 {
	total := dailyRateCents * r.Days()
	if insurance != nil {
		total += insurance.CostCents
	}
	for _, extra := range extras {
		total += extra.UnitPriceCents * int64(extra.Quantity)
	}
	return total
}

const bookingCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewBookingCode generates a customer-facing booking reference like
// CR-MDQ3K2P1-X7F4A.
func NewBookingCode() string {
	suffix := make([]byte, 5)
	max := big.NewInt(int64(len(bookingCodeCharset)))
	for i := range suffix {
		n, _ := rand.Int(rand.Reader, max)
		suffix[i] = bookingCodeCharset[n.Int64()]
	}
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return fmt.Sprintf("CR-%s-%s", ts, string(suffix))
}
