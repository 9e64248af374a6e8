package validators

import (
	"time"

	"gorent/internal/utils"
)

type BookingExtraRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=50"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"min=0"`
	Quantity       int    `json:"quantity" validate:"required,min=1,max=10"`
}

type AdditionalDriverRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	LicenseNumber string `json:"license_number" validate:"required,min=4,max=30"`
	Relationship  string `json:"relationship" validate:"omitempty,max=50"`
}

type CreateBookingRequest struct {
	CarID             string                    `json:"car_id" validate:"required,object_id"`
	StartDate         time.Time                 `json:"start_date" validate:"required"`
	EndDate           time.Time                 `json:"end_date" validate:"required"`
	PickupLocation    string                    `json:"pickup_location" validate:"required,min=2,max=200"`
	DropoffLocation   string                    `json:"dropoff_location" validate:"required,min=2,max=200"`
	InsuranceTier     string                    `json:"insurance_tier" validate:"omitempty,insurance_tier"`
	InsuranceCents    int64                     `json:"insurance_cents" validate:"omitempty,min=0"`
	Extras            []BookingExtraRequest     `json:"extras" validate:"omitempty,dive"`
	AdditionalDrivers []AdditionalDriverRequest `json:"additional_drivers" validate:"omitempty,max=3,dive"`
	SpecialRequests   string                    `json:"special_requests" validate:"omitempty,max=1000"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`

	// Handover metadata, only meaningful on the active and completed
	// transitions.
	Mileage   *int   `json:"mileage" validate:"omitempty,min=0"`
	FuelLevel string `json:"fuel_level" validate:"omitempty,fuel_level"`
}

type CancelBookingRequest struct {
	Reason            string `json:"reason" validate:"omitempty,max=500"`
	RefundAmountCents int64  `json:"refund_amount_cents" validate:"omitempty,min=0"`
}

func ValidateCreateBookingRequest(req *CreateBookingRequest) ValidationErrors {
	errs := ValidateStruct(req)

	if !req.StartDate.IsZero() && !req.EndDate.IsZero() {
		if !req.StartDate.Before(req.EndDate) {
			errs = append(errs, ValidationError{
				Field:   "EndDate",
				Tag:     "gtfield",
				Message: "end_date must be after start_date",
			})
		}
		if req.StartDate.Before(time.Now().Truncate(24 * time.Hour)) {
			errs = append(errs, ValidationError{
				Field:   "StartDate",
				Tag:     "future_date",
				Message: "start_date cannot be in the past",
			})
		}
		if days := req.EndDate.Sub(req.StartDate).Hours() / 24; days > float64(utils.MaxRentalDays) {
			errs = append(errs, ValidationError{
				Field:   "EndDate",
				Tag:     "max",
				Message: "Rental period cannot exceed 90 days",
			})
		}
	}

	if len(req.Extras) > utils.MaxExtrasPerBooking {
		errs = append(errs, ValidationError{
			Field:   "Extras",
			Tag:     "max",
			Message: "too many extras on booking",
		})
	}

	if req.InsuranceCents > 0 && req.InsuranceTier == "" {
		errs = append(errs, ValidationError{
			Field:   "InsuranceTier",
			Tag:     "required_with",
			Message: "insurance_tier is required when insurance_cents is set",
		})
	}

	return errs
}

func ValidateUpdateBookingStatusRequest(req *UpdateBookingStatusRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateCancelBookingRequest(req *CancelBookingRequest) ValidationErrors {
	return ValidateStruct(req)
}
