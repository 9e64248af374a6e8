package validators

import (
	"time"

	"gorent/internal/utils"
)

type CreateCarRequest struct {
	Make             string   `json:"make" validate:"required,min=2,max=50"`
	Model            string   `json:"model" validate:"required,min=1,max=50"`
	Year             int      `json:"year" validate:"required,min=1990"`
	Category         string   `json:"category" validate:"required,car_category"`
	Transmission     string   `json:"transmission" validate:"required,transmission_type"`
	FuelType         string   `json:"fuel_type" validate:"required,fuel_type"`
	Seats            int      `json:"seats" validate:"required,min=2,max=8"`
	PricePerDayCents int64    `json:"price_per_day_cents" validate:"required,min=1"`
	LicensePlate     string   `json:"license_plate" validate:"required,license_plate"`
	Location         string   `json:"location" validate:"required,min=2,max=100"`
	Description      string   `json:"description" validate:"omitempty,max=2000"`
	Features         []string `json:"features" validate:"omitempty,dive,car_feature"`
	Mileage          int      `json:"mileage" validate:"omitempty,min=0"`
}

type UpdateCarRequest struct {
	Make             *string  `json:"make" validate:"omitempty,min=2,max=50"`
	Model            *string  `json:"model" validate:"omitempty,min=1,max=50"`
	Year             *int     `json:"year" validate:"omitempty,min=1990"`
	Category         *string  `json:"category" validate:"omitempty,car_category"`
	Transmission     *string  `json:"transmission" validate:"omitempty,transmission_type"`
	FuelType         *string  `json:"fuel_type" validate:"omitempty,fuel_type"`
	Seats            *int     `json:"seats" validate:"omitempty,min=2,max=8"`
	PricePerDayCents *int64   `json:"price_per_day_cents" validate:"omitempty,min=1"`
	Location         *string  `json:"location" validate:"omitempty,min=2,max=100"`
	Description      *string  `json:"description" validate:"omitempty,max=2000"`
	Features         []string `json:"features" validate:"omitempty,dive,car_feature"`
	Mileage          *int     `json:"mileage" validate:"omitempty,min=0"`
	IsAvailable      *bool    `json:"is_available"`
}

// SearchCarsRequest carries the catalog filters. Dates are optional; when
// both are present cars with a blocking booking in [start, end) are
// excluded from results.
type SearchCarsRequest struct {
	Category     string     `form:"category" validate:"omitempty,car_category"`
	Transmission string     `form:"transmission" validate:"omitempty,transmission_type"`
	FuelType     string     `form:"fuel_type" validate:"omitempty,fuel_type"`
	Location     string     `form:"location" validate:"omitempty,max=100"`
	MinSeats     int        `form:"min_seats" validate:"omitempty,min=2,max=8"`
	MinPrice     int64      `form:"min_price_cents" validate:"omitempty,min=0"`
	MaxPrice     int64      `form:"max_price_cents" validate:"omitempty,min=0"`
	StartDate    *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate      *time.Time `form:"end_date" time_format:"2006-01-02"`
	Query        string     `form:"q" validate:"omitempty,max=100"`
}

func ValidateCreateCarRequest(req *CreateCarRequest) ValidationErrors {
	errs := ValidateStruct(req)
	if req.Year > time.Now().Year()+1 {
		errs = append(errs, ValidationError{
			Field:   "Year",
			Tag:     "max",
			Message: "Year cannot be in the future",
		})
	}
	return errs
}

func ValidateUpdateCarRequest(req *UpdateCarRequest) ValidationErrors {
	errs := ValidateStruct(req)
	if req.Year != nil && *req.Year > time.Now().Year()+1 {
		errs = append(errs, ValidationError{
			Field:   "Year",
			Tag:     "max",
			Message: "Year cannot be in the future",
		})
	}
	return errs
}

func ValidateSearchCarsRequest(req *SearchCarsRequest) ValidationErrors {
	errs := ValidateStruct(req)

	if req.MinPrice > 0 && req.MaxPrice > 0 && req.MinPrice > req.MaxPrice {
		errs = append(errs, ValidationError{
			Field:   "MaxPrice",
			Tag:     "gtefield",
			Message: "max_price_cents must be greater than min_price_cents",
		})
	}

	// A date filter is all-or-nothing; a lone start or end date is ambiguous.
	if (req.StartDate == nil) != (req.EndDate == nil) {
		errs = append(errs, ValidationError{
			Field:   "StartDate",
			Tag:     "required_with",
			Message: "start_date and end_date must be provided together",
		})
	}
	if req.StartDate != nil && req.EndDate != nil {
		if !req.StartDate.Before(*req.EndDate) {
			errs = append(errs, ValidationError{
				Field:   "EndDate",
				Tag:     "gtfield",
				Message: "end_date must be after start_date",
			})
		}
		if days := int(req.EndDate.Sub(*req.StartDate).Hours() / 24); days > utils.MaxRentalDays {
			errs = append(errs, ValidationError{
				Field:   "EndDate",
				Tag:     "max",
				Message: "Rental period cannot exceed 90 days",
			})
		}
	}

	return errs
}
