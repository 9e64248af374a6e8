package validators

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("car_category", validateCarCategory)
	validate.RegisterValidation("transmission_type", validateTransmission)
	validate.RegisterValidation("fuel_type", validateFuelType)
	validate.RegisterValidation("insurance_tier", validateInsuranceTier)
	validate.RegisterValidation("fuel_level", validateFuelLevel)
	validate.RegisterValidation("car_feature", validateCarFeature)
	validate.RegisterValidation("license_plate", validateLicensePlate)
	validate.RegisterValidation("booking_status", validateBookingStatus)
	validate.RegisterValidation("future_date", validateFutureDate)
}

// ValidationError represents a single field validation failure. These are
// surfaced to the caller verbatim and never recovered automatically.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Details flattens the errors into a field -> message map for the API
// envelope.
func (v ValidationErrors) Details() map[string]string {
	details := make(map[string]string, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

// ValidateStruct runs tag validation and returns detailed errors.
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fieldErr.Field(),
				Tag:     fieldErr.Tag(),
				Message: errorMessage(fieldErr),
			})
		}
	}

	return validationErrors
}

func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "object_id":
		return "Invalid ID format"
	case "car_category":
		return "Invalid car category"
	case "transmission_type":
		return "Transmission must be automatic or manual"
	case "fuel_type":
		return "Invalid fuel type"
	case "insurance_tier":
		return "Insurance tier must be basic, premium or comprehensive"
	case "fuel_level":
		return "Invalid fuel level"
	case "car_feature":
		return "Unknown car feature"
	case "license_plate":
		return "Invalid license plate format"
	case "booking_status":
		return "Invalid booking status"
	case "future_date":
		return "Date must be in the future"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // let the required tag handle empty values
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

func validateCarCategory(fl validator.FieldLevel) bool {
	switch models.CarCategory(fl.Field().String()) {
	case models.CarCategoryEconomy, models.CarCategoryCompact, models.CarCategoryMidsize,
		models.CarCategoryFullsize, models.CarCategoryLuxury, models.CarCategorySUV,
		models.CarCategoryConvertible, models.CarCategoryTruck:
		return true
	}
	return false
}

func validateTransmission(fl validator.FieldLevel) bool {
	t := models.Transmission(fl.Field().String())
	return t == models.TransmissionAutomatic || t == models.TransmissionManual
}

func validateFuelType(fl validator.FieldLevel) bool {
	switch models.FuelType(fl.Field().String()) {
	case models.FuelTypeGasoline, models.FuelTypeDiesel, models.FuelTypeHybrid, models.FuelTypeElectric:
		return true
	}
	return false
}

func validateInsuranceTier(fl validator.FieldLevel) bool {
	switch models.InsuranceTier(fl.Field().String()) {
	case models.InsuranceTierBasic, models.InsuranceTierPremium, models.InsuranceTierComprehensive:
		return true
	}
	return false
}

func validateFuelLevel(fl validator.FieldLevel) bool {
	switch models.FuelLevel(fl.Field().String()) {
	case models.FuelLevelEmpty, models.FuelLevelQuarter, models.FuelLevelHalf,
		models.FuelLevelThreeQuarters, models.FuelLevelFull:
		return true
	}
	return false
}

func validateCarFeature(fl validator.FieldLevel) bool {
	return models.IsValidCarFeature(fl.Field().String())
}

var licensePlatePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]{1,9}$`)

func validateLicensePlate(fl validator.FieldLevel) bool {
	return licensePlatePattern.MatchString(fl.Field().String())
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	switch models.BookingStatus(fl.Field().String()) {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusActive,
		models.BookingStatusCompleted, models.BookingStatusCancelled:
		return true
	}
	return false
}

func validateFutureDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.After(time.Now())
}
