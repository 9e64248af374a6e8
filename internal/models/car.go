package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CarCategory string

const (
	CarCategoryEconomy     CarCategory = "economy"
	CarCategoryCompact     CarCategory = "compact"
	CarCategoryMidsize     CarCategory = "midsize"
	CarCategoryFullsize    CarCategory = "fullsize"
	CarCategoryLuxury      CarCategory = "luxury"
	CarCategorySUV         CarCategory = "suv"
	CarCategoryConvertible CarCategory = "convertible"
	CarCategoryTruck       CarCategory = "truck"
)

type Transmission string

const (
	TransmissionAutomatic Transmission = "automatic"
	TransmissionManual    Transmission = "manual"
)

type FuelType string

const (
	FuelTypeGasoline FuelType = "gasoline"
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeHybrid   FuelType = "hybrid"
	FuelTypeElectric FuelType = "electric"
)

type CarImage struct {
	URL       string `json:"url" bson:"url"`
	Alt       string `json:"alt" bson:"alt"`
	IsPrimary bool   `json:"is_primary" bson:"is_primary"`
}

type CarInsurance struct {
	Provider     string    `json:"provider" bson:"provider"`
	PolicyNumber string    `json:"policy_number" bson:"policy_number"`
	ExpiryDate   time.Time `json:"expiry_date" bson:"expiry_date"`
}

type CarMaintenance struct {
	LastService time.Time `json:"last_service" bson:"last_service"`
	NextService time.Time `json:"next_service" bson:"next_service"`
}

type CarRating struct {
	Average float64 `json:"average" bson:"average"`
	Count   int64   `json:"count" bson:"count"`
}

type Car struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Make             string             `json:"make" bson:"make"`
	Model            string             `json:"model" bson:"model"`
	Year             int                `json:"year" bson:"year"`
	Category         CarCategory        `json:"category" bson:"category"`
	Transmission     Transmission       `json:"transmission" bson:"transmission"`
	FuelType         FuelType           `json:"fuel_type" bson:"fuel_type"`
	Seats            int                `json:"seats" bson:"seats"`
	PricePerDayCents int64              `json:"price_per_day_cents" bson:"price_per_day_cents"`
	Location         string             `json:"location" bson:"location"`
	Images           []CarImage         `json:"images,omitempty" bson:"images,omitempty"`
	Features         []string           `json:"features,omitempty" bson:"features,omitempty"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID          primitive.ObjectID `json:"owner_id" bson:"owner_id"`
	IsAvailable      bool               `json:"is_available" bson:"is_available"`
	Mileage          int                `json:"mileage" bson:"mileage"`
	LicensePlate     string             `json:"license_plate" bson:"license_plate"`
	Insurance        *CarInsurance      `json:"insurance,omitempty" bson:"insurance,omitempty"`
	Maintenance      *CarMaintenance    `json:"maintenance,omitempty" bson:"maintenance,omitempty"`
	Rating           CarRating          `json:"rating" bson:"rating"`
	BookingCount     int64              `json:"booking_count" bson:"booking_count"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// DisplayName is the listing title, e.g. "2022 Toyota Corolla".
func (c *Car) DisplayName() string {
	return fmt.Sprintf("%d %s %s", c.Year, c.Make, c.Model)
}

// IsBookableFor reports whether the car can take the candidate range given
// the bookings that currently exist for it. The car must be listed as
// available by its owner, and no confirmed or active booking may overlap the
// candidate half-open range. Pending, completed and cancelled bookings never
// block. The result does not depend on the order of existing.
func (c *Car) IsBookableFor(candidate DateRange, existing []*Booking) bool {
	if !c.IsAvailable {
		return false
	}
	for _, b := range existing {
		if b.Status.Blocks() && candidate.Overlaps(b.Range()) {
			return false
		}
	}
	return true
}

// CarFeatures is the allow-list for listing features.
var CarFeatures = []string{
	"air_conditioning",
	"bluetooth",
	"gps",
	"backup_camera",
	"heated_seats",
	"sunroof",
	"usb_ports",
	"wifi",
	"child_seat",
	"ski_rack",
}

// IsValidCarFeature reports whether f is on the allow-list.
func IsValidCarFeature(f string) bool {
	for _, feature := range CarFeatures {
		if f == feature {
			return true
		}
	}
	return false
}
