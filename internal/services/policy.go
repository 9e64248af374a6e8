package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
)

// Actor is the authenticated principal performing an operation.
type Actor struct {
	UserID primitive.ObjectID
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.UserRoleAdmin
}

func (a Actor) IsBusiness() bool {
	return a.Role == models.UserRoleBusiness
}

// Authorization is decided in one place so handlers and services agree on
// who may touch what. Admins pass every check.

// CanViewBooking: the renter, the car owner, or an admin.
func CanViewBooking(actor Actor, booking *models.Booking, car *models.Car) bool {
	if actor.IsAdmin() {
		return true
	}
	if booking.UserID == actor.UserID {
		return true
	}
	return car != nil && car.OwnerID == actor.UserID
}

// CanCancelBooking: the renter or an admin. Owners decline through the
// status endpoint, not cancellation.
func CanCancelBooking(actor Actor, booking *models.Booking) bool {
	return actor.IsAdmin() || booking.UserID == actor.UserID
}

// CanTransitionBooking decides who may drive each status change. The car
// owner runs the rental lifecycle (confirm, hand over, receive back); the
// renter may only cancel.
func CanTransitionBooking(actor Actor, booking *models.Booking, car *models.Car, next models.BookingStatus) bool {
	if actor.IsAdmin() {
		return true
	}

	if next == models.BookingStatusCancelled {
		return CanCancelBooking(actor, booking)
	}

	return car != nil && car.OwnerID == actor.UserID
}

// CanManageCar: the owner or an admin.
func CanManageCar(actor Actor, car *models.Car) bool {
	return actor.IsAdmin() || car.OwnerID == actor.UserID
}

// CanCreateCar: business accounts list cars, customers do not.
func CanCreateCar(actor Actor) bool {
	return actor.IsAdmin() || actor.IsBusiness()
}

// CanRespondToReview: the owner of the reviewed car or an admin.
func CanRespondToReview(actor Actor, car *models.Car) bool {
	return actor.IsAdmin() || (car != nil && car.OwnerID == actor.UserID)
}

// CanManageReview: the author or an admin.
func CanManageReview(actor Actor, review *models.Review) bool {
	return actor.IsAdmin() || review.UserID == actor.UserID
}
