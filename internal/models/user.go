package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleBusiness UserRole = "business"
	UserRoleAdmin    UserRole = "admin"
)

type UserPreferences struct {
	Newsletter    bool `json:"newsletter" bson:"newsletter"`
	Notifications bool `json:"notifications" bson:"notifications"`
}

type User struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName     string             `json:"first_name" bson:"first_name"`
	LastName      string             `json:"last_name" bson:"last_name"`
	Email         string             `json:"email" bson:"email"`
	Password      string             `json:"-" bson:"password"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role          UserRole           `json:"role" bson:"role"`
	IsVerified    bool               `json:"is_verified" bson:"is_verified"`
	LoyaltyPoints int64              `json:"loyalty_points" bson:"loyalty_points"`
	Avatar        string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Preferences   UserPreferences    `json:"preferences" bson:"preferences"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
