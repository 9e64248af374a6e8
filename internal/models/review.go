package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewAspects are optional per-dimension ratings, each 1-5 when set.
type ReviewAspects struct {
	Cleanliness int `json:"cleanliness,omitempty" bson:"cleanliness,omitempty"`
	Comfort     int `json:"comfort,omitempty" bson:"comfort,omitempty"`
	Performance int `json:"performance,omitempty" bson:"performance,omitempty"`
	Value       int `json:"value,omitempty" bson:"value,omitempty"`
}

type ReviewImage struct {
	URL     string `json:"url" bson:"url"`
	Caption string `json:"caption,omitempty" bson:"caption,omitempty"`
}

type HelpfulVote struct {
	UserID primitive.ObjectID `json:"user_id" bson:"user_id"`
	Date   time.Time          `json:"date" bson:"date"`
}

// ReviewResponse is the car owner's reply to a review.
type ReviewResponse struct {
	Text        string             `json:"text" bson:"text"`
	Date        time.Time          `json:"date" bson:"date"`
	ResponderID primitive.ObjectID `json:"responder_id" bson:"responder_id"`
}

type Review struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"user_id" bson:"user_id"`
	CarID      primitive.ObjectID `json:"car_id" bson:"car_id"`
	BookingID  primitive.ObjectID `json:"booking_id" bson:"booking_id"`
	Rating     int                `json:"rating" bson:"rating"`
	Title      string             `json:"title" bson:"title"`
	Comment    string             `json:"comment" bson:"comment"`
	Aspects    *ReviewAspects     `json:"aspects,omitempty" bson:"aspects,omitempty"`
	Images     []ReviewImage      `json:"images,omitempty" bson:"images,omitempty"`
	Helpful    []HelpfulVote      `json:"helpful,omitempty" bson:"helpful,omitempty"`
	Response   *ReviewResponse    `json:"response,omitempty" bson:"response,omitempty"`
	IsVerified bool               `json:"is_verified" bson:"is_verified"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

func (r *Review) HelpfulCount() int {
	return len(r.Helpful)
}
