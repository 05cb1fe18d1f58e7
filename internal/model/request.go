package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RequestStatusPending   = "pending"
	RequestStatusCompleted = "completed"
	RequestStatusCancelled = "cancelled"
)

func IsValidRequestStatus(s string) bool {
	return s == RequestStatusPending || s == RequestStatusCompleted || s == RequestStatusCancelled
}

// Request is a buyer's sourcing request for a chemical, optionally assigned to
// a seller by an administrator.
type Request struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string              `json:"name" bson:"name"`
	Seller        *primitive.ObjectID `json:"seller,omitempty" bson:"seller,omitempty"`
	ContactMethod string              `json:"contactMethod" bson:"contactMethod"`
	Contact       string              `json:"contact" bson:"contact"`
	CountryCode   string              `json:"countryCode,omitempty" bson:"countryCode,omitempty"`
	CI            string              `json:"ci,omitempty" bson:"ci,omitempty"`
	Tone          string              `json:"tone,omitempty" bson:"tone,omitempty"`
	Quantity      float64             `json:"quantity" bson:"quantity"`
	StockUnit     string              `json:"stockUnit" bson:"stockUnit"`
	Note          string              `json:"note,omitempty" bson:"note,omitempty"`
	Status        string              `json:"status" bson:"status"`
	Image         string              `json:"image,omitempty" bson:"image,omitempty"`
	IsVerified    bool                `json:"isVerified" bson:"isVerified"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}
