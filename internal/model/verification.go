package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTPChallenge stores a bcrypt hash of a one-time password sent by mail.
// Documents expire through a TTL index on createdAt.
type OTPChallenge struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	OTP       string             `bson:"otp"`
	Retries   int                `bson:"retries"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// PasswordReset links a short-lived reset secret to a user account.
type PasswordReset struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	User        primitive.ObjectID `bson:"user"`
	ResetSecret string             `bson:"resetSecret"`
	CreatedAt   time.Time          `bson:"createdAt"`
}
