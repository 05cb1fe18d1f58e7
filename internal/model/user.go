package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

type User struct {
	ID                      primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username                string             `json:"username" bson:"username"`
	Email                   string             `json:"email" bson:"email"`
	IsEmailVerified         bool               `json:"isEmailVerified" bson:"isEmailVerified"`
	EnableLoginVerification bool               `json:"enableLoginVerification" bson:"enableLoginVerification"`
	Password                string             `json:"-" bson:"password"`
	Role                    string             `json:"role" bson:"role"`
	CountryCode             string             `json:"countryCode" bson:"countryCode"`
	PhoneNumber             string             `json:"phoneNumber" bson:"phoneNumber"`
	Company                 string             `json:"company" bson:"company"`
	Description             string             `json:"description,omitempty" bson:"description,omitempty"`
	Speciality              []string           `json:"speciality,omitempty" bson:"speciality,omitempty"`
	IsVerified              bool               `json:"isVerified" bson:"isVerified"`
	IsActive                bool               `json:"isActive" bson:"isActive"`
	RefreshToken            string             `json:"-" bson:"refreshToken,omitempty"`
	AccessToken             string             `json:"-" bson:"accessToken,omitempty"`
	CreatedAt               time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt               time.Time          `json:"updatedAt" bson:"updatedAt"`
}
