package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// DefaultUsdToInrRate seeds the settings document on first start.
const DefaultUsdToInrRate = 85

// Settings is a process-wide singleton document.
type Settings struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UsdToInrRate float64           `json:"usdToInrRate" bson:"usdToInrRate"`
}
