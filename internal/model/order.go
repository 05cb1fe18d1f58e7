package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"

	ContactMethodPhone    = "phone"
	ContactMethodEmail    = "email"
	ContactMethodWhatsapp = "whatsapp"
)

func IsValidOrderStatus(s string) bool {
	return s == OrderStatusPending || s == OrderStatusCompleted || s == OrderStatusCancelled
}

func IsValidContactMethod(m string) bool {
	return m == ContactMethodPhone || m == ContactMethodEmail || m == ContactMethodWhatsapp
}

// Order is a purchase order placed against a single product. Buyer and seller
// contact details are snapshotted at creation time.
type Order struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Product       primitive.ObjectID `json:"product" bson:"product"`
	BuyerName     string             `json:"buyerName" bson:"buyerName"`
	BuyerContact  string             `json:"buyerContact" bson:"buyerContact"`
	ContactMethod string             `json:"contactMethod" bson:"contactMethod"`
	Seller        primitive.ObjectID `json:"seller" bson:"seller"`
	Note          string             `json:"note,omitempty" bson:"note,omitempty"`
	SellerName    string             `json:"sellerName" bson:"sellerName"`
	SellerContact string             `json:"sellerContact" bson:"sellerContact"`
	Quantity      float64            `json:"quantity" bson:"quantity"`
	Price         float64            `json:"price" bson:"price"`
	Currency      string             `json:"currency" bson:"currency"`
	TotalAmount   float64            `json:"totalAmount" bson:"totalAmount"`
	Status        string             `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}
