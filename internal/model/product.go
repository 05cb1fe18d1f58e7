package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"

	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// StockUnits lists the units a product quantity can be expressed in.
var StockUnits = []string{"kg", "grm", "mg", "ml", "ltr", "pcs", "mts"}

func IsValidStockUnit(u string) bool {
	for _, s := range StockUnits {
		if s == u {
			return true
		}
	}
	return false
}

func IsValidCurrency(c string) bool {
	return c == CurrencyINR || c == CurrencyUSD
}

type Product struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64            `json:"price" bson:"price"`
	CI          string             `json:"ci" bson:"ci"`
	Tone        string             `json:"tone" bson:"tone"`
	IsFeatured  bool               `json:"isFeatured" bson:"isFeatured"`
	Currency    string             `json:"currency" bson:"currency"`
	Stock       float64            `json:"stock" bson:"stock"`
	StockUnit   string             `json:"stockUnit" bson:"stockUnit"`
	Sales       float64            `json:"sales" bson:"sales"`
	IsVerified  bool               `json:"isVerified" bson:"isVerified"`
	IsVisible   bool               `json:"isVisible" bson:"isVisible"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	Seller      primitive.ObjectID `json:"seller" bson:"seller"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProductSummary is the minimal discovery projection of a product, with the
// seller still an unresolved reference.
type ProductSummary struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Currency    string             `bson:"currency"`
	CI          string             `bson:"ci"`
	Tone        string             `bson:"tone"`
	Stock       float64            `bson:"stock"`
	StockUnit   string             `bson:"stockUnit"`
	Image       string             `bson:"image"`
	IsFeatured  bool               `bson:"isFeatured"`
	Seller      primitive.ObjectID `bson:"seller"`
}

// SellerRef is a seller identity resolved for discovery responses.
type SellerRef struct {
	ID       primitive.ObjectID `json:"id"`
	Company  string             `json:"company"`
	Username string             `json:"username"`
}

// CatalogProduct is a ProductSummary enriched with its resolved seller.
// It exists only for the duration of one request and is never persisted.
type CatalogProduct struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Price       float64            `json:"price"`
	Currency    string             `json:"currency"`
	CI          string             `json:"ci"`
	Tone        string             `json:"tone"`
	Stock       float64            `json:"stock"`
	StockUnit   string             `json:"stockUnit"`
	Image       string             `json:"image,omitempty"`
	IsFeatured  bool               `json:"isFeatured"`
	Seller      SellerRef          `json:"seller"`
}

// Enrich pairs the summary with a resolved seller.
func (p ProductSummary) Enrich(seller SellerRef) CatalogProduct {
	return CatalogProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		CI:          p.CI,
		Tone:        p.Tone,
		Stock:       p.Stock,
		StockUnit:   p.StockUnit,
		Image:       p.Image,
		IsFeatured:  p.IsFeatured,
		Seller:      seller,
	}
}
