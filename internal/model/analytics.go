package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// SellerProductStats is the aggregation result over a seller's portfolio.
type SellerProductStats struct {
	Products         []primitive.ObjectID `json:"-" bson:"products"`
	TotalProducts    int64                `json:"totalProducts" bson:"totalProducts"`
	TotalSales       float64              `json:"totalSales" bson:"totalSales"`
	TotalRevenue     float64              `json:"totalRevenue" bson:"totalRevenue"`
	TotalStock       float64              `json:"totalStock" bson:"totalStock"`
	TotalStockValue  float64              `json:"totalStockValue" bson:"totalStockValue"`
	AddedThisMonth   int64                `json:"addedThisMonth" bson:"addedThisMonth"`
	ActiveProducts   int64                `json:"activeProducts" bson:"activeProducts"`
	InactiveProducts int64                `json:"inactiveProducts" bson:"inactiveProducts"`
}

// SellerOrderStats is the aggregation result over a seller's orders.
type SellerOrderStats struct {
	TotalOrders     int64   `json:"totalOrders" bson:"totalOrders"`
	LastMonthOrders int64   `json:"lastMonthOrders" bson:"lastMonthOrders"`
	TotalRevenue    float64 `json:"totalRevenue" bson:"totalRevenue"`
}

// MarketStats is the marketplace-wide roll-up for the admin dashboard.
type MarketStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalProducts int64 `json:"totalProducts"`
	TotalOrders   int64 `json:"totalOrders"`
	TotalRequests int64 `json:"totalRequests"`
}
