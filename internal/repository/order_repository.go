package repository

import (
	"context"
	"time"

	"chemmarket/internal/logger"
	"chemmarket/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
)

type OrderRepository struct {
	collection *mongo.Collection
}

var OrderRepositoryTracer = otel.Tracer("OrderRepository")

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection("orders"),
	}
}

func (r *OrderRepository) Insert(ctx context.Context, order *model.Order) error {
	ctx, span := OrderRepositoryTracer.Start(ctx, "OrderRepository.Insert")
	defer span.End()
	logger.Info(ctx, "Repository")

	order.ID = primitive.NewObjectID()
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, order)
	return err
}

func (r *OrderRepository) FindBySeller(ctx context.Context, sellerID primitive.ObjectID, status string, skip, limit int64) ([]model.Order, error) {
	ctx, span := OrderRepositoryTracer.Start(ctx, "OrderRepository.FindBySeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := bson.M{"seller": sellerID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) CountBySeller(ctx context.Context, sellerID primitive.ObjectID, status string) (int64, error) {
	ctx, span := OrderRepositoryTracer.Start(ctx, "OrderRepository.CountBySeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := bson.M{"seller": sellerID}
	if status != "" {
		filter["status"] = status
	}
	return r.collection.CountDocuments(ctx, filter)
}

// SearchBySeller matches a seller's orders by buyer name or order id.
func (r *OrderRepository) SearchBySeller(ctx context.Context, sellerID primitive.ObjectID, term string, skip, limit int64) ([]model.Order, error) {
	ctx, span := OrderRepositoryTracer.Start(ctx, "OrderRepository.SearchBySeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	or := bson.A{
		bson.M{"buyerName": primitive.Regex{Pattern: term, Options: "i"}},
		bson.M{"buyerContact": primitive.Regex{Pattern: term, Options: "i"}},
	}
	if oid, err := primitive.ObjectIDFromHex(term); err == nil {
		or = append(or, bson.M{"_id": oid})
	}
	filter := bson.M{"seller": sellerID, "$or": or}

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatusForSeller transitions an order owned by sellerID and reports
// whether one matched.
func (r *OrderRepository) UpdateStatusForSeller(ctx context.Context, id, sellerID primitive.ObjectID, status string) (bool, error) {
	ctx, span := OrderRepositoryTracer.Start(ctx, "OrderRepository.UpdateStatusForSeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "seller": sellerID}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *OrderRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, span := OrderRepositoryTracer.Start(ctx, "OrderRepository.CountAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.collection.CountDocuments(ctx, bson.M{})
}

// SellerStats aggregates a seller's order volume for the analytics view.
func (r *OrderRepository) SellerStats(ctx context.Context, sellerID primitive.ObjectID) (*model.SellerOrderStats, error) {
	ctx, span := OrderRepositoryTracer.Start(ctx, "OrderRepository.SellerStats")
	defer span.End()
	logger.Info(ctx, "Repository")

	monthAgo := time.Now().Add(-30 * 24 * time.Hour)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"seller": sellerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalOrders":  bson.M{"$sum": 1},
			"totalRevenue": bson.M{"$sum": "$totalAmount"},
			"lastMonthOrders": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$createdAt", monthAgo}}, 1, 0,
			}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []model.SellerOrderStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return &model.SellerOrderStats{}, nil
	}
	return &stats[0], nil
}
