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

type ProductRepository struct {
	collection *mongo.Collection
}

var ProductRepositoryTracer = otel.Tracer("ProductRepository")

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("products"),
	}
}

// catalogProjection keeps the discovery payload minimal.
var catalogProjection = bson.M{
	"name":        1,
	"price":       1,
	"currency":    1,
	"ci":          1,
	"tone":        1,
	"stock":       1,
	"stockUnit":   1,
	"image":       1,
	"seller":      1,
	"isFeatured":  1,
	"description": 1,
}

// eligibleFilter is the fixed public-discoverability predicate.
func eligibleFilter() bson.M {
	return bson.M{
		"isVisible":  true,
		"status":     model.ProductStatusActive,
		"isVerified": true,
	}
}

func searchOr(term string) bson.A {
	or := bson.A{
		bson.M{"name": primitive.Regex{Pattern: term, Options: "i"}},
		bson.M{"ci": primitive.Regex{Pattern: term, Options: "i"}},
		bson.M{"tone": primitive.Regex{Pattern: term, Options: "i"}},
	}
	if oid, err := primitive.ObjectIDFromHex(term); err == nil {
		or = append(or, bson.M{"_id": oid})
	}
	return or
}

// FindCatalog fetches every eligible product matching the search term, with
// the minimal catalog projection and no pagination. Pagination happens after
// in-memory filtering.
func (r *ProductRepository) FindCatalog(ctx context.Context, search string) ([]model.ProductSummary, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindCatalog")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := eligibleFilter()
	if search != "" {
		filter["$or"] = searchOr(search)
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(catalogProjection))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []model.ProductSummary
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) FindFeatured(ctx context.Context, skip, limit int64) ([]model.ProductSummary, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindFeatured")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := eligibleFilter()
	filter["isFeatured"] = true

	opts := options.Find().
		SetProjection(catalogProjection).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []model.ProductSummary
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindEligibleByID returns a publicly discoverable product or
// mongo.ErrNoDocuments.
func (r *ProductRepository) FindEligibleByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindEligibleByID")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := eligibleFilter()
	filter["_id"] = id

	var product model.Product
	if err := r.collection.FindOne(ctx, filter).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FindPublicBySeller lists a seller's eligible products, optionally excluding
// one product (the one the caller is already looking at).
func (r *ProductRepository) FindPublicBySeller(ctx context.Context, sellerID primitive.ObjectID, exclude *primitive.ObjectID, skip, limit int64) ([]model.ProductSummary, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindPublicBySeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := eligibleFilter()
	filter["seller"] = sellerID
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}

	opts := options.Find().
		SetProjection(catalogProjection).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []model.ProductSummary
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) CountPublicBySeller(ctx context.Context, sellerID primitive.ObjectID) (int64, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.CountPublicBySeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := eligibleFilter()
	filter["seller"] = sellerID
	return r.collection.CountDocuments(ctx, filter)
}

// SearchVisible backs the legacy search endpoint: name, description, ci and
// tone regex matches over visible active products, paginated at the store.
func (r *ProductRepository) SearchVisible(ctx context.Context, term string, skip, limit int64) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.SearchVisible")
	defer span.End()
	logger.Info(ctx, "Repository")

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, legacySearchFilter(term), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) CountVisibleMatching(ctx context.Context, term string) (int64, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.CountVisibleMatching")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.collection.CountDocuments(ctx, legacySearchFilter(term))
}

func legacySearchFilter(term string) bson.M {
	or := bson.A{
		bson.M{"name": primitive.Regex{Pattern: term, Options: "i"}},
		bson.M{"description": primitive.Regex{Pattern: term, Options: "i"}},
		bson.M{"ci": primitive.Regex{Pattern: term, Options: "i"}},
		bson.M{"tone": primitive.Regex{Pattern: term, Options: "i"}},
	}
	if oid, err := primitive.ObjectIDFromHex(term); err == nil {
		or = append(or, bson.M{"_id": oid})
	}
	return bson.M{
		"$or":       or,
		"isVisible": true,
		"status":    model.ProductStatusActive,
	}
}

func (r *ProductRepository) Insert(ctx context.Context, product *model.Product) error {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Insert")
	defer span.End()
	logger.Info(ctx, "Repository")

	product.ID = primitive.NewObjectID()
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// FindBySeller lists a seller's own products, any public state, with extra
// predicates merged in (status or visibility filters).
func (r *ProductRepository) FindBySeller(ctx context.Context, sellerID primitive.ObjectID, extra bson.M, skip, limit int64) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindBySeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := bson.M{"seller": sellerID}
	for k, v := range extra {
		filter[k] = v
	}

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) CountBySeller(ctx context.Context, sellerID primitive.ObjectID, extra bson.M) (int64, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.CountBySeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := bson.M{"seller": sellerID}
	for k, v := range extra {
		filter[k] = v
	}
	return r.collection.CountDocuments(ctx, filter)
}

func (r *ProductRepository) SearchBySeller(ctx context.Context, sellerID primitive.ObjectID, term string, skip, limit int64) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.SearchBySeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := bson.M{
		"seller": sellerID,
		"$or":    searchOr(term),
	}
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDForSeller returns the product only when owned by sellerID.
func (r *ProductRepository) FindByIDForSeller(ctx context.Context, id, sellerID primitive.ObjectID) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindByIDForSeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	var product model.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "seller": sellerID}).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateForSeller applies a $set to a product owned by sellerID and reports
// whether a document matched.
func (r *ProductRepository) UpdateForSeller(ctx context.Context, id, sellerID primitive.ObjectID, fields bson.M) (bool, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.UpdateForSeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	fields["updatedAt"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "seller": sellerID}, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *ProductRepository) DeleteForSeller(ctx context.Context, id, sellerID primitive.ObjectID) (bool, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.DeleteForSeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "seller": sellerID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()
	logger.Info(ctx, "Repository")

	var product model.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FindAll pages through every product regardless of state, for moderation.
func (r *ProductRepository) FindAll(ctx context.Context, skip, limit int64) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.CountAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.collection.CountDocuments(ctx, bson.M{})
}

// SetFields applies a $set on any product, for moderation toggles.
func (r *ProductRepository) SetFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.SetFields")
	defer span.End()
	logger.Info(ctx, "Repository")

	fields["updatedAt"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()
	logger.Info(ctx, "Repository")

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteBySeller removes every product owned by a deleted user.
func (r *ProductRepository) DeleteBySeller(ctx context.Context, sellerID primitive.ObjectID) (int64, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.DeleteBySeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	res, err := r.collection.DeleteMany(ctx, bson.M{"seller": sellerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SellerStats aggregates a seller's product portfolio for the analytics view.
func (r *ProductRepository) SellerStats(ctx context.Context, sellerID primitive.ObjectID) (*model.SellerProductStats, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.SellerStats")
	defer span.End()
	logger.Info(ctx, "Repository")

	monthAgo := time.Now().Add(-30 * 24 * time.Hour)
	activeCond := bson.M{"$and": bson.A{
		bson.M{"$eq": bson.A{"$isVisible", true}},
		bson.M{"$eq": bson.A{"$status", model.ProductStatusActive}},
	}}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"seller": sellerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"products":        bson.M{"$push": "$_id"},
			"totalProducts":   bson.M{"$sum": 1},
			"totalSales":      bson.M{"$sum": "$sales"},
			"totalRevenue":    bson.M{"$sum": bson.M{"$multiply": bson.A{"$price", "$sales"}}},
			"totalStock":      bson.M{"$sum": "$stock"},
			"totalStockValue": bson.M{"$sum": bson.M{"$multiply": bson.A{"$price", "$stock"}}},
			"addedThisMonth": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$createdAt", monthAgo}}, 1, 0,
			}}},
			"activeProducts": bson.M{"$sum": bson.M{"$cond": bson.A{activeCond, 1, 0}}},
			"inactiveProducts": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$not": activeCond}, 1, 0,
			}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []model.SellerProductStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return &model.SellerProductStats{}, nil
	}
	return &stats[0], nil
}
