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

type RequestRepository struct {
	collection *mongo.Collection
}

var RequestRepositoryTracer = otel.Tracer("RequestRepository")

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{
		collection: db.Collection("requests"),
	}
}

func (r *RequestRepository) Insert(ctx context.Context, request *model.Request) error {
	ctx, span := RequestRepositoryTracer.Start(ctx, "RequestRepository.Insert")
	defer span.End()
	logger.Info(ctx, "Repository")

	request.ID = primitive.NewObjectID()
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, request)
	return err
}

func (r *RequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Request, error) {
	ctx, span := RequestRepositoryTracer.Start(ctx, "RequestRepository.FindByID")
	defer span.End()
	logger.Info(ctx, "Repository")

	var request model.Request
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepository) FindAll(ctx context.Context, skip, limit int64) ([]model.Request, error) {
	ctx, span := RequestRepositoryTracer.Start(ctx, "RequestRepository.FindAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.find(ctx, bson.M{}, skip, limit)
}

// FindPublic lists verified requests for the public board.
func (r *RequestRepository) FindPublic(ctx context.Context, skip, limit int64) ([]model.Request, error) {
	ctx, span := RequestRepositoryTracer.Start(ctx, "RequestRepository.FindPublic")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.find(ctx, bson.M{"isVerified": true}, skip, limit)
}

func (r *RequestRepository) CountPublic(ctx context.Context) (int64, error) {
	ctx, span := RequestRepositoryTracer.Start(ctx, "RequestRepository.CountPublic")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.collection.CountDocuments(ctx, bson.M{"isVerified": true})
}

// SearchPublic matches verified requests by name, ci, or tone.
func (r *RequestRepository) SearchPublic(ctx context.Context, term string, skip, limit int64) ([]model.Request, error) {
	ctx, span := RequestRepositoryTracer.Start(ctx, "RequestRepository.SearchPublic")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := bson.M{
		"isVerified": true,
		"$or": bson.A{
			bson.M{"name": primitive.Regex{Pattern: term, Options: "i"}},
			bson.M{"ci": primitive.Regex{Pattern: term, Options: "i"}},
			bson.M{"tone": primitive.Regex{Pattern: term, Options: "i"}},
		},
	}
	return r.find(ctx, filter, skip, limit)
}

func (r *RequestRepository) FindBySeller(ctx context.Context, sellerID primitive.ObjectID, skip, limit int64) ([]model.Request, error) {
	ctx, span := RequestRepositoryTracer.Start(ctx, "RequestRepository.FindBySeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.find(ctx, bson.M{"seller": sellerID}, skip, limit)
}

func (r *RequestRepository) find(ctx context.Context, filter bson.M, skip, limit int64) ([]model.Request, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []model.Request
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, span := RequestRepositoryTracer.Start(ctx, "RequestRepository.CountAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.collection.CountDocuments(ctx, bson.M{})
}

// SetFields applies a $set to a request and reports whether one matched.
func (r *RequestRepository) SetFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (bool, error) {
	ctx, span := RequestRepositoryTracer.Start(ctx, "RequestRepository.SetFields")
	defer span.End()
	logger.Info(ctx, "Repository")

	fields["updatedAt"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// UpdateStatusForSeller lets an assigned seller transition their request.
func (r *RequestRepository) UpdateStatusForSeller(ctx context.Context, id, sellerID primitive.ObjectID, status string) (bool, error) {
	ctx, span := RequestRepositoryTracer.Start(ctx, "RequestRepository.UpdateStatusForSeller")
	defer span.End()
	logger.Info(ctx, "Repository")

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "seller": sellerID}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *RequestRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := RequestRepositoryTracer.Start(ctx, "RequestRepository.Delete")
	defer span.End()
	logger.Info(ctx, "Repository")

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
