package repository

import (
	"context"
	"errors"

	"chemmarket/internal/logger"
	"chemmarket/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
)

type SettingsRepository struct {
	collection *mongo.Collection
}

var SettingsRepositoryTracer = otel.Tracer("SettingsRepository")

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{
		collection: db.Collection("settings"),
	}
}

// EnsureDefault seeds the singleton settings document on first start.
func (r *SettingsRepository) EnsureDefault(ctx context.Context) error {
	ctx, span := SettingsRepositoryTracer.Start(ctx, "SettingsRepository.EnsureDefault")
	defer span.End()
	logger.Info(ctx, "Repository")

	n, err := r.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = r.collection.InsertOne(ctx, bson.M{"usdToInrRate": model.DefaultUsdToInrRate})
	return err
}

// UsdToInrRate reads the current conversion rate. A missing settings document
// yields (nil, nil) so callers can degrade to a null rate instead of failing.
func (r *SettingsRepository) UsdToInrRate(ctx context.Context) (*float64, error) {
	ctx, span := SettingsRepositoryTracer.Start(ctx, "SettingsRepository.UsdToInrRate")
	defer span.End()
	logger.Info(ctx, "Repository")

	opts := options.FindOne().SetProjection(bson.M{"usdToInrRate": 1})
	var settings model.Settings
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings.UsdToInrRate, nil
}

func (r *SettingsRepository) UpdateRate(ctx context.Context, rate float64) error {
	ctx, span := SettingsRepositoryTracer.Start(ctx, "SettingsRepository.UpdateRate")
	defer span.End()
	logger.Info(ctx, "Repository")

	res, err := r.collection.UpdateOne(ctx, bson.M{}, bson.M{"$set": bson.M{"usdToInrRate": rate}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
