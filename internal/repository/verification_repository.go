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

// verificationTTL controls how long OTP challenges and reset secrets live.
const verificationTTL = 10 * time.Minute

// VerificationRepository stores short-lived OTP challenges and password reset
// secrets. Both collections carry a TTL index on createdAt.
type VerificationRepository struct {
	otps   *mongo.Collection
	resets *mongo.Collection
}

var VerificationRepositoryTracer = otel.Tracer("VerificationRepository")

func NewVerificationRepository(db *mongo.Database) *VerificationRepository {
	return &VerificationRepository{
		otps:   db.Collection("otps"),
		resets: db.Collection("passwordResets"),
	}
}

// EnsureIndexes creates the TTL indexes. Safe to call on every start.
func (r *VerificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, span := VerificationRepositoryTracer.Start(ctx, "VerificationRepository.EnsureIndexes")
	defer span.End()
	logger.Info(ctx, "Repository")

	ttl := mongo.IndexModel{
		Keys:    bson.M{"createdAt": 1},
		Options: options.Index().SetExpireAfterSeconds(int32(verificationTTL.Seconds())),
	}
	if _, err := r.otps.Indexes().CreateOne(ctx, ttl); err != nil {
		return err
	}
	_, err := r.resets.Indexes().CreateOne(ctx, ttl)
	return err
}

// SaveOTP replaces any pending challenge for the address.
func (r *VerificationRepository) SaveOTP(ctx context.Context, email, hash string) error {
	ctx, span := VerificationRepositoryTracer.Start(ctx, "VerificationRepository.SaveOTP")
	defer span.End()
	logger.Info(ctx, "Repository")

	if _, err := r.otps.DeleteMany(ctx, bson.M{"email": email}); err != nil {
		return err
	}
	_, err := r.otps.InsertOne(ctx, model.OTPChallenge{
		Email:     email,
		OTP:       hash,
		CreatedAt: time.Now(),
	})
	return err
}

func (r *VerificationRepository) FindOTP(ctx context.Context, email string) (*model.OTPChallenge, error) {
	ctx, span := VerificationRepositoryTracer.Start(ctx, "VerificationRepository.FindOTP")
	defer span.End()
	logger.Info(ctx, "Repository")

	var challenge model.OTPChallenge
	if err := r.otps.FindOne(ctx, bson.M{"email": email}).Decode(&challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *VerificationRepository) IncrementOTPRetries(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := VerificationRepositoryTracer.Start(ctx, "VerificationRepository.IncrementOTPRetries")
	defer span.End()
	logger.Info(ctx, "Repository")

	_, err := r.otps.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"retries": 1}})
	return err
}

func (r *VerificationRepository) DeleteOTP(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := VerificationRepositoryTracer.Start(ctx, "VerificationRepository.DeleteOTP")
	defer span.End()
	logger.Info(ctx, "Repository")

	_, err := r.otps.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// SavePasswordReset replaces any pending secret for the user.
func (r *VerificationRepository) SavePasswordReset(ctx context.Context, userID primitive.ObjectID, secret string) error {
	ctx, span := VerificationRepositoryTracer.Start(ctx, "VerificationRepository.SavePasswordReset")
	defer span.End()
	logger.Info(ctx, "Repository")

	if _, err := r.resets.DeleteMany(ctx, bson.M{"user": userID}); err != nil {
		return err
	}
	_, err := r.resets.InsertOne(ctx, model.PasswordReset{
		User:        userID,
		ResetSecret: secret,
		CreatedAt:   time.Now(),
	})
	return err
}

func (r *VerificationRepository) FindPasswordReset(ctx context.Context, secret string) (*model.PasswordReset, error) {
	ctx, span := VerificationRepositoryTracer.Start(ctx, "VerificationRepository.FindPasswordReset")
	defer span.End()
	logger.Info(ctx, "Repository")

	var reset model.PasswordReset
	if err := r.resets.FindOne(ctx, bson.M{"resetSecret": secret}).Decode(&reset); err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *VerificationRepository) DeletePasswordReset(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := VerificationRepositoryTracer.Start(ctx, "VerificationRepository.DeletePasswordReset")
	defer span.End()
	logger.Info(ctx, "Repository")

	_, err := r.resets.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
