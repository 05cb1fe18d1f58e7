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

type UserRepository struct {
	collection *mongo.Collection
}

var UserRepositoryTracer = otel.Tracer("UserRepository")

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func (r *UserRepository) Insert(ctx context.Context, user *model.User) error {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.Insert")
	defer span.End()
	logger.Info(ctx, "Repository")

	user.ID = primitive.NewObjectID()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.FindByID")
	defer span.End()
	logger.Info(ctx, "Repository")

	var user model.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier looks a user up by email (case-insensitive) or phone
// number, matching the login contract.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.FindByIdentifier")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := bson.M{"$or": bson.A{
		bson.M{"email": primitive.Regex{Pattern: identifier, Options: "i"}},
		bson.M{"phoneNumber": identifier},
	}}
	var user model.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.FindByEmail")
	defer span.End()
	logger.Info(ctx, "Repository")

	var user model.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.ExistsByEmailOrPhone")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"phoneNumber": phone},
	}}
	n, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

// FindActiveSellers resolves a batch of seller ids against active accounts
// with a minimal {company, username} projection, keyed by id hex.
func (r *UserRepository) FindActiveSellers(ctx context.Context, ids []primitive.ObjectID) (map[string]model.SellerRef, error) {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.FindActiveSellers")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := bson.M{"_id": bson.M{"$in": ids}, "isActive": true}
	opts := options.Find().SetProjection(bson.M{"company": 1, "username": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sellers := make(map[string]model.SellerRef, len(ids))
	for cursor.Next(ctx) {
		var doc struct {
			ID       primitive.ObjectID `bson:"_id"`
			Company  string             `bson:"company"`
			Username string             `bson:"username"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		sellers[doc.ID.Hex()] = model.SellerRef{ID: doc.ID, Company: doc.Company, Username: doc.Username}
	}
	return sellers, cursor.Err()
}

func (r *UserRepository) SetTokens(ctx context.Context, id primitive.ObjectID, access, refresh string) error {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.SetTokens")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.setFields(ctx, id, bson.M{"accessToken": access, "refreshToken": refresh})
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, id primitive.ObjectID, verified bool) error {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.SetEmailVerified")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.setFields(ctx, id, bson.M{"isEmailVerified": verified})
}

func (r *UserRepository) SetLoginVerification(ctx context.Context, id primitive.ObjectID, enabled bool) error {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.SetLoginVerification")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.setFields(ctx, id, bson.M{"enableLoginVerification": enabled})
}

func (r *UserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.SetPassword")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.setFields(ctx, id, bson.M{"password": hash})
}

func (r *UserRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.SetActive")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.setFields(ctx, id, bson.M{"isActive": active})
}

func (r *UserRepository) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.SetVerified")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.setFields(ctx, id, bson.M{"isVerified": verified})
}

func (r *UserRepository) setFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *UserRepository) FindAll(ctx context.Context, skip, limit int64) ([]model.User, error) {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.FindAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.CountAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.Delete")
	defer span.End()
	logger.Info(ctx, "Repository")

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
