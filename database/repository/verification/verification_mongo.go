package verificationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookastay/database"
	"bookastay/models"
	"bookastay/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoVerificationRepo implements VerificationRepository using MongoDB.
type MongoVerificationRepo struct {
	coll *mongo.Collection
}

// NewMongoVerificationRepo creates a new instance of VerificationRepository using MongoDB.
func NewMongoVerificationRepo() VerificationRepository {
	coll := database.MongoClient.Database("bookastay").Collection("verification_sessions")
	repo := &MongoVerificationRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to ensure verification indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoVerificationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoVerificationRepo) Insert(ctx context.Context, session *models.VerificationSession) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("error creating verification session: %w", err)
	}
	return nil
}

func (r *MongoVerificationRepo) findOne(ctx context.Context, filter bson.M) (*models.VerificationSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var session models.VerificationSession
	err := r.coll.FindOne(ctx, filter).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching verification session: %w", err)
	}
	return &session, nil
}

func (r *MongoVerificationRepo) GetByReference(ctx context.Context, reference string) (*models.VerificationSession, error) {
	return r.findOne(ctx, bson.M{"reference": reference})
}

func (r *MongoVerificationRepo) GetByReferenceAndEmail(ctx context.Context, reference, email string) (*models.VerificationSession, error) {
	return r.findOne(ctx, bson.M{"reference": reference, "email": email})
}

func (r *MongoVerificationRepo) UpdateStatus(ctx context.Context, reference, status, event, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	set := bson.M{
		"verification_status": status,
		"verification_event":  event,
		"declined_reason":     reason,
		"updated_at":          time.Now(),
	}
	if status == models.VerificationVerified {
		set["verified_at"] = time.Now()
	}
	filter := bson.M{"reference": reference}
	if _, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("error updating verification session %s: %w", reference, err)
	}
	return nil
}
