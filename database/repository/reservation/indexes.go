package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for frequently used fields in queries.
// The unique index on transaction_ref and the sparse unique index on
// airbnb_uid are the store-level backstop behind the resolver's
// check-then-insert pattern: a duplicate insert surfaces as a duplicate-key
// error, which callers treat as a conflict.
func (r *MongoReservationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Sparse: only externally synced rows carry an airbnb_uid.
	airbnbUIDIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "airbnb_uid", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}
	// Compound index serving the overlap query.
	overlapIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "room_type", Value: 1},
			{Key: "check_in", Value: 1},
			{Key: "check_out", Value: 1},
		},
	}

	base := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "transaction_ref", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "verification_reference", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "source", Value: 1}, {Key: "check_out", Value: 1}}},
	}

	indexModels := append(base, airbnbUIDIdx, overlapIdx)
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
