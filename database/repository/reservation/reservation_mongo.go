package reservationRepo

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
	"go.uber.org/zap"
)

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo creates a new instance of ReservationRepository using MongoDB.
func NewMongoReservationRepo() ReservationRepository {
	coll := database.MongoClient.Database("bookastay").Collection("bookings")
	repo := &MongoReservationRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to ensure reservation indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoReservationRepo) Insert(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("error creating reservation: %w", err)
	}
	return nil
}

func (r *MongoReservationRepo) Update(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"id": res.ID}
	update := bson.M{"$set": res}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error updating reservation %s: %w", res.ID, err)
	}
	return nil
}

func (r *MongoReservationRepo) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("error deleting reservation %s: %w", id, err)
	}
	return nil
}

func (r *MongoReservationRepo) findOne(ctx context.Context, filter bson.M) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var res models.Reservation
	err := r.coll.FindOne(ctx, filter).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching reservation: %w", err)
	}
	return &res, nil
}

func (r *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoReservationRepo) GetByTransactionRef(ctx context.Context, ref string) (*models.Reservation, error) {
	return r.findOne(ctx, bson.M{"transaction_ref": ref})
}

func (r *MongoReservationRepo) GetByAirbnbUID(ctx context.Context, uid string) (*models.Reservation, error) {
	return r.findOne(ctx, bson.M{"airbnb_uid": uid})
}
