package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"bookastay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FirstActiveOverlap finds one confirmed/blocked reservation intersecting
// [checkIn, checkOut) using half-open semantics: existing.check_in < checkOut
// AND existing.check_out > checkIn. Dates are YYYY-MM-DD strings, so the
// comparison is lexicographic. An empty roomType matches any room.
func (r *MongoReservationRepo) FirstActiveOverlap(ctx context.Context, roomType, checkIn, checkOut string) (*models.Reservation, error) {
	filter := bson.M{
		"status":    bson.M{"$in": models.ActiveStatuses},
		"check_in":  bson.M{"$lt": checkOut},
		"check_out": bson.M{"$gt": checkIn},
	}
	if roomType != "" {
		filter["room_type"] = bson.M{"$regex": primitive.Regex{Pattern: "^" + roomType + "$", Options: "i"}}
	}
	return r.findOne(ctx, filter)
}

// FindConfirmedStay looks up a confirmed reservation with exactly the given
// room and dates that did not originate from excludeSource. Used by the
// reconciler to detect cross-source duplicates.
func (r *MongoReservationRepo) FindConfirmedStay(ctx context.Context, roomType, checkIn, checkOut, excludeSource string) (*models.Reservation, error) {
	filter := bson.M{
		"room_type": roomType,
		"check_in":  checkIn,
		"check_out": checkOut,
		"status":    models.StatusConfirmed,
		"source":    bson.M{"$ne": excludeSource},
	}
	return r.findOne(ctx, filter)
}

func (r *MongoReservationRepo) SetVerification(ctx context.Context, id, reference, url, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	update := bson.M{"$set": bson.M{
		"verification_reference": reference,
		"verification_url":       url,
		"verification_status":    status,
	}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("error setting verification on reservation %s: %w", id, err)
	}
	return nil
}

func (r *MongoReservationRepo) UpdateVerificationByReference(ctx context.Context, reference, status, event, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	update := bson.M{"$set": bson.M{
		"verification_status": status,
		"verification_event":  event,
		"declined_reason":     reason,
	}}
	filter := bson.M{"verification_reference": reference}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error updating verification for reference %s: %w", reference, err)
	}
	return nil
}

func (r *MongoReservationRepo) ListDates(ctx context.Context, statuses []string) ([]models.BookingDates, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	filter := bson.M{"status": bson.M{"$in": statuses}}
	projection := options.Find().SetProjection(bson.M{
		"check_in": 1, "check_out": 1, "room_type": 1, "status": 1,
	})
	cursor, err := r.coll.Find(ctx, filter, projection)
	if err != nil {
		return nil, fmt.Errorf("error listing reservation dates: %w", err)
	}
	defer cursor.Close(ctx)
	var dates []models.BookingDates
	if err := cursor.All(ctx, &dates); err != nil {
		return nil, fmt.Errorf("error decoding reservation dates: %w", err)
	}
	return dates, nil
}

func (r *MongoReservationRepo) ListAll(ctx context.Context) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer cursor.Close(ctx)
	var all []models.Reservation
	if err := cursor.All(ctx, &all); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return all, nil
}

func (r *MongoReservationRepo) DeletePastSynced(ctx context.Context, source, before string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	filter := bson.M{
		"source":    source,
		"check_out": bson.M{"$lt": before},
	}
	result, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error cleaning up synced reservations: %w", err)
	}
	return result.DeletedCount, nil
}
