package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"pocketclass/database"
	"pocketclass/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "instructor_id", Value: 1}, {Key: "startTime", Value: -1}}},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

// ListByInstructor fetches all bookings for an instructor.
func (r *mongoBookingRepo) ListByInstructor(ctx context.Context, instructorID string) ([]models.Booking, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"instructor_id": instructorID})
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for %s: %w", instructorID, err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) Watch(ctx context.Context, instructorID string) (<-chan struct{}, error) {
	return database.WatchInstructor(ctx, r.coll, instructorID)
}
