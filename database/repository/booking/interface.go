package bookingRepo

import (
	"context"

	"pocketclass/database"
	"pocketclass/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository reads platform bookings. Bookings are written by the booking flow,
// never by the client roster.
type BookingRepository interface {
	// ListByInstructor returns every booking of the instructor's classes.
	ListByInstructor(ctx context.Context, instructorID string) ([]models.Booking, error)
	// Watch signals whenever one of the instructor's bookings changes.
	Watch(ctx context.Context, instructorID string) (<-chan struct{}, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository backed by the bookings collection.
func NewMongoBookingRepo() BookingRepository {
	repo := &mongoBookingRepo{
		coll: database.Database().Collection("bookings"),
	}
	if err := repo.ensureIndexes(); err != nil {
		database.LogIndexError("bookings", err)
	}
	return repo
}
