package profileRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pocketclass/database"
	"pocketclass/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no user document has the requested id.
var ErrNotFound = errors.New("profile not found")

// ProfileRepository looks up student profiles for booking enrichment.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.StudentProfile, error)
}

// MongoProfileRepo reads the users collection.
type MongoProfileRepo struct {
	coll *mongo.Collection
}

func NewMongoProfileRepo() ProfileRepository {
	return &MongoProfileRepo{coll: database.Database().Collection("users")}
}

// profileProjection keeps credentials and device data out of profile reads.
var profileProjection = bson.M{
	"id":          1,
	"firstName":   1,
	"lastName":    1,
	"email":       1,
	"phoneNumber": 1,
}

// GetByID retrieves a student's contact details.
func (r *MongoProfileRepo) GetByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(profileProjection)
	var profile models.StudentProfile
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile with id %s: %w", id, err)
	}
	return &profile, nil
}
