package clientRepo

import (
	"context"
	"errors"

	"pocketclass/database"
	"pocketclass/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a client does not exist or belongs to another instructor.
var ErrNotFound = errors.New("client not found")

// ClientRepository stores externally known clients (manual entries and imports).
type ClientRepository interface {
	ListByInstructor(ctx context.Context, instructorID string) ([]models.ExternalClient, error)
	Create(ctx context.Context, client models.ExternalClient) error
	// CreateMany writes a whole import batch.
	CreateMany(ctx context.Context, clients []models.ExternalClient) error
	// Delete removes a client owned by instructorID, or returns ErrNotFound.
	Delete(ctx context.Context, instructorID, id string) error
	Watch(ctx context.Context, instructorID string) (<-chan struct{}, error)
}

type mongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo returns a ClientRepository backed by the clients collection.
func NewMongoClientRepo() ClientRepository {
	repo := &mongoClientRepo{
		coll: database.Database().Collection("clients"),
	}
	if err := repo.ensureIndexes(); err != nil {
		database.LogIndexError("clients", err)
	}
	return repo
}
