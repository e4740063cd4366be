package clientRepo

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

func (r *mongoClientRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "instructor_id", Value: 1}, {Key: "email", Value: 1}}},
	})
	return err
}

// ListByInstructor returns the instructor's external clients, oldest first.
func (r *mongoClientRepo) ListByInstructor(ctx context.Context, instructorID string) ([]models.ExternalClient, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"instructor_id": instructorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients for %s: %w", instructorID, err)
	}
	defer cursor.Close(ctx)

	clients := []models.ExternalClient{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %w", err)
	}
	return clients, nil
}

// Create inserts a single client.
func (r *mongoClientRepo) Create(ctx context.Context, client models.ExternalClient) error {
	if _, err := r.coll.InsertOne(ctx, client); err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

// CreateMany inserts an import batch inside a transaction so a failed import leaves
// nothing behind.
func (r *mongoClientRepo) CreateMany(ctx context.Context, clients []models.ExternalClient) error {
	if len(clients) == 0 {
		return nil
	}
	docs := make([]interface{}, len(clients))
	for i, c := range clients {
		docs[i] = c
	}

	session, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.coll.InsertMany(sc, docs)
	})
	if err != nil {
		return fmt.Errorf("failed to insert %d clients: %w", len(clients), err)
	}
	return nil
}

// Delete removes a client only if it belongs to instructorID.
func (r *mongoClientRepo) Delete(ctx context.Context, instructorID, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "instructor_id": instructorID})
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoClientRepo) Watch(ctx context.Context, instructorID string) (<-chan struct{}, error) {
	return database.WatchInstructor(ctx, r.coll, instructorID)
}
