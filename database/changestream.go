package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WatchInstructor opens a change stream on coll for documents owned by instructorID.
// Each change produces one non-blocking signal on the returned channel; the channel is
// closed when ctx ends or the stream fails. Deletes carry no document, so every delete
// in the collection is signalled.
func WatchInstructor(ctx context.Context, coll *mongo.Collection, instructorID string) (<-chan struct{}, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "fullDocument.instructor_id", Value: instructorID}},
			bson.D{{Key: "operationType", Value: "delete"}},
		}}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := coll.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", coll.Name(), err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			select {
			case changes <- struct{}{}:
			default:
			}
		}
	}()
	return changes, nil
}
