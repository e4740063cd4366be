// Package firestoreRepo implements the roster repositories on Cloud Firestore, for
// deployments that keep bookings and clients in Firebase instead of MongoDB.
package firestoreRepo

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	bookingsCollection = "bookings"
	clientsCollection  = "clients"
	usersCollection    = "users"
	classesCollection  = "classes"

	// Firestore transactions accept at most 500 writes.
	maxTransactionWrites = 500
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// listByInstructor decodes every document of collection owned by instructorID. setID
// receives the document id, which is not stored as a field.
func listByInstructor[T any](ctx context.Context, client *firestore.Client, collection, instructorID string, setID func(*T, string)) ([]T, error) {
	iter := client.Collection(collection).Where("instructor_id", "==", instructorID).Documents(ctx)
	defer iter.Stop()

	out := []T{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s for %s: %w", collection, instructorID, err)
		}
		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", collection, doc.Ref.ID, err)
		}
		setID(&item, doc.Ref.ID)
		out = append(out, item)
	}
	return out, nil
}

// getByID decodes one document; found is false when it does not exist.
func getByID[T any](ctx context.Context, client *firestore.Client, collection, id string) (item T, found bool, err error) {
	doc, err := client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return item, false, nil
		}
		return item, false, fmt.Errorf("failed to fetch %s/%s: %w", collection, id, err)
	}
	if err := doc.DataTo(&item); err != nil {
		return item, false, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return item, true, nil
}

// watch turns a snapshot listener into change signals. The first snapshot reflects the
// current state and is skipped.
func watch(ctx context.Context, client *firestore.Client, collection, instructorID string) (<-chan struct{}, error) {
	it := client.Collection(collection).Where("instructor_id", "==", instructorID).Snapshots(ctx)
	if _, err := it.Next(); err != nil {
		it.Stop()
		return nil, fmt.Errorf("failed to listen on %s: %w", collection, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer it.Stop()
		for {
			if _, err := it.Next(); err != nil {
				return
			}
			select {
			case changes <- struct{}{}:
			default:
			}
		}
	}()
	return changes, nil
}
