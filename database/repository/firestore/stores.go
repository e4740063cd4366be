package firestoreRepo

import (
	"context"
	"fmt"

	bookingRepo "pocketclass/database/repository/booking"
	classRepo "pocketclass/database/repository/class"
	clientRepo "pocketclass/database/repository/client"
	profileRepo "pocketclass/database/repository/profile"
	"pocketclass/models"

	"cloud.google.com/go/firestore"
)

// BookingRepo implements bookingRepo.BookingRepository.
type BookingRepo struct {
	client *firestore.Client
}

func NewBookingRepo(client *firestore.Client) bookingRepo.BookingRepository {
	return &BookingRepo{client: client}
}

func (r *BookingRepo) ListByInstructor(ctx context.Context, instructorID string) ([]models.Booking, error) {
	return listByInstructor(ctx, r.client, bookingsCollection, instructorID, func(b *models.Booking, id string) { b.ID = id })
}

func (r *BookingRepo) Watch(ctx context.Context, instructorID string) (<-chan struct{}, error) {
	return watch(ctx, r.client, bookingsCollection, instructorID)
}

// ClientRepo implements clientRepo.ClientRepository.
type ClientRepo struct {
	client *firestore.Client
}

func NewClientRepo(client *firestore.Client) clientRepo.ClientRepository {
	return &ClientRepo{client: client}
}

func (r *ClientRepo) ListByInstructor(ctx context.Context, instructorID string) ([]models.ExternalClient, error) {
	return listByInstructor(ctx, r.client, clientsCollection, instructorID, func(c *models.ExternalClient, id string) { c.ID = id })
}

func (r *ClientRepo) Create(ctx context.Context, c models.ExternalClient) error {
	if _, err := r.client.Collection(clientsCollection).Doc(c.ID).Create(ctx, c); err != nil {
		return fmt.Errorf("failed to create client %s: %w", c.ID, err)
	}
	return nil
}

// CreateMany writes the batch in a single transaction, so at most 500 documents.
func (r *ClientRepo) CreateMany(ctx context.Context, clients []models.ExternalClient) error {
	if len(clients) > maxTransactionWrites {
		return fmt.Errorf("failed to import clients: %d exceeds the %d document limit", len(clients), maxTransactionWrites)
	}
	coll := r.client.Collection(clientsCollection)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, c := range clients {
			if err := tx.Create(coll.Doc(c.ID), c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to import clients: %w", err)
	}
	return nil
}

// Delete removes the client inside a transaction after checking ownership.
func (r *ClientRepo) Delete(ctx context.Context, instructorID, id string) error {
	ref := r.client.Collection(clientsCollection).Doc(id)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return clientRepo.ErrNotFound
			}
			return fmt.Errorf("failed to fetch client %s: %w", id, err)
		}
		var c models.ExternalClient
		if err := doc.DataTo(&c); err != nil {
			return fmt.Errorf("failed to decode client %s: %w", id, err)
		}
		if c.InstructorID != instructorID {
			return clientRepo.ErrNotFound
		}
		return tx.Delete(ref)
	})
}

func (r *ClientRepo) Watch(ctx context.Context, instructorID string) (<-chan struct{}, error) {
	return watch(ctx, r.client, clientsCollection, instructorID)
}

// ProfileRepo implements profileRepo.ProfileRepository.
type ProfileRepo struct {
	client *firestore.Client
}

func NewProfileRepo(client *firestore.Client) profileRepo.ProfileRepository {
	return &ProfileRepo{client: client}
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	profile, found, err := getByID[models.StudentProfile](ctx, r.client, usersCollection, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, profileRepo.ErrNotFound
	}
	profile.ID = id
	return &profile, nil
}

// ClassRepo implements classRepo.ClassRepository.
type ClassRepo struct {
	client *firestore.Client
}

func NewClassRepo(client *firestore.Client) classRepo.ClassRepository {
	return &ClassRepo{client: client}
}

func (r *ClassRepo) GetByID(ctx context.Context, id string) (*models.Class, error) {
	class, found, err := getByID[models.Class](ctx, r.client, classesCollection, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, classRepo.ErrNotFound
	}
	class.ID = id
	return &class, nil
}
