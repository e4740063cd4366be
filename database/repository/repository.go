package repository

import (
	bookingRepo "pocketclass/database/repository/booking"
	classRepo "pocketclass/database/repository/class"
	clientRepo "pocketclass/database/repository/client"
	firestoreRepo "pocketclass/database/repository/firestore"
	profileRepo "pocketclass/database/repository/profile"

	"cloud.google.com/go/firestore"
)

// Re-export the repository interfaces.
type BookingRepository = bookingRepo.BookingRepository

type ClientRepository = clientRepo.ClientRepository

type ProfileRepository = profileRepo.ProfileRepository

type ClassRepository = classRepo.ClassRepository

// Stores groups the repositories the client roster reads and writes.
type Stores struct {
	Bookings BookingRepository
	Clients  ClientRepository
	Profiles ProfileRepository
	Classes  ClassRepository
}

// NewMongoStores builds the stores on the global Mongo client.
func NewMongoStores() Stores {
	return Stores{
		Bookings: bookingRepo.NewMongoBookingRepo(),
		Clients:  clientRepo.NewMongoClientRepo(),
		Profiles: profileRepo.NewMongoProfileRepo(),
		Classes:  classRepo.NewMongoClassRepo(),
	}
}

// NewFirestoreStores builds the stores on a Firestore client.
func NewFirestoreStores(client *firestore.Client) Stores {
	return Stores{
		Bookings: firestoreRepo.NewBookingRepo(client),
		Clients:  firestoreRepo.NewClientRepo(client),
		Profiles: firestoreRepo.NewProfileRepo(client),
		Classes:  firestoreRepo.NewClassRepo(client),
	}
}
