// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"pocketclass/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	FirebaseApp     *firebase.App
	FirestoreClient *firestore.Client
)

// FirebaseInit initializes the Firebase App from the configured service account file,
// or from application default credentials when no file is set.
func FirebaseInit(ctx context.Context) error {
	var opts []option.ClientOption
	if path := config.AppConfig.FirebaseCredentialsFile; path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	var fbConfig *firebase.Config
	if id := config.AppConfig.FirebaseProjectID; id != "" {
		fbConfig = &firebase.Config{ProjectID: id}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return fmt.Errorf("firebase: error initializing app: %w", err)
	}
	FirebaseApp = app
	return nil
}

// FirebaseAuth returns an ID token verifier client.
func FirebaseAuth(ctx context.Context) (*auth.Client, error) {
	if FirebaseApp == nil {
		return nil, fmt.Errorf("firebase: app not initialized")
	}
	client, err := FirebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}
	return client, nil
}

// InitFirestore opens the global Firestore client.
func InitFirestore(ctx context.Context) error {
	if FirebaseApp == nil {
		return fmt.Errorf("firebase: app not initialized")
	}
	client, err := FirebaseApp.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("firebase: error getting Firestore client: %w", err)
	}
	FirestoreClient = client
	return nil
}
