package classRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pocketclass/database"
	"pocketclass/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("class not found")

// ClassRepository looks up class listings for booking enrichment.
type ClassRepository interface {
	GetByID(ctx context.Context, id string) (*models.Class, error)
}

type mongoClassRepo struct {
	coll *mongo.Collection
}

func NewMongoClassRepo() ClassRepository {
	return &mongoClassRepo{coll: database.Database().Collection("classes")}
}

func (r *mongoClassRepo) GetByID(ctx context.Context, id string) (*models.Class, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var class models.Class
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&class); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch class with id %s: %w", id, err)
	}
	return &class, nil
}
