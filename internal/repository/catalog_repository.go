package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/user-directory/internal/domain"
)

const dataCollection = "data"

// CatalogRepository reads the assignable role and permission labels from
// the data collection, stored as {key, values} rows keyed "roles" and
// "permissions".
type CatalogRepository interface {
	Catalog(ctx context.Context) (*domain.Catalog, error)
}

type catalogDocument struct {
	Key    string   `bson:"key"`
	Values []string `bson:"values"`
}

type catalogRepository struct {
	data *mongo.Collection
}

// NewCatalogRepository returns a document-store-backed implementation.
func NewCatalogRepository(db *mongo.Database) CatalogRepository {
	return &catalogRepository{data: db.Collection(dataCollection)}
}

func (r *catalogRepository) Catalog(ctx context.Context) (*domain.Catalog, error) {
	cursor, err := r.data.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	catalog := &domain.Catalog{}
	for cursor.Next(ctx) {
		var doc catalogDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		switch doc.Key {
		case "roles":
			catalog.Roles = doc.Values
		case "permissions":
			catalog.Permissions = doc.Values
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return catalog, nil
}
