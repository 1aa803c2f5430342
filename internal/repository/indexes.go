package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the indexes both collections rely on. It is safe to
// call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := &mongoUserRepository{collection: db.Collection("users")}
	if err := users.CreateIndexes(ctx); err != nil {
		return err
	}

	products := &mongoProductRepository{collection: db.Collection("products")}
	return products.CreateIndexes(ctx)
}
