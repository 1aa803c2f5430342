package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace_back_end/internal/models"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{collection: db.Collection("products")}
}

func (r *mongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductRepository.Create").Msg("")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

func (r *mongoProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{}, "ProductRepository.FindAll")
}

func (r *mongoProductRepository) FindBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Product, error) {
	return r.find(ctx, bson.M{"sellerId": sellerID}, "ProductRepository.FindBySeller")
}

func (r *mongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, "ProductRepository.FindByIDs")
}

func (r *mongoProductRepository) find(ctx context.Context, filter bson.M, component string) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	products := []models.Product{}
	if err = cursor.All(ctx, &products); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductRepository.FindByID").Msg("")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// Update writes the mutable fields. sellerId and createdAt are never touched.
func (r *mongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":        product.Name,
			"price":       product.Price,
			"quantity":    product.Quantity,
			"unit":        product.Unit,
			"category":    product.Category,
			"description": product.Description,
			"imageUrl":    product.ImageURL,
			"imageHandle": product.ImageHandle,
			"updatedAt":   product.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductRepository.Update").Msg("")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductRepository.Delete").Msg("")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *mongoProductRepository) CreateIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sellerId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}

	return nil
}
