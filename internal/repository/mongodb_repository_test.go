package repository

import (
	"context"
	"testing"
	"time"

	"marketplace_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupTestDB(t *testing.T) *mongo.Database {
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	db := client.Database("testdb")
	require.NoError(t, EnsureIndexes(ctx, db))

	return db
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash", Role: models.RoleBuyer}
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.ID.IsZero())
	assert.NotNil(t, user.Cart)

	t.Run("duplicate email", func(t *testing.T) {
		dup := &models.User{Name: "Other", Email: "alice@example.com", PasswordHash: "hash", Role: models.RoleSeller}
		assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateEmail)
	})

	t.Run("find by email and id", func(t *testing.T) {
		byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
		assert.Equal(t, "hash", byEmail.PasswordHash)

		byID, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", byID.Name)

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update cart", func(t *testing.T) {
		cart := []models.CartItem{{ProductID: primitive.NewObjectID(), Quantity: 2}}
		require.NoError(t, repo.UpdateCart(ctx, user.ID, cart))

		got, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, got.Cart, 1)
		assert.Equal(t, cart[0].ProductID, got.Cart[0].ProductID)
		assert.Equal(t, 2, got.Cart[0].Quantity)

		assert.ErrorIs(t, repo.UpdateCart(ctx, primitive.NewObjectID(), cart), ErrNotFound)
	})
}

func TestProductRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	sellerID := primitive.NewObjectID()
	apple := &models.Product{Name: "Apple", Price: 10, Quantity: 5, Unit: "g", Category: "fruit", SellerID: sellerID, ImageHandle: "products/apple.jpg"}
	require.NoError(t, repo.Create(ctx, apple))
	time.Sleep(5 * time.Millisecond)
	pear := &models.Product{Name: "Pear", Price: 4, Unit: "g", Category: "fruit", SellerID: primitive.NewObjectID()}
	require.NoError(t, repo.Create(ctx, pear))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Apple", all[0].Name)

	bySeller, err := repo.FindBySeller(ctx, sellerID)
	require.NoError(t, err)
	require.Len(t, bySeller, 1)
	assert.Equal(t, apple.ID, bySeller[0].ID)

	none, err := repo.FindBySeller(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	byIDs, err := repo.FindByIDs(ctx, []primitive.ObjectID{pear.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, "Pear", byIDs[0].Name)

	apple.Price = 12
	require.NoError(t, repo.Update(ctx, apple))
	got, err := repo.FindByID(ctx, apple.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.Price)
	assert.Equal(t, sellerID, got.SellerID)
	assert.Equal(t, "products/apple.jpg", got.ImageHandle)

	require.NoError(t, repo.Delete(ctx, apple.ID))
	_, err = repo.FindByID(ctx, apple.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, apple.ID), ErrNotFound)
}
