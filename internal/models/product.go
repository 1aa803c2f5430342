package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultUnit     = "g"
	DefaultCategory = "general"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Unit        string             `bson:"unit" json:"unit"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	SellerID    primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	// Opaque handle the blob store needs to delete the image.
	ImageHandle string    `bson:"imageHandle,omitempty" json:"-"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ProductInput carries the fields of a create request. Numbers arrive as
// strings from multipart forms and are parsed by the catalog service.
type ProductInput struct {
	Name        string
	Price       string
	Quantity    string
	Unit        string
	Category    string
	Description string
}

// ProductPatch holds the fields of a partial update; nil means unchanged.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Unit        *string  `json:"unit"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
}

func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Quantity == nil &&
		p.Unit == nil && p.Category == nil && p.Description == nil
}
