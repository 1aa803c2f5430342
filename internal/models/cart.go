package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CartItem is one entry of User.Cart. ProductID is unique within a cart.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// CartLine is a cart entry joined with the current product data.
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
	ImageURL  string  `json:"imageUrl"`
}
