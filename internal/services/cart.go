package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"marketplace_back_end/internal/errs"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartUpdate struct {
	ProductID string
	Quantity  int
	Remove    bool
}

type CartService struct {
	users    repository.UserRepository
	products repository.ProductRepository
}

func NewCartService(users repository.UserRepository, products repository.ProductRepository) *CartService {
	return &CartService{users: users, products: products}
}

// AddOrUpdate adds quantity to the caller's entry for the product, creating
// it when missing, or drops the entry when Remove is set.
func (s *CartService) AddOrUpdate(ctx context.Context, callerID string, in CartUpdate) (*models.User, error) {
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product_id", errs.ErrValidation)
	}
	if !in.Remove && in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than 0", errs.ErrValidation)
	}

	user, err := s.loadUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range user.Cart {
		if user.Cart[i].ProductID == productID {
			idx = i
			break
		}
	}

	switch {
	case in.Remove && idx < 0:
		return user, nil
	case in.Remove:
		user.Cart = append(user.Cart[:idx], user.Cart[idx+1:]...)
	case idx >= 0:
		if in.Quantity > math.MaxInt-user.Cart[idx].Quantity {
			return nil, fmt.Errorf("%w: quantity too large", errs.ErrValidation)
		}
		user.Cart[idx].Quantity += in.Quantity
	default:
		if _, err := s.products.FindByID(ctx, productID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: product", errs.ErrNotFound)
			}
			return nil, err
		}
		user.Cart = append(user.Cart, models.CartItem{ProductID: productID, Quantity: in.Quantity})
	}

	if user.Cart == nil {
		user.Cart = []models.CartItem{}
	}

	if err := s.users.UpdateCart(ctx, user.ID, user.Cart); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", errs.ErrNotFound)
		}
		return nil, err
	}

	return user, nil
}

// GetCart joins every cart entry with its current product. Entries whose
// product was deleted are left out.
func (s *CartService) GetCart(ctx context.Context, callerID string) ([]models.CartLine, error) {
	user, err := s.loadUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(user.Cart))
	for _, item := range user.Cart {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]models.CartLine, 0, len(user.Cart))
	for _, item := range user.Cart {
		p, ok := byID[item.ProductID]
		if !ok {
			log.Ctx(ctx).Debug().Str("component", "GetCart").Str("product_id", item.ProductID.Hex()).Msg("skipping cart entry for deleted product")
			continue
		}

		lines = append(lines, models.CartLine{
			ProductID: p.ID.Hex(),
			Name:      p.Name,
			Quantity:  item.Quantity,
			Price:     p.Price,
			Unit:      p.Unit,
			ImageURL:  p.ImageURL,
		})
	}

	return lines, nil
}

func (s *CartService) loadUser(ctx context.Context, callerID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(callerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", errs.ErrValidation)
	}

	user, err := s.users.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", errs.ErrNotFound)
		}
		return nil, err
	}

	return user, nil
}
