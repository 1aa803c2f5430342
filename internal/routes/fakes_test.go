package routes

import (
	"context"
	"sync"

	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryUsers struct {
	m     sync.Mutex
	users []models.User
}

func (r *memoryUsers) Create(_ context.Context, user *models.User) error {
	r.m.Lock()
	defer r.m.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	r.users = append(r.users, *user)
	return nil
}

func (r *memoryUsers) find(match func(models.User) bool) (*models.User, error) {
	r.m.Lock()
	defer r.m.Unlock()
	for _, u := range r.users {
		if match(u) {
			u.Cart = append([]models.CartItem{}, u.Cart...)
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *memoryUsers) UpdateCart(_ context.Context, id primitive.ObjectID, cart []models.CartItem) error {
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].Cart = append([]models.CartItem{}, cart...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memoryProducts struct {
	m        sync.Mutex
	products []models.Product
}

func (r *memoryProducts) Create(_ context.Context, product *models.Product) error {
	r.m.Lock()
	defer r.m.Unlock()
	product.ID = primitive.NewObjectID()
	r.products = append(r.products, *product)
	return nil
}

func (r *memoryProducts) filter(keep func(models.Product) bool) []models.Product {
	r.m.Lock()
	defer r.m.Unlock()
	out := []models.Product{}
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *memoryProducts) FindAll(context.Context) ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

func (r *memoryProducts) FindBySeller(_ context.Context, sellerID primitive.ObjectID) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.SellerID == sellerID }), nil
}

func (r *memoryProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		for _, id := range ids {
			if p.ID == id {
				return true
			}
		}
		return false
	}), nil
}

func (r *memoryProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	found := r.filter(func(p models.Product) bool { return p.ID == id })
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return &found[0], nil
}

func (r *memoryProducts) Update(_ context.Context, product *models.Product) error {
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.products {
		if r.products[i].ID == product.ID {
			r.products[i] = *product
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memoryProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
