package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryUsers struct {
	m     sync.Mutex
	users map[primitive.ObjectID]models.User
	err   error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[primitive.ObjectID]models.User{}}
}

func copyUser(u models.User) *models.User {
	u.Cart = append([]models.CartItem{}, u.Cart...)
	return &u
}

func (r *memoryUsers) Create(_ context.Context, user *models.User) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = *copyUser(*user)
	return nil
}

func (r *memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUsers) UpdateCart(_ context.Context, id primitive.ObjectID, cart []models.CartItem) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Cart = append([]models.CartItem{}, cart...)
	r.users[id] = u
	return nil
}

type memoryProducts struct {
	m        sync.Mutex
	products map[primitive.ObjectID]models.Product
	order    []primitive.ObjectID
	err      error
}

func newMemoryProducts() *memoryProducts {
	return &memoryProducts{products: map[primitive.ObjectID]models.Product{}}
}

func (r *memoryProducts) Create(_ context.Context, product *models.Product) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	product.ID = primitive.NewObjectID()
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)
	return nil
}

func (r *memoryProducts) list(keep func(models.Product) bool) ([]models.Product, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []models.Product{}
	for _, id := range r.order {
		if p, ok := r.products[id]; ok && keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryProducts) FindAll(context.Context) ([]models.Product, error) {
	return r.list(func(models.Product) bool { return true })
}

func (r *memoryProducts) FindBySeller(_ context.Context, sellerID primitive.ObjectID) ([]models.Product, error) {
	return r.list(func(p models.Product) bool { return p.SellerID == sellerID })
}

func (r *memoryProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	want := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return r.list(func(p models.Product) bool { return want[p.ID] })
}

func (r *memoryProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *memoryProducts) Update(_ context.Context, product *models.Product) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	old, ok := r.products[product.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := *product
	updated.SellerID = old.SellerID
	r.products[product.ID] = updated
	return nil
}

func (r *memoryProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

type fakeBlobStore struct {
	m         sync.Mutex
	uploads   []string
	deletes   []string
	uploadErr error
	deleteErr error
}

func (b *fakeBlobStore) Upload(_ context.Context, file Upload) (Image, error) {
	b.m.Lock()
	defer b.m.Unlock()
	if b.uploadErr != nil {
		return Image{}, b.uploadErr
	}
	if _, err := io.Copy(io.Discard, file.Body); err != nil {
		return Image{}, err
	}
	handle := "products/" + file.Filename
	b.uploads = append(b.uploads, handle)
	return Image{URL: "http://blob.test/" + handle, Handle: handle}, nil
}

func (b *fakeBlobStore) Delete(_ context.Context, handle string) error {
	b.m.Lock()
	defer b.m.Unlock()
	b.deletes = append(b.deletes, handle)
	return b.deleteErr
}

var errStoreDown = errors.New("store unavailable")
