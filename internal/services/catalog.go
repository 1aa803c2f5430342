package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"marketplace_back_end/internal/errs"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogService struct {
	products repository.ProductRepository
	blobs    BlobStore
}

func NewCatalogService(products repository.ProductRepository, blobs BlobStore) *CatalogService {
	return &CatalogService{products: products, blobs: blobs}
}

func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.products.FindAll(ctx)
}

func (s *CatalogService) ListBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(sellerID)
	if err != nil {
		return []models.Product{}, nil
	}
	return s.products.FindBySeller(ctx, oid)
}

// Create stores a product owned by callerID. When image is not nil it is
// uploaded first and a failed upload aborts the whole operation.
func (s *CatalogService) Create(ctx context.Context, callerID string, in models.ProductInput, image *Upload) (*models.Product, error) {
	sellerID, err := primitive.ObjectIDFromHex(callerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid caller id", errs.ErrUnauthorized)
	}

	product, err := productFromInput(in)
	if err != nil {
		return nil, err
	}
	product.SellerID = sellerID

	if image != nil {
		img, err := s.blobs.Upload(ctx, *image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = img.URL
		product.ImageHandle = img.Handle
	}

	if err := s.products.Create(ctx, product); err != nil {
		if product.ImageHandle != "" {
			s.deleteImage(ctx, product.ImageHandle)
		}
		return nil, err
	}

	log.Ctx(ctx).Info().Str("component", "CreateProduct").Str("product_id", product.ID.Hex()).Msg("product created")

	return product, nil
}

// Update applies the non nil fields of patch. Callers that do not own the
// product get errs.ErrForbidden.
func (s *CatalogService) Update(ctx context.Context, callerID, productID string, patch models.ProductPatch) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, callerID, productID)
	if err != nil {
		return nil, err
	}

	if err := applyPatch(product, patch); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: product", errs.ErrNotFound)
		}
		return nil, err
	}

	return product, nil
}

// Delete removes the product and, best effort, its image. It returns the
// record as it was before deletion.
func (s *CatalogService) Delete(ctx context.Context, callerID, productID string) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, callerID, productID)
	if err != nil {
		return nil, err
	}

	if product.ImageHandle != "" {
		s.deleteImage(ctx, product.ImageHandle)
	}

	if err := s.products.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: product", errs.ErrNotFound)
		}
		return nil, err
	}

	log.Ctx(ctx).Info().Str("component", "DeleteProduct").Str("product_id", product.ID.Hex()).Msg("product deleted")

	return product, nil
}

func (s *CatalogService) ownedProduct(ctx context.Context, callerID, productID string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, fmt.Errorf("%w: product", errs.ErrNotFound)
	}

	product, err := s.products.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: product", errs.ErrNotFound)
		}
		return nil, err
	}

	if product.SellerID.Hex() != callerID {
		log.Ctx(ctx).Warn().Str("component", "ownedProduct").Str("product_id", productID).Str("caller", callerID).Msg("caller does not own product")
		return nil, fmt.Errorf("%w: product", errs.ErrForbidden)
	}

	return product, nil
}

func (s *CatalogService) deleteImage(ctx context.Context, handle string) {
	if err := s.blobs.Delete(ctx, handle); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "deleteImage").Str("handle", handle).Msg("failed to delete image, continuing")
	}
}

func productFromInput(in models.ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", errs.ErrValidation)
	}
	if strings.TrimSpace(in.Price) == "" {
		return nil, fmt.Errorf("%w: price is required", errs.ErrValidation)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: price must be a number", errs.ErrValidation)
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	quantity := 0
	if q := strings.TrimSpace(in.Quantity); q != "" {
		quantity, err = strconv.Atoi(q)
		if err != nil {
			return nil, fmt.Errorf("%w: quantity must be a whole number", errs.ErrValidation)
		}
		if err := validateQuantity(quantity); err != nil {
			return nil, err
		}
	}

	return &models.Product{
		Name:        name,
		Price:       price,
		Quantity:    quantity,
		Unit:        withDefault(in.Unit, models.DefaultUnit),
		Category:    withDefault(in.Category, models.DefaultCategory),
		Description: strings.TrimSpace(in.Description),
	}, nil
}

func applyPatch(product *models.Product, patch models.ProductPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return fmt.Errorf("%w: name cannot be empty", errs.ErrValidation)
		}
		product.Name = name
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return err
		}
		product.Price = *patch.Price
	}
	if patch.Quantity != nil {
		if err := validateQuantity(*patch.Quantity); err != nil {
			return err
		}
		product.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		product.Unit = withDefault(*patch.Unit, models.DefaultUnit)
	}
	if patch.Category != nil {
		product.Category = withDefault(*patch.Category, models.DefaultCategory)
	}
	if patch.Description != nil {
		product.Description = strings.TrimSpace(*patch.Description)
	}

	return nil
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return fmt.Errorf("%w: price must be greater than 0", errs.ErrValidation)
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", errs.ErrValidation)
	}
	return nil
}

func withDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
