package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "catalog/internal/errors"
	"catalog/internal/model"
	"catalog/internal/repository"

	"gorm.io/gorm"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 255
	maxImageURLLen    = 255
)

// ProductInput carries the client-settable fields for a create. Any
// owner value a client submits is discarded before it reaches here.
type ProductInput struct {
	Name        string
	Description string
	ImageURL    string
}

// ProductUpdate carries a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	ImageURL    *string
}

// ProductService enforces per-owner visibility and mutation rules.
type ProductService interface {
	List(ctx context.Context, owner *model.User) ([]model.Product, error)
	Create(ctx context.Context, owner *model.User, in ProductInput) (*model.Product, error)
	BulkCreate(ctx context.Context, owner *model.User, ins []ProductInput) ([]model.Product, error)
	Get(ctx context.Context, owner *model.User, id uint) (*model.Product, error)
	Update(ctx context.Context, owner *model.User, id uint, in ProductUpdate) (*model.Product, error)
	Delete(ctx context.Context, owner *model.User, id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// List returns all products of the owner in insertion order.
func (s *productService) List(ctx context.Context, owner *model.User) ([]model.Product, error) {
	products, err := s.productRepo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Create validates fields and persists a product owned by owner.
func (s *productService) Create(ctx context.Context, owner *model.User, in ProductInput) (*model.Product, error) {
	if err := validateInput(in, -1); err != nil {
		return nil, err
	}

	product := newProduct(owner.ID, in)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// BulkCreate creates all inputs in order or none of them. Every element
// is validated before the first write, and the writes share one
// transaction, so a failure leaves no partial batch behind.
func (s *productService) BulkCreate(ctx context.Context, owner *model.User, ins []ProductInput) ([]model.Product, error) {
	for i, in := range ins {
		if err := validateInput(in, i); err != nil {
			return nil, err
		}
	}

	created := make([]model.Product, 0, len(ins))
	err := s.productRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.ProductRepository) error {
		for _, in := range ins {
			product := newProduct(owner.ID, in)
			if err := txRepo.Create(ctx, product); err != nil {
				return err
			}
			created = append(created, *product)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk create products: %w", err)
	}
	return created, nil
}

// Get returns the owner's product with the given id.
func (s *productService) Get(ctx context.Context, owner *model.User, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByIDAndOwner(ctx, id, owner.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

// Update applies the supplied fields to the owner's product. ID and
// owner are immutable regardless of input.
func (s *productService) Update(ctx context.Context, owner *model.User, id uint, in ProductUpdate) (*model.Product, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByIDAndOwner(ctx, id, owner.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// Delete permanently removes the owner's product with the given id.
func (s *productService) Delete(ctx context.Context, owner *model.User, id uint) error {
	if err := s.productRepo.DeleteByIDAndOwner(ctx, id, owner.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func newProduct(ownerID uint, in ProductInput) *model.Product {
	return &model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		OwnerID:     ownerID,
	}
}

// validateInput checks create fields. Limits count characters, not
// bytes. index >= 0 marks a bulk element.
func validateInput(in ProductInput, index int) error {
	if strings.TrimSpace(in.Name) == "" {
		return &apperrors.ValidationError{Field: "name", Index: index, Message: "is required"}
	}
	if utf8.RuneCountInString(in.Name) > maxNameLen {
		return &apperrors.ValidationError{Field: "name", Index: index, Message: fmt.Sprintf("must be at most %d characters", maxNameLen)}
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		return &apperrors.ValidationError{Field: "description", Index: index, Message: fmt.Sprintf("must be at most %d characters", maxDescriptionLen)}
	}
	if utf8.RuneCountInString(in.ImageURL) > maxImageURLLen {
		return &apperrors.ValidationError{Field: "image_url", Index: index, Message: fmt.Sprintf("must be at most %d characters", maxImageURLLen)}
	}
	return nil
}

func validateUpdate(in ProductUpdate) error {
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return apperrors.NewValidationError("name", "must not be blank")
		}
		if utf8.RuneCountInString(*in.Name) > maxNameLen {
			return apperrors.NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxNameLen))
		}
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		return apperrors.NewValidationError("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLen))
	}
	if in.ImageURL != nil && utf8.RuneCountInString(*in.ImageURL) > maxImageURLLen {
		return apperrors.NewValidationError("image_url", fmt.Sprintf("must be at most %d characters", maxImageURLLen))
	}
	return nil
}
