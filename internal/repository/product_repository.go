package repository

import (
	"context"

	"gorm.io/gorm"

	"catalog/internal/model"
)

// ProductRepository defines product persistence operations. Every read
// and mutation is scoped by owner; there is no unscoped lookup.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Product, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ProductRepository) error) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// ListByOwner lists all products of an owner in insertion order. The
// result is never nil so an empty list serializes as [].
func (r *productRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Product, error) {
	products := []model.Product{}
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDAndOwner finds a product by ID, restricted to the given owner.
// A product owned by someone else behaves exactly like a missing one.
func (r *productRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update updates an existing product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// DeleteByIDAndOwner permanently removes a product, restricted to the
// given owner. Returns gorm.ErrRecordNotFound if nothing was deleted.
func (r *productRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// WithTransaction executes a function within a database transaction.
func (r *productRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &productRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
