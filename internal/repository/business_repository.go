package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/model"
)

// BusinessRepository defines business persistence operations.
type BusinessRepository interface {
	Create(ctx context.Context, business *model.Business) error
	Update(ctx context.Context, business *model.Business) error
	FindByID(ctx context.Context, id uint) (*model.Business, error)
	FindByOwnerID(ctx context.Context, ownerID uint) (*model.Business, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository.
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

// Create creates a new business.
func (r *businessRepository) Create(ctx context.Context, business *model.Business) error {
	return r.db.WithContext(ctx).Create(business).Error
}

// Update updates an existing business.
func (r *businessRepository) Update(ctx context.Context, business *model.Business) error {
	return r.db.WithContext(ctx).Omit("Owner", "Products").Save(business).Error
}

// FindByID finds a business by ID with its owner loaded.
func (r *businessRepository) FindByID(ctx context.Context, id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.WithContext(ctx).Preload("Owner").First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// FindByOwnerID returns the first business owned by the user.
func (r *businessRepository) FindByOwnerID(ctx context.Context, ownerID uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// ExistsByName reports whether a business already uses name.
func (r *businessRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Business{}).
		Where("business_name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
