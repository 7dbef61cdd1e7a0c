package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// BusinessUpdate carries the editable business fields; nil fields are left unchanged.
type BusinessUpdate struct {
	Name        *string
	City        *string
	Region      *string
	Description *string
}

// BusinessService manages business profiles.
type BusinessService interface {
	Get(ctx context.Context, id uint) (*model.Business, error)
	ForOwner(ctx context.Context, owner *model.User) (*model.Business, error)
	Update(ctx context.Context, caller *model.User, id uint, in BusinessUpdate) (*model.Business, error)
	SetLogo(ctx context.Context, caller *model.User, logoURL string) (*model.Business, error)
}

type businessService struct {
	businesses repository.BusinessRepository
	products   repository.ProductRepository
	cache      *cache.Client
}

// NewBusinessService creates a new business service. Writes drop the cached details of the
// business's products; cache may be nil.
func NewBusinessService(businesses repository.BusinessRepository, products repository.ProductRepository, cache *cache.Client) BusinessService {
	return &businessService{businesses: businesses, products: products, cache: cache}
}

func (s *businessService) Get(ctx context.Context, id uint) (*model.Business, error) {
	business, err := s.businesses.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreError("find business", err)
	}
	return business, nil
}

// ForOwner returns the business profile created at registration.
func (s *businessService) ForOwner(ctx context.Context, owner *model.User) (*model.Business, error) {
	business, err := s.businesses.FindByOwnerID(ctx, owner.ID)
	if err != nil {
		return nil, translateStoreError("find business by owner", err)
	}
	return business, nil
}

// Update applies in to business id if caller owns it.
func (s *businessService) Update(ctx context.Context, caller *model.User, id uint, in BusinessUpdate) (*model.Business, error) {
	business, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if business.OwnerID != caller.ID {
		return nil, apperrors.ErrForbidden
	}

	if in.Name != nil {
		business.Name = *in.Name
	}
	if in.City != nil {
		business.City = *in.City
	}
	if in.Region != nil {
		business.Region = *in.Region
	}
	if in.Description != nil {
		business.Description = in.Description
	}

	if err := s.businesses.Update(ctx, business); err != nil {
		return nil, translateStoreError("update business", err)
	}
	s.invalidateProducts(ctx, business.ID)
	return business, nil
}

// SetLogo points the caller's business logo at logoURL.
func (s *businessService) SetLogo(ctx context.Context, caller *model.User, logoURL string) (*model.Business, error) {
	business, err := s.ForOwner(ctx, caller)
	if err != nil {
		return nil, err
	}
	business.Logo = logoURL
	if err := s.businesses.Update(ctx, business); err != nil {
		return nil, translateStoreError("update logo", err)
	}
	s.invalidateProducts(ctx, business.ID)
	return business, nil
}

// invalidateProducts drops cached product details, which embed the business.
func (s *businessService) invalidateProducts(ctx context.Context, businessID uint) {
	if s.cache == nil {
		return
	}
	ids, err := s.products.IDsByBusiness(ctx, businessID)
	if err != nil {
		logger.WithModule("business").Warn("product cache not invalidated",
			zap.Uint("business_id", businessID),
			zap.Error(err),
		)
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productCacheKey(id))
	}
	_ = s.cache.Delete(ctx, keys...)
}

// translateStoreError maps gorm sentinels onto domain errors and wraps everything else.
func translateStoreError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, apperrors.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
