package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const (
	productCacheTTL     = 5 * time.Minute
	productListCacheKey = "products:all"
)

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name                string
	Category            string
	OriginalPrice       decimal.Decimal
	NewPrice            decimal.Decimal
	OfferExpirationDate *time.Time
	Description         *string
}

// BusinessDetail is the public view of the business behind a product.
type BusinessDetail struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Region      string    `json:"region"`
	Description *string   `json:"description"`
	Logo        string    `json:"logo"`
	OwnerID     uint      `json:"owner_id"`
	Email       string    `json:"email"`
	JoinDate    time.Time `json:"join_date"`
}

// ProductDetail is a product together with its business.
type ProductDetail struct {
	Product  model.Product  `json:"product_details"`
	Business BusinessDetail `json:"business_details"`
}

// ProductService manages the product catalog.
type ProductService interface {
	Create(ctx context.Context, caller *model.User, in ProductInput) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id uint) (*ProductDetail, error)
	Update(ctx context.Context, caller *model.User, id uint, in ProductInput) (*model.Product, error)
	Delete(ctx context.Context, caller *model.User, id uint) error
	// Authorize loads product id and fails with ErrForbidden unless caller owns it.
	Authorize(ctx context.Context, caller *model.User, id uint) (*model.Product, error)
	SetImage(ctx context.Context, caller *model.User, id uint, imageURL string) (*model.Product, error)
}

type productService struct {
	products   repository.ProductRepository
	businesses repository.BusinessRepository
	cache      *cache.Client
	now        func() time.Time
}

// NewProductService creates a new product service. cache may be nil.
func NewProductService(products repository.ProductRepository, businesses repository.BusinessRepository, cache *cache.Client) ProductService {
	return &productService{
		products:   products,
		businesses: businesses,
		cache:      cache,
		now:        time.Now,
	}
}

// Create adds a product to the caller's business.
func (s *productService) Create(ctx context.Context, caller *model.User, in ProductInput) (*model.Product, error) {
	if !in.OriginalPrice.IsPositive() {
		return nil, apperrors.ErrInvalidPrice
	}

	business, err := s.businesses.FindByOwnerID(ctx, caller.ID)
	if err != nil {
		return nil, translateStoreError("find business", err)
	}

	product := &model.Product{
		Image:               model.DefaultProductImage,
		OfferExpirationDate: s.now(),
		BusinessID:          business.ID,
	}
	applyProductInput(product, in)

	if err := s.products.Create(ctx, product); err != nil {
		return nil, translateStoreError("create product", err)
	}
	s.invalidate(ctx, product.ID)
	return product, nil
}

func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	var cached []model.Product
	if s.cache.GetJSON(ctx, productListCacheKey, &cached) {
		return cached, nil
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	s.cache.SetJSON(ctx, productListCacheKey, products, productCacheTTL)
	return products, nil
}

func (s *productService) Get(ctx context.Context, id uint) (*ProductDetail, error) {
	var cached ProductDetail
	if s.cache.GetJSON(ctx, productCacheKey(id), &cached) {
		return &cached, nil
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreError("find product", err)
	}

	b := product.Business
	detail := &ProductDetail{
		Product: *product,
		Business: BusinessDetail{
			ID:          b.ID,
			Name:        b.Name,
			City:        b.City,
			Region:      b.Region,
			Description: b.Description,
			Logo:        b.Logo,
			OwnerID:     b.OwnerID,
			Email:       b.Owner.Email,
			JoinDate:    b.Owner.JoinDate,
		},
	}
	s.cache.SetJSON(ctx, productCacheKey(id), detail, productCacheTTL)
	return detail, nil
}

func (s *productService) Update(ctx context.Context, caller *model.User, id uint, in ProductInput) (*model.Product, error) {
	if !in.OriginalPrice.IsPositive() {
		return nil, apperrors.ErrInvalidPrice
	}

	product, err := s.Authorize(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	applyProductInput(product, in)

	if err := s.products.Update(ctx, product); err != nil {
		return nil, translateStoreError("update product", err)
	}
	s.invalidate(ctx, id)
	return product, nil
}

func (s *productService) Delete(ctx context.Context, caller *model.User, id uint) error {
	if _, err := s.Authorize(ctx, caller, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return translateStoreError("delete product", err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) Authorize(ctx context.Context, caller *model.User, id uint) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreError("find product", err)
	}
	if product.Business.OwnerID != caller.ID {
		return nil, apperrors.ErrForbidden
	}
	return product, nil
}

func (s *productService) SetImage(ctx context.Context, caller *model.User, id uint, imageURL string) (*model.Product, error) {
	product, err := s.Authorize(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	product.Image = imageURL
	if err := s.products.Update(ctx, product); err != nil {
		return nil, translateStoreError("update product image", err)
	}
	s.invalidate(ctx, id)
	return product, nil
}

func (s *productService) invalidate(ctx context.Context, id uint) {
	_ = s.cache.Delete(ctx, productCacheKey(id), productListCacheKey)
}

func applyProductInput(p *model.Product, in ProductInput) {
	p.Name = in.Name
	p.Category = in.Category
	p.OriginalPrice = in.OriginalPrice
	p.NewPrice = in.NewPrice
	if in.OfferExpirationDate != nil {
		p.OfferExpirationDate = *in.OfferExpirationDate
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	p.ApplyDiscount()
}
