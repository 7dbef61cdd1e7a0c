package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/logger"
	"storefront/internal/media"
	"storefront/internal/model"
)

// UploadService stores resized images for business logos and products.
type UploadService interface {
	UploadLogo(ctx context.Context, caller *model.User, filename string, data []byte) (string, error)
	UploadProductImage(ctx context.Context, caller *model.User, productID uint, filename string, data []byte) (string, error)
}

type uploadService struct {
	store      media.Store
	businesses BusinessService
	products   ProductService
}

// NewUploadService creates a new upload service.
func NewUploadService(store media.Store, businesses BusinessService, products ProductService) UploadService {
	return &uploadService{store: store, businesses: businesses, products: products}
}

// UploadLogo replaces the logo of the caller's business.
func (s *uploadService) UploadLogo(ctx context.Context, caller *model.User, filename string, data []byte) (string, error) {
	ext, err := media.Extension(filename)
	if err != nil {
		return "", err
	}
	if _, err := s.businesses.ForOwner(ctx, caller); err != nil {
		return "", err
	}

	url, err := s.put(ctx, ext, data)
	if err != nil {
		return "", err
	}
	if _, err := s.businesses.SetLogo(ctx, caller, url); err != nil {
		return "", err
	}
	return url, nil
}

// UploadProductImage replaces the image of a product the caller owns.
func (s *uploadService) UploadProductImage(ctx context.Context, caller *model.User, productID uint, filename string, data []byte) (string, error) {
	ext, err := media.Extension(filename)
	if err != nil {
		return "", err
	}
	if _, err := s.products.Authorize(ctx, caller, productID); err != nil {
		return "", err
	}

	url, err := s.put(ctx, ext, data)
	if err != nil {
		return "", err
	}
	if _, err := s.products.SetImage(ctx, caller, productID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *uploadService) put(ctx context.Context, ext string, data []byte) (string, error) {
	thumb, err := media.Thumbnail(data, ext)
	if err != nil {
		return "", err
	}

	name := media.RandomName(ext)
	url, err := s.store.Put(ctx, name, media.ContentType(ext), thumb)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	logger.WithModule("upload").Debug("image stored", zap.String("url", url))
	return url, nil
}
