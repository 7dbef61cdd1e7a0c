package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/repository"
	"storefront/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestBusinessService_Update(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	svc := NewBusinessService(repository.NewBusinessRepository(gormDB), repository.NewProductRepository(gormDB), nil)
	ctx := context.Background()
	alice, business := testutil.NewTestUser(t, gormDB, "alice", "secret123")

	updated, err := svc.Update(ctx, alice, business.ID, BusinessUpdate{
		Name:        strPtr("Alice Lamps"),
		City:        strPtr("Lahore"),
		Description: strPtr("lamps and lights"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Lamps", updated.Name)
	assert.Equal(t, "Lahore", updated.City)
	assert.Equal(t, "Unspecified", updated.Region)

	got, err := svc.Get(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Lamps", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "lamps and lights", *got.Description)
}

func TestBusinessService_UpdateRejects(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	svc := NewBusinessService(repository.NewBusinessRepository(gormDB), repository.NewProductRepository(gormDB), nil)
	ctx := context.Background()
	alice, aliceBiz := testutil.NewTestUser(t, gormDB, "alice", "secret123")
	bob, _ := testutil.NewTestUser(t, gormDB, "bob", "secret123")

	_, err := svc.Update(ctx, bob, aliceBiz.ID, BusinessUpdate{City: strPtr("Karachi")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.Update(ctx, alice, 999, BusinessUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Update(ctx, alice, aliceBiz.ID, BusinessUpdate{Name: strPtr("bob")})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestBusinessService_SetLogo(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	svc := NewBusinessService(repository.NewBusinessRepository(gormDB), repository.NewProductRepository(gormDB), nil)
	ctx := context.Background()
	alice, business := testutil.NewTestUser(t, gormDB, "alice", "secret123")

	_, err := svc.SetLogo(ctx, alice, "/static/images/logo.png")
	require.NoError(t, err)

	got, err := svc.Get(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, "/static/images/logo.png", got.Logo)
}

func TestBusinessService_WritesRefreshProductDetails(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0)
	businessRepo := repository.NewBusinessRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	svc := NewBusinessService(businessRepo, productRepo, client)
	products := NewProductService(productRepo, businessRepo, client)
	ctx := context.Background()
	alice, business := testutil.NewTestUser(t, gormDB, "alice", "secret123")

	product, err := products.Create(ctx, alice, lampInput("40.00", "30.00"))
	require.NoError(t, err)

	detail, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", detail.Business.Name)
	require.True(t, mr.Exists(productCacheKey(product.ID)))

	_, err = svc.Update(ctx, alice, business.ID, BusinessUpdate{Name: strPtr("Alice Lamps")})
	require.NoError(t, err)
	assert.False(t, mr.Exists(productCacheKey(product.ID)))

	detail, err = products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Lamps", detail.Business.Name)

	_, err = svc.SetLogo(ctx, alice, "/static/images/new.png")
	require.NoError(t, err)

	detail, err = products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "/static/images/new.png", detail.Business.Logo)
}
