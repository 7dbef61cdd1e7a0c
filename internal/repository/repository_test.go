package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/testutil"
)

func TestUserRepository_FindByUsername(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	alice, _ := testutil.NewTestUser(t, gormDB, "alice", "secret123")

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.False(t, got.IsVerified)
	assert.False(t, got.JoinDate.IsZero())

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUserRepository_ExistsByUsernameOrEmail(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(gormDB)
	ctx := context.Background()
	testutil.NewTestUser(t, gormDB, "alice", "secret123")

	exists, err := repo.ExistsByUsernameOrEmail(ctx, "alice", "other@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameOrEmail(ctx, "bob", "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameOrEmail(ctx, "bob", "bob@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_MarkVerifiedOnce(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(gormDB)
	ctx := context.Background()
	alice, _ := testutil.NewTestUser(t, gormDB, "alice", "secret123")

	changed, err := repo.MarkVerified(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkVerified(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
}

func TestUserRepository_TouchWritesOnlyUpdatedAt(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(gormDB)
	ctx := context.Background()
	alice, _ := testutil.NewTestUser(t, gormDB, "alice", "secret123")

	stale, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, stale.IsVerified)

	changed, err := repo.MarkVerified(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, changed)

	at := time.Now().Add(time.Hour).UTC()
	require.NoError(t, repo.Touch(ctx, stale.ID, at))

	again, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, again.IsVerified)
	assert.WithinDuration(t, at, again.UpdatedAt, time.Second)
	assert.WithinDuration(t, stale.JoinDate, again.JoinDate, time.Second)
}

func TestUserRepository_WithTransactionRollsBack(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.WithTransaction(ctx, func(users repository.UserRepository, businesses repository.BusinessRepository) error {
		user := &model.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x"}
		require.NoError(t, users.Create(ctx, user))
		require.NoError(t, businesses.Create(ctx, &model.Business{Name: "carol", OwnerID: user.ID}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.FindByUsername(ctx, "carol")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBusinessRepository_FindAndUpdate(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	repo := repository.NewBusinessRepository(gormDB)
	ctx := context.Background()
	alice, business := testutil.NewTestUser(t, gormDB, "alice", "secret123")

	byOwner, err := repo.FindByOwnerID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, business.ID, byOwner.ID)

	loaded, err := repo.FindByID(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.Owner.Username)

	loaded.City = "Lahore"
	require.NoError(t, repo.Update(ctx, loaded))

	again, err := repo.FindByID(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lahore", again.City)
	assert.Equal(t, model.DefaultRegion, again.Region)
}

func TestProductRepository_CRUD(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	repo := repository.NewProductRepository(gormDB)
	ctx := context.Background()
	_, business := testutil.NewTestUser(t, gormDB, "alice", "secret123")

	product := &model.Product{
		Name:                "Lamp",
		Category:            "home",
		OriginalPrice:       decimal.RequireFromString("40.00"),
		NewPrice:            decimal.RequireFromString("30.00"),
		OfferExpirationDate: time.Now().AddDate(0, 1, 0),
		Image:               model.DefaultProductImage,
		BusinessID:          business.ID,
	}
	product.ApplyDiscount()
	require.NoError(t, repo.Create(ctx, product))
	require.NotZero(t, product.ID)

	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.PercentageDiscount)
	assert.True(t, loaded.OriginalPrice.Equal(decimal.RequireFromString("40")))
	assert.Equal(t, "alice", loaded.Business.Owner.Username)

	loaded.Name = "Desk Lamp"
	require.NoError(t, repo.Update(ctx, loaded))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Desk Lamp", list[0].Name)

	require.NoError(t, repo.Delete(ctx, product.ID))
	assert.ErrorIs(t, repo.Delete(ctx, product.ID), gorm.ErrRecordNotFound)
}

func TestBusinessRepository_ExistsByName(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	repo := repository.NewBusinessRepository(gormDB)
	ctx := context.Background()
	_, business := testutil.NewTestUser(t, gormDB, "alice", "secret123")

	taken, err := repo.ExistsByName(ctx, business.Name)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByName(ctx, "nobody's shop")
	require.NoError(t, err)
	assert.False(t, taken)
}
