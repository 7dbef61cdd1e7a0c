package seed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/repository"
	"storefront/internal/testutil"
)

const catalogJSON = `{
  "owner": {"username": "demo", "email": "demo@example.com", "password": "demo1234"},
  "business": {"business_name": "Demo Store", "city": "Lahore"},
  "products": [
    {"name": "Lamp", "category": "home", "original_price": "40.00", "new_price": "30.00", "offer_expiration_date": "2030-01-31"},
    {"name": "Mug", "category": "kitchen", "original_price": 10, "new_price": 9},
    {"name": "Freebie", "category": "misc", "original_price": "0", "new_price": "0"}
  ]
}`

func newSeeder(t *testing.T) (*Seeder, repository.UserRepository, repository.ProductRepository) {
	t.Helper()
	gormDB := testutil.NewTestDB(t)
	users := repository.NewUserRepository(gormDB)
	products := repository.NewProductRepository(gormDB)
	return NewSeeder(users, repository.NewBusinessRepository(gormDB), products, auth.NewBcryptHasher(bcrypt.MinCost)), users, products
}

func TestSeeder_Apply(t *testing.T) {
	seeder, users, products := newSeeder(t)
	ctx := context.Background()

	catalog, err := Parse([]byte(catalogJSON))
	require.NoError(t, err)

	res, err := seeder.Apply(ctx, catalog)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2, Skipped: 1}, res)

	owner, err := users.FindByUsername(ctx, "demo")
	require.NoError(t, err)
	assert.True(t, owner.IsVerified)

	lamp, err := products.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", lamp.Name)
	assert.Equal(t, 25, lamp.PercentageDiscount)
	assert.Equal(t, "Demo Store", lamp.Business.Name)
	assert.Equal(t, "Lahore", lamp.Business.City)
	assert.Equal(t, 2030, lamp.OfferExpirationDate.Year())

	again, err := seeder.Apply(ctx, catalog)
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 2, Skipped: 1}, again)

	list, err := products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestParse_RequiresOwner(t *testing.T) {
	_, err := Parse([]byte(`{"products": []}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o600))

	fromFile, err := Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, fromFile.Products, 3)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(catalogJSON))
	}))
	t.Cleanup(srv.Close)

	fromURL, err := Fetch(context.Background(), srv.URL+"/catalog.json")
	require.NoError(t, err)
	assert.Equal(t, "demo", fromURL.Owner.Username)

	_, err = Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}
