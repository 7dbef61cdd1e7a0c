// Package seed loads a demo catalog into the store.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// Catalog is the seed file layout.
type Catalog struct {
	Owner    Owner     `json:"owner"`
	Business Business  `json:"business"`
	Products []Product `json:"products"`
}

// Owner is the verified user that owns the seeded business.
type Owner struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Business overrides the defaults of the owner's business profile.
type Business struct {
	Name        string  `json:"business_name"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	Description *string `json:"business_description"`
}

// Product is one catalog entry. Dates are YYYY-MM-DD.
type Product struct {
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	OriginalPrice       decimal.Decimal `json:"original_price"`
	NewPrice            decimal.Decimal `json:"new_price"`
	OfferExpirationDate string          `json:"offer_expiration_date"`
	Description         *string         `json:"product_description"`
}

// Result counts what Apply changed.
type Result struct {
	Created int
	Updated int
	Skipped int
}

// Parse decodes a catalog.
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if catalog.Owner.Username == "" || catalog.Owner.Email == "" || catalog.Owner.Password == "" {
		return nil, errors.New("catalog owner needs username, email and password")
	}
	return &catalog, nil
}

// Fetch reads a catalog from an http(s) URL or a local file path.
func Fetch(ctx context.Context, source string) (*Catalog, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		return Parse(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return Parse(body)
}

// Seeder writes a catalog through the repositories.
type Seeder struct {
	users      repository.UserRepository
	businesses repository.BusinessRepository
	products   repository.ProductRepository
	hasher     auth.PasswordHasher
}

// NewSeeder creates a seeder.
func NewSeeder(users repository.UserRepository, businesses repository.BusinessRepository, products repository.ProductRepository, hasher auth.PasswordHasher) *Seeder {
	return &Seeder{users: users, businesses: businesses, products: products, hasher: hasher}
}

// Apply creates the owner if missing and upserts every product by name. Products with a
// non-positive original price are skipped. Running it twice changes nothing new.
func (s *Seeder) Apply(ctx context.Context, catalog *Catalog) (Result, error) {
	var res Result

	business, err := s.ensureOwner(ctx, catalog)
	if err != nil {
		return res, err
	}

	for _, item := range catalog.Products {
		if !item.OriginalPrice.IsPositive() {
			res.Skipped++
			continue
		}

		existing, err := s.products.FindByName(ctx, item.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fmt.Errorf("error checking product %s: %w", item.Name, err)
		}

		product := existing
		if product == nil {
			product = &model.Product{
				Image:               model.DefaultProductImage,
				OfferExpirationDate: time.Now(),
			}
		}
		product.Name = item.Name
		product.Category = item.Category
		product.OriginalPrice = item.OriginalPrice
		product.NewPrice = item.NewPrice
		product.Description = item.Description
		product.BusinessID = business.ID
		if item.OfferExpirationDate != "" {
			expires, err := time.Parse("2006-01-02", item.OfferExpirationDate)
			if err != nil {
				res.Skipped++
				continue
			}
			product.OfferExpirationDate = expires
		}
		product.ApplyDiscount()

		if existing != nil {
			if err := s.products.Update(ctx, product); err != nil {
				return res, fmt.Errorf("error updating product %s: %w", item.Name, err)
			}
			res.Updated++
			continue
		}
		if err := s.products.Create(ctx, product); err != nil {
			return res, fmt.Errorf("error creating product %s: %w", item.Name, err)
		}
		res.Created++
	}

	return res, nil
}

// ensureOwner creates the verified owner and its business on first run and applies the
// catalog's business overrides every run.
func (s *Seeder) ensureOwner(ctx context.Context, catalog *Catalog) (*model.Business, error) {
	owner, err := s.users.FindByUsername(ctx, catalog.Owner.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking owner: %w", err)
	}

	if owner == nil {
		hash, err := s.hasher.Hash(catalog.Owner.Password)
		if err != nil {
			return nil, err
		}
		owner = &model.User{
			Username:     catalog.Owner.Username,
			Email:        catalog.Owner.Email,
			PasswordHash: hash,
		}
		err = s.users.WithTransaction(ctx, func(users repository.UserRepository, businesses repository.BusinessRepository) error {
			if err := users.Create(ctx, owner); err != nil {
				return err
			}
			return businesses.Create(ctx, &model.Business{
				Name:    catalog.Owner.Username,
				City:    model.DefaultRegion,
				Region:  model.DefaultRegion,
				Logo:    model.DefaultLogo,
				OwnerID: owner.ID,
			})
		})
		if err != nil {
			return nil, fmt.Errorf("error creating owner: %w", err)
		}
		if _, err := s.users.MarkVerified(ctx, owner.ID); err != nil {
			return nil, fmt.Errorf("error verifying owner: %w", err)
		}
	}

	business, err := s.businesses.FindByOwnerID(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading business: %w", err)
	}

	b := catalog.Business
	if b.Name != "" {
		business.Name = b.Name
	}
	if b.City != "" {
		business.City = b.City
	}
	if b.Region != "" {
		business.Region = b.Region
	}
	if b.Description != nil {
		business.Description = b.Description
	}
	if err := s.businesses.Update(ctx, business); err != nil {
		return nil, fmt.Errorf("error updating business: %w", err)
	}
	return business, nil
}
