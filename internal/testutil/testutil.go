// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/db"
	"storefront/internal/model"
)

// NewTestDB opens a private in-memory SQLite database with the schema applied.
// The connection is closed via t.Cleanup.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	gormDB, err := db.NewSQLite(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return gormDB
}

// NewTestUser inserts a user with the given password and a business named after the user.
func NewTestUser(t *testing.T, gormDB *gorm.DB, username, password string) (*model.User, *model.Business) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	require.NoError(t, gormDB.WithContext(context.Background()).Create(user).Error)

	business := &model.Business{
		Name:    username,
		City:    model.DefaultRegion,
		Region:  model.DefaultRegion,
		Logo:    model.DefaultLogo,
		OwnerID: user.ID,
	}
	require.NoError(t, gormDB.WithContext(context.Background()).Create(business).Error)
	return user, business
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
