package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// invalidCredentials is the only message a failed login ever produces, so callers cannot
// tell an unknown username from a wrong password.
const invalidCredentials = "invalid username or password"

const maxBusinessNameAttempts = 5

// AuthService handles registration and credential checks.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, bool, error)
	IssueToken(ctx context.Context, username, password string) (string, error)
}

type authService struct {
	users        repository.UserRepository
	hasher       auth.PasswordHasher
	codec        *auth.TokenCodec
	sessionTTL   time.Duration
	verification VerificationService
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	hasher auth.PasswordHasher,
	codec *auth.TokenCodec,
	sessionTTL time.Duration,
	verification VerificationService,
) AuthService {
	return &authService{
		users:        users,
		hasher:       hasher,
		codec:        codec,
		sessionTTL:   sessionTTL,
		verification: verification,
	}
}

// Register creates the user and its business profile in one transaction, then sends the
// verification mail. A mail failure is returned after the rows have been committed.
func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, apperrors.ErrUserExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	err = s.users.WithTransaction(ctx, func(users repository.UserRepository, businesses repository.BusinessRepository) error {
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrUserExists
			}
			return fmt.Errorf("create user: %w", err)
		}

		name, err := freeBusinessName(ctx, businesses, user)
		if err != nil {
			return err
		}
		profile := newBusinessProfile(user)
		profile.Name = name
		if err := businesses.Create(ctx, profile); err != nil {
			return translateStoreError("create business", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.verification.Issue(ctx, user); err != nil {
		logger.WithModule("auth").Error("verification mail failed",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return user, fmt.Errorf("send verification: %w", err)
	}

	logger.WithModule("auth").Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Authenticate checks username and password. An unknown user and a wrong password both
// report (nil, false, nil); only store failures produce an error.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.User, bool, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, false, nil
	}
	return user, true, nil
}

// IssueToken authenticates and returns a signed session token.
func (s *authService) IssueToken(ctx context.Context, username, password string) (string, error) {
	user, ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperrors.Unauthorized(invalidCredentials, nil)
	}

	return s.codec.Encode(auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Kind:     auth.KindSession,
	}, s.sessionTTL)
}

// freeBusinessName returns the username, or the username suffixed with the user id when
// another business has already taken it.
func freeBusinessName(ctx context.Context, businesses repository.BusinessRepository, user *model.User) (string, error) {
	base := user.Username
	for i := 0; i < maxBusinessNameAttempts; i++ {
		name := base
		switch {
		case i == 1:
			name = fmt.Sprintf("%s-%d", base, user.ID)
		case i > 1:
			name = fmt.Sprintf("%s-%d-%d", base, user.ID, i)
		}
		taken, err := businesses.ExistsByName(ctx, name)
		if err != nil {
			return "", fmt.Errorf("check business name: %w", err)
		}
		if !taken {
			return name, nil
		}
	}
	return "", fmt.Errorf("pick business name for %q: %w", base, apperrors.ErrConflict)
}

func newBusinessProfile(user *model.User) *model.Business {
	return &model.Business{
		Name:    user.Username,
		City:    model.DefaultRegion,
		Region:  model.DefaultRegion,
		Logo:    model.DefaultLogo,
		OwnerID: user.ID,
	}
}
