package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const invalidTokenMessage = "invalid token"

// SessionService turns bearer tokens back into users.
type SessionService interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
	Revoke(ctx context.Context, token string) error
}

type sessionService struct {
	users  repository.UserRepository
	codec  *auth.TokenCodec
	tokens auth.TokenStoreInterface
}

// NewSessionService creates a new session service.
func NewSessionService(users repository.UserRepository, codec *auth.TokenCodec, tokens auth.TokenStoreInterface) SessionService {
	return &sessionService{users: users, codec: codec, tokens: tokens}
}

// Resolve decodes a session token, loads its user and touches the record. Every token
// failure is ErrUnauthorized wrapping the codec's cause.
func (s *sessionService) Resolve(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.codec.Decode(token, auth.KindSession)
	if err != nil {
		return nil, apperrors.Unauthorized(invalidTokenMessage, err)
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.Unauthorized(invalidTokenMessage, apperrors.ErrInvalidToken)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized(invalidTokenMessage, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	now := time.Now()
	if err := s.users.Touch(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("touch user: %w", err)
	}
	user.UpdatedAt = now
	return user, nil
}

// Revoke blocks token until its own expiry.
func (s *sessionService) Revoke(ctx context.Context, token string) error {
	claims, err := s.codec.Decode(token, auth.KindSession)
	if err != nil {
		return apperrors.Unauthorized(invalidTokenMessage, err)
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
