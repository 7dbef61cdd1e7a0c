package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/mail"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// Outcome is the result of redeeming a verification link.
type Outcome int

const (
	OutcomeVerified Outcome = iota + 1
	OutcomeAlreadyVerified
	OutcomeExpired
	OutcomeInvalid
)

// Message is the text shown to the person who followed the link.
func (o Outcome) Message() string {
	switch o {
	case OutcomeVerified:
		return "Your account has been verified. You may now add products and manage your business profile."
	case OutcomeAlreadyVerified:
		return "Your account is already verified."
	case OutcomeExpired:
		return "link expired"
	default:
		return "invalid token"
	}
}

// Succeeded reports whether the account ends up verified.
func (o Outcome) Succeeded() bool {
	return o == OutcomeVerified || o == OutcomeAlreadyVerified
}

// Redemption carries the outcome and, on success, the verified user.
type Redemption struct {
	Outcome Outcome
	User    *model.User
}

// VerificationService issues and redeems email verification links.
type VerificationService interface {
	Issue(ctx context.Context, user *model.User) (string, error)
	Redeem(ctx context.Context, token string) (*Redemption, error)
}

type verificationService struct {
	users   repository.UserRepository
	codec   *auth.TokenCodec
	mailer  mail.Mailer
	ttl     time.Duration
	baseURL string
}

// NewVerificationService creates a verification service linking back to baseURL.
func NewVerificationService(
	users repository.UserRepository,
	codec *auth.TokenCodec,
	mailer mail.Mailer,
	ttl time.Duration,
	baseURL string,
) VerificationService {
	return &verificationService{
		users:   users,
		codec:   codec,
		mailer:  mailer,
		ttl:     ttl,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Issue mails a verification link to user and returns the embedded token.
func (s *verificationService) Issue(ctx context.Context, user *model.User) (string, error) {
	token, err := s.codec.Encode(auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Kind:     auth.KindVerification,
	}, s.ttl)
	if err != nil {
		return "", err
	}

	body, err := mail.RenderVerification(mail.VerificationData{
		Username: user.Username,
		Link:     s.link(token),
	})
	if err != nil {
		return "", err
	}

	if err := s.mailer.Send(ctx, mail.Message{
		To:      user.Email,
		Subject: mail.VerificationSubject,
		HTML:    body,
	}); err != nil {
		return "", err
	}
	return token, nil
}

func (s *verificationService) link(token string) string {
	return s.baseURL + "/verification?token=" + url.QueryEscape(token)
}

// Redeem verifies the account named by token. Bad or expired tokens are outcomes, not
// errors; only store failures return an error. Redeeming twice is harmless.
func (s *verificationService) Redeem(ctx context.Context, token string) (*Redemption, error) {
	claims, err := s.codec.Decode(token, auth.KindVerification)
	switch {
	case errors.Is(err, apperrors.ErrExpiredToken):
		return &Redemption{Outcome: OutcomeExpired}, nil
	case err != nil:
		return &Redemption{Outcome: OutcomeInvalid}, nil
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Redemption{Outcome: OutcomeInvalid}, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if claims.Email != "" && claims.Email != user.Email {
		return &Redemption{Outcome: OutcomeInvalid}, nil
	}

	if user.IsVerified {
		return &Redemption{Outcome: OutcomeAlreadyVerified, User: user}, nil
	}

	changed, err := s.users.MarkVerified(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	user.IsVerified = true
	if !changed {
		// a concurrent redemption got there first
		return &Redemption{Outcome: OutcomeAlreadyVerified, User: user}, nil
	}

	logger.WithModule("verification").Info("user verified", zap.Uint("user_id", user.ID))
	return &Redemption{Outcome: OutcomeVerified, User: user}, nil
}
