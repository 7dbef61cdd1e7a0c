package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "storefront/internal/errors"
)

// TokenKind separates session tokens from verification tokens sharing one secret.
type TokenKind string

const (
	KindSession      TokenKind = "session"
	KindVerification TokenKind = "verification"
)

// Claims is the payload carried by every token.
type Claims struct {
	UserID   uint      `json:"id"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	Kind     TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenCodec encodes and decodes HS256 tokens with a shared secret.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

// NewTokenCodec creates a codec signing with secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Encode signs claims. A positive ttl sets the expiry; session tokens also get a unique ID.
func (c *TokenCodec) Encode(claims Claims, ttl time.Duration) (string, error) {
	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	if claims.Kind == KindSession && claims.ID == "" {
		claims.ID = uuid.NewString()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies tokenString and returns its claims. It fails with ErrExpiredToken when a
// correctly signed token is past its expiry, and ErrInvalidToken for everything else,
// including a token of a kind other than want.
func (c *TokenCodec) Decode(tokenString string, want TokenKind) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		if isOnlyExpired(err) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.Kind != want {
		return nil, fmt.Errorf("%w: expected %s token", apperrors.ErrInvalidToken, want)
	}
	return claims, nil
}

// isOnlyExpired reports whether expiry is the sole validation failure. A token whose
// signature also failed is invalid, not expired.
func isOnlyExpired(err error) bool {
	var ve *jwt.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	return ve.Errors == jwt.ValidationErrorExpired
}
