package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/testutil"
)

type sessionFixture struct {
	db      *gorm.DB
	codec   *auth.TokenCodec
	redis   *miniredis.Miniredis
	service SessionService
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	gormDB := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	codec := auth.NewTokenCodec(testSecret)
	store := auth.NewTokenStore(cache.New(mr.Addr(), "", 0))

	return &sessionFixture{
		db:      gormDB,
		codec:   codec,
		redis:   mr,
		service: NewSessionService(repository.NewUserRepository(gormDB), codec, store),
	}
}

func (f *sessionFixture) sessionToken(t *testing.T, user *model.User) string {
	t.Helper()
	tok, err := f.codec.Encode(auth.Claims{UserID: user.ID, Username: user.Username, Kind: auth.KindSession}, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestSessionService_Resolve(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	alice, _ := testutil.NewTestUser(t, f.db, "alice", "secret123")

	old := time.Now().Add(-24 * time.Hour).UTC()
	require.NoError(t, f.db.Model(&model.User{}).Where("id = ?", alice.ID).UpdateColumn("updated_at", old).Error)

	user, err := f.service.Resolve(ctx, f.sessionToken(t, alice))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.Equal(t, "alice", user.Username)

	var reloaded model.User
	require.NoError(t, f.db.First(&reloaded, alice.ID).Error)
	assert.True(t, reloaded.UpdatedAt.After(old.Add(time.Hour)), "resolve should touch updated_at")
	assert.WithinDuration(t, alice.JoinDate, reloaded.JoinDate, time.Second)
}

// interleavedUsers runs between once, after loading a user and before returning it.
type interleavedUsers struct {
	repository.UserRepository
	between func()
}

func (u *interleavedUsers) FindByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := u.UserRepository.FindByID(ctx, id)
	if err == nil && u.between != nil {
		u.between()
		u.between = nil
	}
	return user, err
}

func TestSessionService_Resolve_KeepsConcurrentVerification(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	alice, _ := testutil.NewTestUser(t, f.db, "alice", "secret123")

	repo := repository.NewUserRepository(f.db)
	verification := NewVerificationService(repo, f.codec, &recordingMailer{}, 24*time.Hour, "http://localhost:8080")
	link, err := f.codec.Encode(auth.Claims{UserID: alice.ID, Email: alice.Email, Kind: auth.KindVerification}, time.Hour)
	require.NoError(t, err)

	var outcome Outcome
	users := &interleavedUsers{UserRepository: repo, between: func() {
		res, err := verification.Redeem(ctx, link)
		require.NoError(t, err)
		outcome = res.Outcome
	}}
	svc := NewSessionService(users, f.codec, auth.NewTokenStore(cache.New(f.redis.Addr(), "", 0)))

	_, err = svc.Resolve(ctx, f.sessionToken(t, alice))
	require.NoError(t, err)
	assert.Equal(t, OutcomeVerified, outcome)

	var reloaded model.User
	require.NoError(t, f.db.First(&reloaded, alice.ID).Error)
	assert.True(t, reloaded.IsVerified, "touch must not revert the verified flag")
}

func TestSessionService_Resolve_Rejects(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	alice, _ := testutil.NewTestUser(t, f.db, "alice", "secret123")

	verificationToken, err := f.codec.Encode(auth.Claims{UserID: alice.ID, Email: alice.Email, Kind: auth.KindVerification}, time.Hour)
	require.NoError(t, err)
	otherSecret, err := auth.NewTokenCodec("other").Encode(auth.Claims{UserID: alice.ID, Kind: auth.KindSession}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		wantCause error
	}{
		{"garbage", "garbage", apperrors.ErrInvalidToken},
		{"empty", "", apperrors.ErrInvalidToken},
		{"wrong secret", otherSecret, apperrors.ErrInvalidToken},
		{"verification token", verificationToken, apperrors.ErrInvalidToken},
		{"expired", signExpired(t, auth.Claims{UserID: alice.ID, Kind: auth.KindSession}), apperrors.ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := f.service.Resolve(ctx, tt.token)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
			assert.ErrorIs(t, err, tt.wantCause)
			assert.Equal(t, "invalid token", err.Error())
		})
	}
}

func TestSessionService_Resolve_DeletedUser(t *testing.T) {
	f := newSessionFixture(t)
	ghost := &model.User{ID: 999, Username: "ghost"}

	_, err := f.service.Resolve(context.Background(), f.sessionToken(t, ghost))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSessionService_Revoke(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	alice, _ := testutil.NewTestUser(t, f.db, "alice", "secret123")

	tok := f.sessionToken(t, alice)
	other := f.sessionToken(t, alice)

	require.NoError(t, f.service.Revoke(ctx, tok))

	_, err := f.service.Resolve(ctx, tok)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.service.Resolve(ctx, other)
	assert.NoError(t, err, "revoking one session must not affect another")

	assert.ErrorIs(t, f.service.Revoke(ctx, "garbage"), apperrors.ErrUnauthorized)
}

func TestSessionService_Resolve_StoreFailure(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenStore)
	codec := auth.NewTokenCodec(testSecret)
	svc := NewSessionService(users, codec, tokens)

	tok, err := codec.Encode(auth.Claims{UserID: 1, Kind: auth.KindSession}, time.Hour)
	require.NoError(t, err)

	boom := errors.New("db down")
	tokens.On("IsRevoked", mock.Anything, mock.Anything).Return(false, nil)
	users.On("FindByID", mock.Anything, uint(1)).Return(nil, boom)

	_, err = svc.Resolve(context.Background(), tok)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
	users.AssertNotCalled(t, "Touch", mock.Anything, mock.Anything, mock.Anything)
}
