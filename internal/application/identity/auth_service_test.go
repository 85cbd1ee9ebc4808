package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopcraft/storefront/internal/domain/identity"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/infrastructure/auth"
	"github.com/shopcraft/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func newTestAuthService(repo identity.UserRepository) (*AuthService, *auth.InMemoryTokenBlacklist) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		Issuer:                 "storefront-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		MaxRefreshCount:        3,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(repo, jwtService, blacklist, zap.NewNop()), blacklist
}

func createTestUser(t *testing.T, id int64) *identity.User {
	t.Helper()
	user, err := identity.NewUser("shopper", "secret123")
	require.NoError(t, err)
	user.ID = id
	return user
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and returns tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).
			Run(func(args mock.Arguments) { args.Get(1).(*identity.User).ID = 7 }).
			Return(nil)

		result, err := svc.Register(ctx, RegisterInput{Username: "newbie", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, int64(7), result.User.ID)
		assert.Equal(t, "newbie", result.User.Username)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		repo.AssertExpectations(t)
	})

	t.Run("taken username", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("Create", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := svc.Register(ctx, RegisterInput{Username: "newbie", Password: "secret123"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})

	t.Run("invalid credentials never reach the repository", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		_, err := svc.Register(ctx, RegisterInput{Username: "ab", Password: "secret123"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t, 3)

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("FindByUsername", ctx, "shopper").Return(user, nil)

		result, err := svc.Login(ctx, LoginInput{Username: "shopper", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.User.ID)

		claims, err := svc.ValidateAccessToken(ctx, result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(3), claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("FindByUsername", ctx, "shopper").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Username: "shopper", Password: "nope-nope"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})

	t.Run("unknown user gets the same error as a wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginInput{Username: "ghost", Password: "secret123"})
		require.Error(t, err)
		assert.Equal(t, "Invalid username or password", err.(*shared.DomainError).Message)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t, 5)

	repo := new(MockUserRepository)
	svc, _ := newTestAuthService(repo)
	repo.On("FindByUsername", ctx, "shopper").Return(user, nil)
	repo.On("FindByID", ctx, int64(5)).Return(user, nil)

	login, err := svc.Login(ctx, LoginInput{Username: "shopper", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = svc.Refresh(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
	require.Error(t, err, "a rotated refresh token cannot be replayed")
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))

	_, err = svc.Refresh(ctx, RefreshTokenInput{RefreshToken: login.AccessToken})
	require.Error(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t, 9)

	repo := new(MockUserRepository)
	svc, _ := newTestAuthService(repo)
	repo.On("FindByUsername", ctx, "shopper").Return(user, nil)

	login, err := svc.Login(ctx, LoginInput{Username: "shopper", Password: "secret123"})
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(ctx, login.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, LogoutInput{UserID: 9, TokenJTI: claims.ID, TTL: claims.GetRemainingTTL()}))

	_, err = svc.ValidateAccessToken(ctx, login.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenBlacklisted)
}

func TestAuthService_Profile(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, _ := newTestAuthService(repo)
	repo.On("FindByID", ctx, int64(404)).Return(nil, shared.ErrNotFound)

	_, err := svc.Profile(ctx, 404)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
