package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kelana-travel/kelana/internal/types"
)

type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) Register(ctx context.Context, username, password string) (*types.User, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(*types.User)
	return user, args.Error(1)
}

func (m *MockAuthRepository) Login(ctx context.Context, username, password string) (*types.User, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(*types.User)
	return user, args.Error(1)
}

func (m *MockAuthRepository) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuthRepository) CurrentUser(ctx context.Context) (*types.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*types.User)
	return user, args.Error(1)
}

func (m *MockAuthRepository) WatchSession(ctx context.Context) (<-chan *types.User, error) {
	args := m.Called(ctx)
	ch, _ := args.Get(0).(<-chan *types.User)
	return ch, args.Error(1)
}

func TestService_Register_Validation(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testLogger())
	ctx := context.Background()

	t.Run("short username", func(t *testing.T) {
		_, err := svc.Register(ctx, "al", "pw123456")
		assert.ErrorIs(t, err, types.ErrValidation)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "pw")
		assert.ErrorIs(t, err, types.ErrValidation)
	})

	t.Run("whitespace does not pad the username", func(t *testing.T) {
		_, err := svc.Register(ctx, "  a  ", "pw123456")
		assert.ErrorIs(t, err, types.ErrValidation)
	})

	// No repository call happens for invalid input.
	repo.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)

	t.Run("valid input reaches the repository", func(t *testing.T) {
		repo.On("Register", mock.Anything, "alice", "pw123456").
			Return(&types.User{ID: "u1", Username: "alice"}, nil).Once()

		user, err := svc.Register(ctx, "alice", "pw123456")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		repo.AssertExpectations(t)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("propagates invalid credentials", func(t *testing.T) {
		repo := new(MockAuthRepository)
		repo.On("Login", mock.Anything, "alice", "wrong").
			Return(nil, types.ErrInvalidCredentials).Once()

		svc := NewService(repo, testLogger())
		_, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, types.ErrInvalidCredentials)
		repo.AssertExpectations(t)
	})

	t.Run("returns the session user", func(t *testing.T) {
		repo := new(MockAuthRepository)
		repo.On("Login", mock.Anything, "alice", "pw123456").
			Return(&types.User{ID: "u1", Username: "alice"}, nil).Once()

		svc := NewService(repo, testLogger())
		user, err := svc.Login(ctx, "alice", "pw123456")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		repo.AssertExpectations(t)
	})
}

func TestService_Logout_PropagatesError(t *testing.T) {
	repo := new(MockAuthRepository)
	storeErr := errors.New("store unavailable")
	repo.On("Logout", mock.Anything).Return(storeErr).Once()

	svc := NewService(repo, testLogger())
	err := svc.Logout(context.Background())
	assert.ErrorIs(t, err, storeErr)
	repo.AssertExpectations(t)
}

func TestService_CurrentUser_NilWhenLoggedOut(t *testing.T) {
	repo := new(MockAuthRepository)
	repo.On("CurrentUser", mock.Anything).Return(nil, nil).Once()

	svc := NewService(repo, testLogger())
	user, err := svc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	repo.AssertExpectations(t)
}
