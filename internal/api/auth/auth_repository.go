package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kelana-travel/kelana/app/kv"
	"github.com/kelana-travel/kelana/internal/types"
)

// Storage keys. The whole registered-user collection lives under one key and
// is rewritten on every mutation; the session is a single user snapshot.
const (
	usersKey   = "users"
	sessionKey = "user"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// Register appends a new user after scanning for a username conflict.
	Register(ctx context.Context, username, password string) (*types.User, error)
	// Login scans for an exact (username, password) pair and stores the
	// matching user as the current session.
	Login(ctx context.Context, username, password string) (*types.User, error)
	// Logout clears the session key. The registered-user collection is
	// untouched.
	Logout(ctx context.Context) error
	// CurrentUser returns the session snapshot, or nil when logged out.
	CurrentUser(ctx context.Context) (*types.User, error)
	// WatchSession emits the new session snapshot whenever the backing store
	// reports an external change, kv.ErrWatchUnsupported otherwise.
	WatchSession(ctx context.Context) (<-chan *types.User, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	store  kv.Store
}

func NewRepository(store kv.Store, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, store: store}
}

func (r *RepositoryImpl) users(ctx context.Context) ([]types.User, error) {
	var users []types.User
	if _, err := kv.GetJSON(ctx, r.store, usersKey, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func (r *RepositoryImpl) Register(ctx context.Context, username, password string) (*types.User, error) {
	users, err := r.users(ctx)
	if err != nil {
		return nil, err
	}
	// Case-sensitive exact match, same as the original registration form.
	for _, u := range users {
		if u.Username == username {
			return nil, fmt.Errorf("register %q: %w", username, types.ErrDuplicateUsername)
		}
	}

	user := types.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: password, // plaintext by contract, see types.User
	}
	users = append(users, user)
	if err := kv.SetJSON(ctx, r.store, usersKey, users); err != nil {
		return nil, fmt.Errorf("save users: %w", err)
	}
	return &user, nil
}

func (r *RepositoryImpl) Login(ctx context.Context, username, password string) (*types.User, error) {
	users, err := r.users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username && u.Password == password {
			if err := kv.SetJSON(ctx, r.store, sessionKey, u); err != nil {
				return nil, fmt.Errorf("save session: %w", err)
			}
			return &u, nil
		}
	}
	// Unknown user and wrong password are indistinguishable on purpose.
	return nil, types.ErrInvalidCredentials
}

func (r *RepositoryImpl) Logout(ctx context.Context) error {
	if err := r.store.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) CurrentUser(ctx context.Context) (*types.User, error) {
	var user types.User
	ok, err := kv.GetJSON(ctx, r.store, sessionKey, &user)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *RepositoryImpl) WatchSession(ctx context.Context) (<-chan *types.User, error) {
	events, err := kv.WatchStore(ctx, r.store)
	if err != nil {
		return nil, err
	}

	out := make(chan *types.User, 1)
	go func() {
		defer close(out)
		for ev := range events {
			if ev.Key != "" && ev.Key != sessionKey {
				continue
			}
			user, err := r.CurrentUser(ctx)
			if err != nil {
				r.logger.Warn("session refresh failed", slog.Any("error", err))
				continue
			}
			select {
			case out <- user:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
