package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"learntrack/internal/cache"
	dom "learntrack/internal/domain"
	"learntrack/internal/repo"

	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// UserService handles accounts and credential checks.
type UserService struct {
	cacheInvalidator
	store repo.Store
	now   func() time.Time
}

// NewUserService returns a new UserService. If c is nil, caching is disabled.
func NewUserService(store repo.Store, c *cache.DashboardCache) *UserService {
	return &UserService{cacheInvalidator: cacheInvalidator{c}, store: store, now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

// ValidateCredentials checks username and password; returns user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	var u dom.User
	err := s.store.Read(ctx, func(tx repo.Tx) error {
		var err error
		u, err = tx.Users().GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if !u.IsActive {
		return dom.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new active user with a hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (dom.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return dom.User{}, invalidf("email", "a valid email is required")
	}
	if in.Username == "" {
		return dom.User{}, invalidf("username", "is required")
	}
	if in.Password == "" {
		return dom.User{}, invalidf("password", "is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	var u dom.User
	err = s.store.Write(ctx, func(tx repo.Tx) error {
		u, err = tx.Users().Create(ctx, dom.User{
			Email:        in.Email,
			Username:     in.Username,
			PasswordHash: string(hash),
			FirstName:    strings.TrimSpace(in.FirstName),
			LastName:     strings.TrimSpace(in.LastName),
			IsActive:     true,
			CreatedAt:    s.now(),
		})
		return err
	})
	switch {
	case errors.Is(err, repo.ErrEmailTaken):
		return dom.User{}, ErrEmailTaken
	case errors.Is(err, repo.ErrUsernameTaken):
		return dom.User{}, ErrUsernameTaken
	case err != nil:
		return dom.User{}, err
	}
	return u, nil
}

// Get returns the caller's account. A vanished account means the caller
// can no longer be identified.
func (s *UserService) Get(ctx context.Context, userID int64) (dom.User, error) {
	var u dom.User
	err := s.store.Read(ctx, func(tx repo.Tx) error {
		var err error
		u, err = tx.Users().GetByID(ctx, userID)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return dom.User{}, ErrUnauthorized
	}
	return u, err
}

// Delete removes the account with all of its goals and tasks.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	err := s.store.Write(ctx, func(tx repo.Tx) error {
		return tx.Users().Delete(ctx, userID)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}
