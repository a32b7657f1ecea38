// Package user manages accounts with unique usernames and emails and bcrypt-hashed passwords.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/peroute/hackwest-project/internal/domain"
	domuser "github.com/peroute/hackwest-project/internal/domain/user"
)

// Service handles account CRUD.
type Service struct {
	repo            Repository
	cost            int
	defaultPageSize int
	maxPageSize     int
}

// New creates a user service.
func New(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost, defaultPageSize: 100, maxPageSize: 500}
}

// WithCost overrides the bcrypt cost.
func (s *Service) WithCost(cost int) *Service {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		s.cost = cost
	}
	return s
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// NewAccount is a registration request.
type NewAccount struct {
	Username string
	Email    string
	Password string
	Active   bool
	Admin    bool
}

// Create registers an account.
func (s *Service) Create(ctx context.Context, in NewAccount) (domuser.User, error) {
	if err := validatePassword(in.Password); err != nil {
		return domuser.User{}, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return domuser.User{}, err
	}
	u, err := domuser.New(in.Username, in.Email, hash, in.Active, in.Admin)
	if err != nil {
		return domuser.User{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	if err := s.ensureUnique(ctx, 0, u.Username(), u.Email()); err != nil {
		return domuser.User{}, err
	}

	created, err := s.repo.Create(ctx, &u)
	if err != nil {
		return domuser.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id int64) (domuser.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// List returns a page of accounts ordered by id.
func (s *Service) List(ctx context.Context, skip, limit int) ([]domuser.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	us, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return us, nil
}

// Update applies a partial change. A new password is re-hashed.
func (s *Service) Update(ctx context.Context, id int64, upd domuser.Update) (domuser.User, error) {
	if upd.IsEmpty() {
		return domuser.User{}, domain.NewValidationError("body", "no fields to update")
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}

	username, email := current.Username(), current.Email()
	if upd.Username != nil {
		username = strings.TrimSpace(*upd.Username)
		if err := domuser.ValidateUsername(username); err != nil {
			return domuser.User{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}
	if upd.Email != nil {
		email = strings.TrimSpace(*upd.Email)
		if err := domuser.ValidateEmail(email); err != nil {
			return domuser.User{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}

	var hash string
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return domuser.User{}, err
		}
		if hash, err = s.hash(*upd.Password); err != nil {
			return domuser.User{}, err
		}
	}

	if err := s.ensureUnique(ctx, id, username, email); err != nil {
		return domuser.User{}, err
	}

	updated := current.Apply(upd, hash)
	if err := s.repo.Update(ctx, &updated); err != nil {
		return domuser.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// Delete removes an account. Its history is kept but detached.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ensureUnique rejects a username or email owned by an account other than selfID.
func (s *Service) ensureUnique(ctx context.Context, selfID int64, username, email string) error {
	if other, err := s.repo.FindByUsername(ctx, username); err == nil {
		if other.ID() != selfID {
			return fmt.Errorf("username already registered: %w", domain.ErrAlreadyExists)
		}
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("find user by username: %w", err)
	}

	if other, err := s.repo.FindByEmail(ctx, email); err == nil {
		if other.ID() != selfID {
			return fmt.Errorf("email already registered: %w", domain.ErrAlreadyExists)
		}
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("find user by email: %w", err)
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func validatePassword(p string) error {
	if len(p) < domuser.MinPasswordLen {
		return domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", domuser.MinPasswordLen))
	}
	if len(p) > 72 {
		return domain.NewValidationError("password", "must be at most 72 bytes")
	}
	return nil
}
