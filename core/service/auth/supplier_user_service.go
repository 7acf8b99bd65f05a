// Package auth implements the identity collaborator: paired account creation
// and HTTP Basic credential verification.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"supplier_server/core/domain"
	"supplier_server/core/port/out"
	"supplier_server/pkg/apperr"
)

// Service manages the user records paired with supplier records.
type Service struct {
	repo    out.UserRepository
	timeout time.Duration
	log     zerolog.Logger
}

// NewService creates the identity service.
func NewService(repo out.UserRepository, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		timeout: 500 * time.Millisecond,
		log:     log.With().Str("component", "user_service").Logger(),
	}
}

// Create stores a new account. The username is unique (case-insensitively,
// stored lowercased) and the password is bcrypt-hashed.
func (s *Service) Create(ctx context.Context, account domain.Account) (*domain.User, error) {
	username := strings.ToLower(account.Username)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.UsernameExists(account.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &domain.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: string(hash),
		Roles:    account.Roles,
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.log.Debug().Str("username", username).Msg("user created")
	return user, nil
}

// Authenticate verifies Basic credentials and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.FindByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthorized()
	}
	return user, nil
}

// HasRole reports whether the user holds one of the wanted roles.
func HasRole(user *domain.User, wanted ...string) bool {
	for _, want := range wanted {
		for _, have := range user.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
