package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"brokersim/internal/domain"
)

// AccountService handles registration, credential verification and password
// changes. Only salted bcrypt hashes are ever stored.
type AccountService struct {
	userRepo     domain.UserRepository
	startingCash decimal.Decimal
}

// NewAccountService creates a new AccountService
func NewAccountService(userRepo domain.UserRepository, startingCash decimal.Decimal) *AccountService {
	return &AccountService{
		userRepo:     userRepo,
		startingCash: startingCash,
	}
}

// Register creates a new user with the configured starting cash balance
func (s *AccountService) Register(ctx context.Context, username, password, confirm string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if password != confirm {
		return nil, domain.ErrPasswordMismatch
	}
	if len(password) < domain.MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Cash:         s.startingCash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique constraint on username is the authoritative check; the
	// repository maps its violation to ErrUsernameTaken.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords both come back as ErrInvalidCredentials so callers cannot
// enumerate accounts.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// ChangePassword replaces the stored hash after verifying the old password
func (s *AccountService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirm string) error {
	if newPassword != confirm {
		return domain.ErrPasswordMismatch
	}
	if len(newPassword) < domain.MinPasswordLength {
		return domain.ErrWeakPassword
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePasswordHash(ctx, userID, string(hash))
}
