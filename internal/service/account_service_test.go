package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"brokersim/internal/domain"
)

// memUsers is an in-memory UserRepository
type memUsers struct {
	byID       map[uuid.UUID]*domain.User
	byUsername map[string]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{
		byID:       make(map[uuid.UUID]*domain.User),
		byUsername: make(map[string]*domain.User),
	}
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	if _, ok := m.byUsername[user.Username]; ok {
		return domain.ErrUsernameTaken
	}
	u := *user
	m.byID[u.ID] = &u
	m.byUsername[u.Username] = &u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := m.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (m *memUsers) UpdatePasswordHash(_ context.Context, userID uuid.UUID, hash string) error {
	user, ok := m.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.PasswordHash = hash
	return nil
}

func newAccountService() (*AccountService, *memUsers) {
	users := newMemUsers()
	return NewAccountService(users, decimal.RequireFromString("10000.00")), users
}

func TestRegisterThenAuthenticate(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "correcthorse", "correcthorse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if got := user.Cash.StringFixed(2); got != "10000.00" {
		t.Errorf("expected starting cash 10000.00, got %s", got)
	}
	if user.PasswordHash == "correcthorse" {
		t.Error("plaintext password stored as hash")
	}

	authed, err := svc.Authenticate(ctx, "alice", "correcthorse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if authed.ID != user.ID {
		t.Errorf("authenticated wrong user: %s != %s", authed.ID, user.ID)
	}
}

// Wrong password and unknown username must be indistinguishable
func TestAuthenticateInvalidCredentials(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "correcthorse", "correcthorse"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, wrongPass := svc.Authenticate(ctx, "alice", "wrongpassword")
	_, noUser := svc.Authenticate(ctx, "nobody", "correcthorse")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(noUser, domain.ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Errorf("error messages differ: %q vs %q", wrongPass, noUser)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		confirm  string
		want     error
	}{
		{"short password", "bob", "short", "short", domain.ErrWeakPassword},
		{"confirmation mismatch", "bob", "correcthorse", "wronghorse", domain.ErrPasswordMismatch},
		{"blank username", "", "correcthorse", "correcthorse", domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.username, tt.password, tt.confirm); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegisterUsernameTaken(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "correcthorse", "correcthorse"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "otherpassword", "otherpassword"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "correcthorse", "correcthorse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "correcthorse", "new", "new"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "correcthorse", "newpassword", "different"); !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "wrongold", "newpassword", "newpassword"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "correcthorse", "newpassword", "newpassword"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "alice", "correcthorse"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password still accepted after change")
	}
	if _, err := svc.Authenticate(ctx, "alice", "newpassword"); err != nil {
		t.Errorf("new password rejected after change: %v", err)
	}
}
