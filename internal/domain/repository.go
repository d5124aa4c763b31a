package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user. Returns ErrUsernameTaken if the username
	// already exists.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)

	// UpdatePasswordHash replaces the stored password hash
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error
}

// LedgerRepository defines the interface for the append-only trade ledger and
// the cash balance it settles against.
type LedgerRepository interface {
	// RecordBuy appends the transaction and deducts cost from the user's cash
	// balance as a single database transaction. Returns ErrInsufficientFunds
	// if the balance cannot cover the cost.
	RecordBuy(ctx context.Context, txn *Transaction, cost decimal.Decimal) error

	// RecordSell appends the transaction (negative shares) and credits
	// proceeds to the user's cash balance as a single database transaction.
	// Returns ErrInsufficientShares if net holdings of the symbol are below
	// the quantity being sold at commit time.
	RecordSell(ctx context.Context, txn *Transaction, proceeds decimal.Decimal) error

	// History retrieves all of a user's transactions, newest first
	History(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)

	// Holdings retrieves net share counts per symbol for a user. Net-zero
	// positions are included only when includeClosed is true.
	Holdings(ctx context.Context, userID uuid.UUID, includeClosed bool) ([]Holding, error)

	// HoldingForSymbol retrieves the net share count of one symbol for a user
	HoldingForSymbol(ctx context.Context, userID uuid.UUID, symbol string) (int64, error)

	// ActiveSymbols retrieves every symbol with a non-zero net position
	// across all users
	ActiveSymbols(ctx context.Context) ([]string, error)
}
