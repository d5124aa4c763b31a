package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"brokersim/internal/domain"
)

// LedgerRepositoryImpl implements the LedgerRepository interface
type LedgerRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) domain.LedgerRepository {
	return &LedgerRepositoryImpl{db: db}
}

// RecordBuy appends the transaction and deducts cost from the user's cash
// balance atomically. The balance guard runs inside the UPDATE itself, so a
// concurrent buy cannot slip between the check and the debit.
func (r *LedgerRepositoryImpl) RecordBuy(ctx context.Context, txn *domain.Transaction, cost decimal.Decimal) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin buy transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET cash = cash - $1, updated_at = NOW()
		WHERE id = $2 AND cash >= $1
	`, cost, txn.UserID)
	if err != nil {
		return fmt.Errorf("failed to debit cash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientFunds
	}

	if err := appendEntry(ctx, tx, txn); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit buy: %w", err)
	}

	return nil
}

// RecordSell appends the transaction (negative shares) and credits proceeds
// to the user's cash balance atomically. The user row is locked first so the
// holdings sum cannot change between the check and the append.
func (r *LedgerRepositoryImpl) RecordSell(ctx context.Context, txn *domain.Transaction, proceeds decimal.Decimal) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin sell transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serializes trades per user
	var cash decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT cash FROM users WHERE id = $1 FOR UPDATE`, txn.UserID).Scan(&cash)
	if err != nil {
		return fmt.Errorf("failed to lock user row: %w", err)
	}

	var held int64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(shares), 0)::BIGINT
		FROM transactions
		WHERE user_id = $1 AND symbol = $2
	`, txn.UserID, txn.Symbol).Scan(&held)
	if err != nil {
		return fmt.Errorf("failed to sum holdings: %w", err)
	}

	if held < -txn.Shares {
		return domain.ErrInsufficientShares
	}

	if err := appendEntry(ctx, tx, txn); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET cash = cash + $1, updated_at = NOW()
		WHERE id = $2
	`, proceeds, txn.UserID)
	if err != nil {
		return fmt.Errorf("failed to credit cash: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sell: %w", err)
	}

	return nil
}

// appendEntry inserts one ledger row inside an open database transaction
func appendEntry(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (id, user_id, symbol, shares, price, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		txn.ID,
		txn.UserID,
		txn.Symbol,
		txn.Shares,
		txn.Price,
		txn.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// History retrieves all of a user's transactions, newest first
func (r *LedgerRepositoryImpl) History(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, symbol, shares, price, executed_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY executed_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction history: %w", err)
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn := &domain.Transaction{}
		err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.Symbol,
			&txn.Shares,
			&txn.Price,
			&txn.ExecutedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}

// Holdings retrieves net share counts per symbol for a user
func (r *LedgerRepositoryImpl) Holdings(ctx context.Context, userID uuid.UUID, includeClosed bool) ([]domain.Holding, error) {
	query := `
		SELECT symbol, SUM(shares)::BIGINT AS shares
		FROM transactions
		WHERE user_id = $1
		GROUP BY symbol
	`
	if !includeClosed {
		query += ` HAVING SUM(shares) <> 0`
	}
	query += ` ORDER BY symbol ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var h domain.Holding
		if err := rows.Scan(&h.Symbol, &h.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// HoldingForSymbol retrieves the net share count of one symbol for a user
func (r *LedgerRepositoryImpl) HoldingForSymbol(ctx context.Context, userID uuid.UUID, symbol string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(shares), 0)::BIGINT
		FROM transactions
		WHERE user_id = $1 AND symbol = $2
	`

	var held int64
	if err := r.db.QueryRow(ctx, query, userID, symbol).Scan(&held); err != nil {
		return 0, fmt.Errorf("failed to sum holding for %s: %w", symbol, err)
	}

	return held, nil
}

// ActiveSymbols retrieves every symbol with a non-zero net position across all users
func (r *LedgerRepositoryImpl) ActiveSymbols(ctx context.Context) ([]string, error) {
	query := `
		SELECT symbol
		FROM transactions
		GROUP BY symbol
		HAVING SUM(shares) <> 0
		ORDER BY symbol ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbols: %w", err)
	}

	return symbols, nil
}
