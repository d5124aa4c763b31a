package domain

import "errors"

// Recoverable, user-facing conditions. Every validation failure
// short-circuits before any mutation occurs; unexpected storage failures are
// wrapped and propagate as-is instead.
var (
	// ErrUnknownSymbol means the quote provider does not recognise the symbol.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrQuoteUnavailable means a live quote could not be fetched in time.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrInsufficientFunds means a buy would cost more than the cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares means a sell would drive net holdings negative.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrInvalidQuantity means the requested share quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrUsernameTaken means the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrWeakPassword means the password is shorter than MinPasswordLength.
	ErrWeakPassword = errors.New("password too weak")

	// ErrPasswordMismatch means the password and its confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidCredentials covers both unknown username and wrong password,
	// indistinguishably, to avoid username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound means no user exists for the given id or username.
	ErrUserNotFound = errors.New("user not found")
)
