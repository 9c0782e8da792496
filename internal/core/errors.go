package core

import (
	"errors"
	"fmt"
)

// Base error categories. Every failure produced by the engine wraps one of
// these so callers can dispatch with errors.Is without string matching.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid request")
	ErrConflict   = errors.New("conflict")
)

// Not-found sentinels per entity kind.
var (
	ErrWalletNotFound      = fmt.Errorf("wallet %w", ErrNotFound)
	ErrDebtNotFound        = fmt.Errorf("debt %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrTemplateNotFound    = fmt.Errorf("recurring template %w", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)
	ErrGoalNotFound        = fmt.Errorf("savings goal %w", ErrNotFound)
	ErrBudgetNotFound      = fmt.Errorf("budget %w", ErrNotFound)
)

// Validation sentinels.
var (
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	ErrInvalidDate        = fmt.Errorf("%w: date is required", ErrValidation)
	ErrUnknownType        = fmt.Errorf("%w: unknown transaction type", ErrValidation)
	ErrUnknownFrequency   = fmt.Errorf("%w: unknown frequency", ErrValidation)
	ErrMissingUser        = fmt.Errorf("%w: user is required", ErrValidation)
	ErrMissingWallet      = fmt.Errorf("%w: wallet is required", ErrValidation)
	ErrMissingCategory    = fmt.Errorf("%w: category is required", ErrValidation)
	ErrMissingName        = fmt.Errorf("%w: name is required", ErrValidation)
	ErrDebtRequired       = fmt.Errorf("%w: debt repayment requires a debt reference", ErrValidation)
	ErrDebtNotAllowed     = fmt.Errorf("%w: debt reference is only valid for debt repayments", ErrValidation)
	ErrSameWallet         = fmt.Errorf("%w: transfer requires two distinct wallets", ErrValidation)
	ErrMissingToWallet    = fmt.Errorf("%w: transfer requires a destination wallet", ErrValidation)
	ErrToWalletNotAllowed = fmt.Errorf("%w: destination wallet is only valid for transfers", ErrValidation)
)

// Conflict sentinels.
var (
	ErrWalletInUse  = fmt.Errorf("%w: wallet is referenced by transaction history", ErrConflict)
	ErrBudgetExists = fmt.Errorf("%w: budget already exists for this category and period", ErrConflict)
)

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err wraps ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
