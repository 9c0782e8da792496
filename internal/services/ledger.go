// Package services holds the mutation engine: the ledger, the debt tracker,
// the streak tracker, the activity logger and the orchestrators that group
// their writes into one unit of work.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/familyfin/internal/core"
	"github.com/yanuaroby/familyfin/internal/storage"
)

// Ledger applies a transaction's balance effect to its wallets. It is the
// only component that writes wallet balances. Balances may go negative;
// overdrafts are a presentation concern, not a ledger one.
type Ledger struct{}

// Apply mutates wallet balances for t inside the caller's unit of work.
func (Ledger) Apply(ctx context.Context, q *storage.Queries, t core.Transaction, now time.Time) error {
	switch t.Type {
	case core.Income:
		return adjustWallet(ctx, q, t.WalletID, t.Amount, now)
	case core.Expense, core.DebtRepayment:
		return adjustWallet(ctx, q, t.WalletID, t.Amount.Neg(), now)
	case core.Transfer:
		if err := adjustWallet(ctx, q, t.WalletID, t.Amount.Neg(), now); err != nil {
			return err
		}
		return adjustWallet(ctx, q, t.ToWalletID, t.Amount, now)
	}
	return core.ErrUnknownType
}

// Reverse undoes the balance effect of t: every wallet delta Apply made is
// applied with the opposite sign.
func (Ledger) Reverse(ctx context.Context, q *storage.Queries, t core.Transaction, now time.Time) error {
	switch t.Type {
	case core.Income:
		return adjustWallet(ctx, q, t.WalletID, t.Amount.Neg(), now)
	case core.Expense, core.DebtRepayment:
		return adjustWallet(ctx, q, t.WalletID, t.Amount, now)
	case core.Transfer:
		if err := adjustWallet(ctx, q, t.WalletID, t.Amount, now); err != nil {
			return err
		}
		return adjustWallet(ctx, q, t.ToWalletID, t.Amount.Neg(), now)
	}
	return core.ErrUnknownType
}

func adjustWallet(ctx context.Context, q *storage.Queries, walletID string, delta decimal.Decimal, now time.Time) error {
	w, err := q.GetWallet(ctx, walletID)
	if err != nil {
		return err
	}
	if err := q.SetWalletBalance(ctx, walletID, w.Balance.Add(delta), now); err != nil {
		return fmt.Errorf("adjust wallet %s: %w", walletID, err)
	}
	return nil
}
