package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yanuaroby/familyfin/internal/core"
	"github.com/yanuaroby/familyfin/internal/storage"
)

// DebtTracker maintains remaining debt balances. A repayment larger than the
// remaining balance clamps the balance to zero; the payment row still records
// the full amount paid so the overpayment stays visible in history.
type DebtTracker struct{}

// ApplyPayment reduces the debt behind a repayment transaction and records
// the append-only payment snapshot. It returns the snapshot so the caller
// can log the before/after balances.
func (DebtTracker) ApplyPayment(ctx context.Context, q *storage.Queries, t core.Transaction, now time.Time) (core.DebtPayment, error) {
	debt, err := q.GetDebt(ctx, t.DebtID)
	if err != nil {
		return core.DebtPayment{}, err
	}

	previous := debt.RemainingBalance
	next := previous.Sub(t.Amount)
	if next.IsNegative() {
		next = decimal.Zero
	}

	if err := q.SetDebtBalance(ctx, t.DebtID, next, now); err != nil {
		return core.DebtPayment{}, err
	}

	payment := core.DebtPayment{
		ID:              uuid.NewString(),
		DebtID:          t.DebtID,
		TransactionID:   t.ID,
		Amount:          t.Amount,
		PreviousBalance: previous,
		NewBalance:      next,
		PaymentDate:     t.Date,
		Note:            t.Note,
		CreatedAt:       now,
	}
	if err := q.InsertDebtPayment(ctx, payment); err != nil {
		return core.DebtPayment{}, err
	}
	return payment, nil
}

// ReversePayment undoes the repayment behind t. The balance gets back exactly
// what the payment actually removed (previous minus new), so reversing a
// clamped overpayment restores the pre-payment balance rather than
// overshooting it. The payment row is deleted along with the transaction.
func (DebtTracker) ReversePayment(ctx context.Context, q *storage.Queries, t core.Transaction, now time.Time) (core.DebtPayment, error) {
	payment, err := q.GetDebtPaymentByTransaction(ctx, t.ID)
	if err != nil {
		return core.DebtPayment{}, fmt.Errorf("find payment for transaction %s: %w", t.ID, err)
	}

	debt, err := q.GetDebt(ctx, t.DebtID)
	if err != nil {
		return core.DebtPayment{}, err
	}

	applied := payment.PreviousBalance.Sub(payment.NewBalance)
	if err := q.SetDebtBalance(ctx, t.DebtID, debt.RemainingBalance.Add(applied), now); err != nil {
		return core.DebtPayment{}, err
	}

	if err := q.DeleteDebtPayment(ctx, payment.ID); err != nil {
		return core.DebtPayment{}, err
	}
	return payment, nil
}
