package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/familyfin/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestQueries_DebtRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	q := repo.Queries()
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	limit := decimal.NewFromInt(15_000_000)
	rate := decimal.RequireFromString("2.25")
	debt := core.Debt{
		ID:                 "debt-1",
		UserID:             "user-1",
		Name:               "Visa",
		Kind:               core.DebtRevolving,
		TotalAmount:        decimal.NewFromInt(10_000_000),
		RemainingBalance:   decimal.NewFromInt(7_500_000),
		MonthlyInstallment: decimal.NewFromInt(500_000),
		CreditLimit:        decimal.NullDecimal{Decimal: limit, Valid: true},
		InterestRate:       decimal.NullDecimal{Decimal: rate, Valid: true},
		StartDate:          core.NewDate(2024, 1, 10),
		DueDate:            core.NewDate(2026, 1, 10),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := q.CreateDebt(ctx, debt); err != nil {
		t.Fatalf("CreateDebt() error = %v", err)
	}

	got, err := q.GetDebt(ctx, "debt-1")
	if err != nil {
		t.Fatalf("GetDebt() error = %v", err)
	}
	if !got.RemainingBalance.Equal(debt.RemainingBalance) {
		t.Errorf("remaining balance = %s, want %s", got.RemainingBalance, debt.RemainingBalance)
	}
	if !got.CreditLimit.Valid || !got.CreditLimit.Decimal.Equal(limit) {
		t.Errorf("credit limit = %+v, want %s", got.CreditLimit, limit)
	}
	if !got.InterestRate.Valid || !got.InterestRate.Decimal.Equal(rate) {
		t.Errorf("interest rate = %+v, want %s", got.InterestRate, rate)
	}
	if !got.StartDate.SameDay(debt.StartDate) {
		t.Errorf("start date = %s, want %s", got.StartDate, debt.StartDate)
	}

	// Optional fields stay NULL when unset.
	plain := debt
	plain.ID = "debt-2"
	plain.CreditLimit = decimal.NullDecimal{}
	plain.InterestRate = decimal.NullDecimal{}
	if err := q.CreateDebt(ctx, plain); err != nil {
		t.Fatalf("CreateDebt() error = %v", err)
	}
	got, err = q.GetDebt(ctx, "debt-2")
	if err != nil {
		t.Fatalf("GetDebt() error = %v", err)
	}
	if got.CreditLimit.Valid || got.InterestRate.Valid {
		t.Errorf("optional decimals should be null, got %+v / %+v", got.CreditLimit, got.InterestRate)
	}
}

func TestQueries_NotFoundSentinels(t *testing.T) {
	repo := newTestRepo(t)
	q := repo.Queries()
	ctx := context.Background()

	if _, err := q.GetWallet(ctx, "nope"); !errors.Is(err, core.ErrWalletNotFound) {
		t.Errorf("GetWallet() error = %v, want ErrWalletNotFound", err)
	}
	if _, err := q.GetDebt(ctx, "nope"); !errors.Is(err, core.ErrDebtNotFound) {
		t.Errorf("GetDebt() error = %v, want ErrDebtNotFound", err)
	}
	if _, err := q.GetTransaction(ctx, "nope"); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Errorf("GetTransaction() error = %v, want ErrTransactionNotFound", err)
	}
	if _, err := q.GetTemplate(ctx, "nope"); !errors.Is(err, core.ErrTemplateNotFound) {
		t.Errorf("GetTemplate() error = %v, want ErrTemplateNotFound", err)
	}
	if _, err := q.GetStreak(ctx, "nope"); !core.IsNotFound(err) {
		t.Errorf("GetStreak() error = %v, want not-found", err)
	}
}

func TestQueries_ListDueTemplates(t *testing.T) {
	repo := newTestRepo(t)
	q := repo.Queries()
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	insert := func(id string, nextRun core.Date, enabled bool) {
		t.Helper()
		err := q.InsertTemplate(ctx, core.RecurringTemplate{
			ID:         id,
			UserID:     "user-1",
			Amount:     decimal.NewFromInt(50_000),
			CategoryID: "cat-1",
			WalletID:   "wallet-1",
			Type:       core.Expense,
			Frequency:  core.Monthly,
			StartDate:  nextRun,
			NextRun:    nextRun,
			Enabled:    enabled,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			t.Fatalf("InsertTemplate(%s) error = %v", id, err)
		}
	}

	insert("overdue", core.NewDate(2025, 6, 10), true)
	insert("due-today", core.NewDate(2025, 6, 15), true)
	insert("future", core.NewDate(2025, 6, 16), true)
	insert("disabled", core.NewDate(2025, 6, 1), false)

	due, err := q.ListDueTemplates(ctx, core.NewDate(2025, 6, 15))
	if err != nil {
		t.Fatalf("ListDueTemplates() error = %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("due templates = %d, want 2", len(due))
	}
	// Ordered by next run, oldest first.
	if due[0].ID != "overdue" || due[1].ID != "due-today" {
		t.Errorf("due order = %s, %s", due[0].ID, due[1].ID)
	}

	// Advancing moves a template out of the due window.
	if err := q.AdvanceTemplate(ctx, "due-today", core.NewDate(2025, 7, 15), core.NewDate(2025, 6, 15), now); err != nil {
		t.Fatalf("AdvanceTemplate() error = %v", err)
	}
	tmpl, err := q.GetTemplate(ctx, "due-today")
	if err != nil {
		t.Fatalf("GetTemplate() error = %v", err)
	}
	if tmpl.LastRun.String() != "2025-06-15" {
		t.Errorf("last run = %s, want 2025-06-15", tmpl.LastRun)
	}

	due, err = q.ListDueTemplates(ctx, core.NewDate(2025, 6, 15))
	if err != nil {
		t.Fatalf("ListDueTemplates() error = %v", err)
	}
	if len(due) != 1 || due[0].ID != "overdue" {
		t.Errorf("due after advance = %+v, want just overdue", due)
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	boom := errors.New("boom")
	err := repo.WithinTx(ctx, func(q *Queries) error {
		w := core.Wallet{
			ID:        "wallet-1",
			UserID:    "user-1",
			Name:      "Main",
			Kind:      core.WalletBank,
			Balance:   decimal.NewFromInt(100),
			Currency:  "IDR",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := q.CreateWallet(ctx, w); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTx() error = %v, want boom", err)
	}

	if _, err := repo.Queries().GetWallet(ctx, "wallet-1"); !errors.Is(err, core.ErrWalletNotFound) {
		t.Errorf("wallet should not exist after rollback, got err = %v", err)
	}
}
