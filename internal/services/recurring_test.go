package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yanuaroby/familyfin/internal/core"
)

func (f *fixture) template(t *testing.T, walletID string, freq core.Frequency, nextRun core.Date) core.RecurringTemplate {
	t.Helper()
	tmpl, err := f.catalog.CreateTemplate(context.Background(), core.RecurringTemplate{
		UserID:     testUser,
		WalletID:   walletID,
		CategoryID: "cat-bills",
		Type:       core.Expense,
		Amount:     decimal.NewFromInt(99_000),
		Frequency:  freq,
		StartDate:  nextRun,
		NextRun:    nextRun,
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	return tmpl
}

func TestRecurringScheduler_FiresDueTemplate(t *testing.T) {
	f := newFixture(t)
	w := f.wallet(t, 1_000_000)
	scheduler := NewRecurringScheduler(f.repo, f.tx)

	tmpl := f.template(t, w.ID, core.Monthly, core.NewDate(2025, 6, 1))

	now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	count, err := scheduler.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("ProcessDue() = %d, want 1", count)
	}

	if got := f.walletBalance(t, w.ID); !got.Equal(decimal.NewFromInt(901_000)) {
		t.Errorf("wallet balance = %s, want 901000", got)
	}

	txs, err := f.repo.Queries().ListTransactions(context.Background(), testUser,
		core.NewDate(2025, 6, 1), core.NewDate(2025, 6, 30))
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs))
	}
	if !txs[0].Recurring || txs[0].TemplateID != tmpl.ID {
		t.Errorf("fired transaction not linked to template: %+v", txs[0])
	}
	if txs[0].Date.String() != "2025-06-01" {
		t.Errorf("fired transaction dated %s, want the scheduled occurrence", txs[0].Date)
	}

	stored, err := f.repo.Queries().GetTemplate(context.Background(), tmpl.ID)
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if stored.NextRun.String() != "2025-07-01" {
		t.Errorf("next run = %s, want 2025-07-01", stored.NextRun)
	}
	if stored.LastRun.String() != "2025-06-01" {
		t.Errorf("last run = %s, want 2025-06-01", stored.LastRun)
	}
}

func TestRecurringScheduler_OnePeriodPerCall(t *testing.T) {
	f := newFixture(t)
	w := f.wallet(t, 1_000_000)
	scheduler := NewRecurringScheduler(f.repo, f.tx)

	// Three days overdue on a daily template: catching up takes three runs.
	f.template(t, w.ID, core.Daily, core.NewDate(2025, 6, 12))
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	for run := 1; run <= 3; run++ {
		count, err := scheduler.ProcessDue(context.Background(), now)
		if err != nil {
			t.Fatalf("ProcessDue() run %d error = %v", run, err)
		}
		if count != 1 {
			t.Fatalf("ProcessDue() run %d = %d, want 1", run, count)
		}
	}

	// Fourth run: next_run is 2025-06-15, still due today, fires once more.
	count, err := scheduler.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("ProcessDue() = %d, want 1", count)
	}

	// Fifth run: caught up past today, nothing due.
	count, err = scheduler.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if count != 0 {
		t.Errorf("ProcessDue() = %d, want 0 once caught up", count)
	}

	if got := f.walletBalance(t, w.ID); !got.Equal(decimal.NewFromInt(604_000)) {
		t.Errorf("wallet balance = %s, want 604000 after four firings", got)
	}
}

func TestRecurringScheduler_MonthEndClamping(t *testing.T) {
	f := newFixture(t)
	w := f.wallet(t, 10_000_000)
	scheduler := NewRecurringScheduler(f.repo, f.tx)

	tmpl := f.template(t, w.ID, core.Monthly, core.NewDate(2025, 1, 31))

	now := time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)
	if _, err := scheduler.ProcessDue(context.Background(), now); err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}

	stored, err := f.repo.Queries().GetTemplate(context.Background(), tmpl.ID)
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if stored.NextRun.String() != "2025-02-28" {
		t.Errorf("next run = %s, want 2025-02-28 (clamped)", stored.NextRun)
	}
}

func TestRecurringScheduler_FailureIsolation(t *testing.T) {
	f := newFixture(t)
	w := f.wallet(t, 1_000_000)
	scheduler := NewRecurringScheduler(f.repo, f.tx)

	// A broken template pointing at a wallet that no longer exists, plus a
	// healthy one. The healthy one must still fire.
	f.template(t, uuid.NewString(), core.Daily, core.NewDate(2025, 6, 14))
	f.template(t, w.ID, core.Daily, core.NewDate(2025, 6, 14))

	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	count, err := scheduler.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if count != 1 {
		t.Errorf("ProcessDue() = %d, want 1 (broken template skipped)", count)
	}
	if got := f.walletBalance(t, w.ID); !got.Equal(decimal.NewFromInt(901_000)) {
		t.Errorf("wallet balance = %s, want 901000", got)
	}
}

func TestRecurringScheduler_DisabledTemplateDoesNotFire(t *testing.T) {
	f := newFixture(t)
	w := f.wallet(t, 1_000_000)
	scheduler := NewRecurringScheduler(f.repo, f.tx)

	tmpl := f.template(t, w.ID, core.Daily, core.NewDate(2025, 6, 14))
	if err := f.catalog.SetTemplateEnabled(context.Background(), testUser, tmpl.ID, false); err != nil {
		t.Fatalf("disable template: %v", err)
	}

	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	count, err := scheduler.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if count != 0 {
		t.Errorf("ProcessDue() = %d, want 0 for disabled template", count)
	}
	if got := f.walletBalance(t, w.ID); !got.Equal(decimal.NewFromInt(1_000_000)) {
		t.Errorf("wallet balance = %s, want untouched 1000000", got)
	}
}

func TestRecurringScheduler_DebtRepaymentTemplate(t *testing.T) {
	f := newFixture(t)
	w := f.wallet(t, 5_000_000)
	d := f.debt(t, 12_000_000, 6_000_000)
	scheduler := NewRecurringScheduler(f.repo, f.tx)

	_, err := f.catalog.CreateTemplate(context.Background(), core.RecurringTemplate{
		UserID:     testUser,
		WalletID:   w.ID,
		DebtID:     d.ID,
		CategoryID: "cat-debt",
		Type:       core.DebtRepayment,
		Amount:     decimal.NewFromInt(1_000_000),
		Frequency:  core.Monthly,
		StartDate:  core.NewDate(2025, 6, 5),
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	now := time.Date(2025, 6, 5, 2, 0, 0, 0, time.UTC)
	count, err := scheduler.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("ProcessDue() = %d, want 1", count)
	}

	if got := f.debtBalance(t, d.ID); !got.Equal(decimal.NewFromInt(5_000_000)) {
		t.Errorf("debt balance = %s, want 5000000", got)
	}
	if got := f.walletBalance(t, w.ID); !got.Equal(decimal.NewFromInt(4_000_000)) {
		t.Errorf("wallet balance = %s, want 4000000", got)
	}
}
