package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/familyfin/internal/core"
)

func TestDashboardService_Summary(t *testing.T) {
	f := newFixture(t)
	w1 := f.wallet(t, 2_000_000)
	w2 := f.wallet(t, 500_000)
	f.debt(t, 10_000_000, 4_000_000)

	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	f.tx.now = func() time.Time { return fixed }

	income := core.TransactionInput{
		UserID:     testUser,
		WalletID:   w1.ID,
		CategoryID: "cat-salary",
		Type:       core.Income,
		Amount:     decimal.NewFromInt(8_000_000),
		Date:       core.NewDate(2025, 6, 1),
	}
	if _, err := f.tx.CreateTransaction(context.Background(), income); err != nil {
		t.Fatalf("create income: %v", err)
	}
	if _, err := f.tx.CreateTransaction(context.Background(), expenseInput(w2.ID, 3_000_000)); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	// Outside the month, must not count toward the totals.
	old := expenseInput(w2.ID, 999_000)
	old.Date = core.NewDate(2025, 5, 20)
	if _, err := f.tx.CreateTransaction(context.Background(), old); err != nil {
		t.Fatalf("create old expense: %v", err)
	}

	dashboard := NewDashboardService(f.repo)
	dashboard.now = func() time.Time { return fixed }

	summary, err := dashboard.Summary(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if !summary.MonthlyIncome.Equal(decimal.NewFromInt(8_000_000)) {
		t.Errorf("monthly income = %s, want 8000000", summary.MonthlyIncome)
	}
	if !summary.MonthlyExpense.Equal(decimal.NewFromInt(3_000_000)) {
		t.Errorf("monthly expense = %s, want 3000000", summary.MonthlyExpense)
	}
	if !summary.Cashflow.Equal(decimal.NewFromInt(5_000_000)) {
		t.Errorf("cashflow = %s, want 5000000", summary.Cashflow)
	}

	// The expenses drove w2 to -3499000; only the positive w1 balance
	// (2000000 + 8000000) counts as an asset.
	wantAssets := decimal.NewFromInt(10_000_000)
	if !summary.TotalAssets.Equal(wantAssets) {
		t.Errorf("total assets = %s, want %s", summary.TotalAssets, wantAssets)
	}
	if !summary.TotalDebts.Equal(decimal.NewFromInt(4_000_000)) {
		t.Errorf("total debts = %s, want 4000000", summary.TotalDebts)
	}
	if !summary.NetWorth.Equal(decimal.NewFromInt(6_000_000)) {
		t.Errorf("net worth = %s, want 6000000", summary.NetWorth)
	}

	if summary.Streak != 1 {
		t.Errorf("streak = %d, want 1", summary.Streak)
	}
	// 40 ratio + 20 cashflow + 12 for a 60% paid debt + 20 savings.
	if summary.HealthScore != 92 || summary.HealthGrade != "A" {
		t.Errorf("health score = %d %s, want 92 A", summary.HealthScore, summary.HealthGrade)
	}
}

func TestDashboardService_SummaryExcludesOverdrawnWallets(t *testing.T) {
	f := newFixture(t)
	f.wallet(t, 200_000)
	f.wallet(t, -50_000)

	dashboard := NewDashboardService(f.repo)
	summary, err := dashboard.Summary(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if !summary.TotalAssets.Equal(decimal.NewFromInt(200_000)) {
		t.Errorf("total assets = %s, want 200000", summary.TotalAssets)
	}
	if !summary.NetWorth.Equal(decimal.NewFromInt(200_000)) {
		t.Errorf("net worth = %s, want 200000", summary.NetWorth)
	}
}

func TestDashboardService_StreakForNewUser(t *testing.T) {
	f := newFixture(t)
	dashboard := NewDashboardService(f.repo)

	streak, err := dashboard.Streak(context.Background(), "fresh-user")
	if err != nil {
		t.Fatalf("Streak() error = %v", err)
	}
	if streak.Current != 0 || streak.Longest != 0 {
		t.Errorf("fresh user streak = %d/%d, want 0/0", streak.Current, streak.Longest)
	}
}
