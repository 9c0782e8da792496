package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/yanuaroby/familyfin/internal/core"
	"github.com/yanuaroby/familyfin/internal/storage"
)

// DashboardService aggregates the read-side summary: month totals, wallet and
// debt positions and the health score. The independent queries run
// concurrently against the shared pool.
type DashboardService struct {
	store *storage.SQLiteRepository
	now   func() time.Time
}

func NewDashboardService(store *storage.SQLiteRepository) *DashboardService {
	return &DashboardService{
		store: store,
		now:   time.Now,
	}
}

// Summary builds the financial summary for the calendar month containing
// now.
func (s *DashboardService) Summary(ctx context.Context, userID string) (core.FinancialSummary, error) {
	today := core.DateOf(s.now())
	y, m, day := today.Date()
	monthStart := core.NewDate(y, int(m), 1)
	monthEnd := monthStart.AddMonths(1).AddDays(-1)

	q := s.store.Queries()
	var (
		summary core.FinancialSummary
		debts   []core.Debt
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary.MonthlyIncome, err = q.SumTransactions(gctx, userID, core.Income, monthStart, monthEnd)
		return err
	})
	g.Go(func() error {
		var err error
		summary.MonthlyExpense, err = q.SumTransactions(gctx, userID, core.Expense, monthStart, monthEnd)
		return err
	})
	g.Go(func() error {
		wallets, err := q.ListWallets(gctx, userID)
		if err != nil {
			return err
		}
		for _, w := range wallets {
			// An overdrawn wallet contributes nothing to assets; its shortfall
			// is not a debt either.
			if w.Balance.IsPositive() {
				summary.TotalAssets = summary.TotalAssets.Add(w.Balance)
			}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		debts, err = q.ListDebts(gctx, userID)
		if err != nil {
			return err
		}
		for _, d := range debts {
			summary.TotalDebts = summary.TotalDebts.Add(d.RemainingBalance)
		}
		return nil
	})
	g.Go(func() error {
		streak, err := q.GetStreak(gctx, userID)
		if err != nil {
			if core.IsNotFound(err) {
				return nil
			}
			return err
		}
		summary.Streak = streak.Current
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.FinancialSummary{}, err
	}

	summary.NetWorth = summary.TotalAssets.Sub(summary.TotalDebts)
	summary.Cashflow = summary.MonthlyIncome.Sub(summary.MonthlyExpense)
	summary.BurnRate = summary.MonthlyExpense.Div(decimal.NewFromInt(int64(day)))
	summary.HealthScore, summary.HealthGrade = core.HealthScore(
		summary.MonthlyIncome, summary.MonthlyExpense, debts)
	return summary, nil
}

// RecentActivity returns the newest audit entries for the user's feed.
func (s *DashboardService) RecentActivity(ctx context.Context, userID string, limit int) ([]core.ActivityEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.Queries().ListRecentActivity(ctx, userID, limit)
}

// Streak returns the user's streak state. A user with no activity yet gets
// the zero streak, not an error.
func (s *DashboardService) Streak(ctx context.Context, userID string) (core.Streak, error) {
	streak, err := s.store.Queries().GetStreak(ctx, userID)
	if err != nil {
		if core.IsNotFound(err) {
			return core.Streak{UserID: userID}, nil
		}
		return core.Streak{}, err
	}
	return streak, nil
}
