package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/familyfin/internal/core"
)

func (f *fixture) goal(t *testing.T, target int64) core.SavingsGoal {
	t.Helper()
	g, err := f.planning.CreateGoal(context.Background(), core.SavingsGoal{
		UserID:       testUser,
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(target),
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	return g
}

func TestPlanningService_GoalContributionClampsAtTarget(t *testing.T) {
	f := newFixture(t)
	g := f.goal(t, 1_000_000)

	got, err := f.planning.AddContribution(context.Background(), testUser, g.ID, decimal.NewFromInt(400_000))
	if err != nil {
		t.Fatalf("AddContribution() error = %v", err)
	}
	if !got.CurrentAmount.Equal(decimal.NewFromInt(400_000)) {
		t.Errorf("current amount = %s, want 400000", got.CurrentAmount)
	}
	if got.Completed {
		t.Error("goal completed too early")
	}

	// Overshooting clamps at the target and completes the goal.
	got, err = f.planning.AddContribution(context.Background(), testUser, g.ID, decimal.NewFromInt(800_000))
	if err != nil {
		t.Fatalf("AddContribution() error = %v", err)
	}
	if !got.CurrentAmount.Equal(decimal.NewFromInt(1_000_000)) {
		t.Errorf("current amount = %s, want 1000000", got.CurrentAmount)
	}
	if !got.Completed {
		t.Error("goal should be completed")
	}
}

func TestPlanningService_ResetGoal(t *testing.T) {
	f := newFixture(t)
	g := f.goal(t, 500_000)

	if _, err := f.planning.AddContribution(context.Background(), testUser, g.ID, decimal.NewFromInt(500_000)); err != nil {
		t.Fatalf("AddContribution() error = %v", err)
	}
	if err := f.planning.ResetGoal(context.Background(), testUser, g.ID); err != nil {
		t.Fatalf("ResetGoal() error = %v", err)
	}

	got, err := f.planning.GetGoal(context.Background(), testUser, g.ID)
	if err != nil {
		t.Fatalf("GetGoal() error = %v", err)
	}
	if !got.CurrentAmount.IsZero() || got.Completed {
		t.Errorf("after reset: amount = %s completed = %v, want 0 false", got.CurrentAmount, got.Completed)
	}
}

func TestPlanningService_GoalOwnership(t *testing.T) {
	f := newFixture(t)
	g := f.goal(t, 500_000)

	if _, err := f.planning.GetGoal(context.Background(), "someone-else", g.ID); !errors.Is(err, core.ErrGoalNotFound) {
		t.Errorf("GetGoal() error = %v, want ErrGoalNotFound", err)
	}
	if _, err := f.planning.AddContribution(context.Background(), "someone-else", g.ID, decimal.NewFromInt(100)); !errors.Is(err, core.ErrGoalNotFound) {
		t.Errorf("AddContribution() error = %v, want ErrGoalNotFound", err)
	}
}

func TestPlanningService_BudgetStatus(t *testing.T) {
	f := newFixture(t)
	w := f.wallet(t, 2_000_000)

	if _, err := f.planning.CreateBudget(context.Background(), core.Budget{
		UserID:       testUser,
		CategoryID:   "cat-groceries",
		MonthlyLimit: decimal.NewFromInt(500_000),
		Period:       "2025-06",
	}); err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}

	// 450000 of June spending in the budgeted category.
	for _, amount := range []int64{300_000, 150_000} {
		if _, err := f.tx.CreateTransaction(context.Background(), expenseInput(w.ID, amount)); err != nil {
			t.Fatalf("create expense: %v", err)
		}
	}
	// A different category and a different month stay out of the total.
	other := expenseInput(w.ID, 75_000)
	other.CategoryID = "cat-dining"
	if _, err := f.tx.CreateTransaction(context.Background(), other); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	july := expenseInput(w.ID, 99_000)
	july.Date = core.NewDate(2025, 7, 2)
	if _, err := f.tx.CreateTransaction(context.Background(), july); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	statuses, err := f.planning.ListBudgetStatus(context.Background(), testUser, "2025-06")
	if err != nil {
		t.Fatalf("ListBudgetStatus() error = %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("statuses = %d, want 1", len(statuses))
	}

	st := statuses[0]
	if !st.Spent.Equal(decimal.NewFromInt(450_000)) {
		t.Errorf("spent = %s, want 450000", st.Spent)
	}
	if !st.Percentage.Equal(decimal.NewFromInt(90)) {
		t.Errorf("percentage = %s, want 90", st.Percentage)
	}
	if !st.Remaining.Equal(decimal.NewFromInt(50_000)) {
		t.Errorf("remaining = %s, want 50000", st.Remaining)
	}
	if st.OverBudget {
		t.Error("not over budget at 90%")
	}
	if !st.ApproachingLimit {
		t.Error("90% is past the default 80% alert threshold")
	}

	// One more expense tips it over the limit.
	if _, err := f.tx.CreateTransaction(context.Background(), expenseInput(w.ID, 100_000)); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	statuses, err = f.planning.ListBudgetStatus(context.Background(), testUser, "2025-06")
	if err != nil {
		t.Fatalf("ListBudgetStatus() error = %v", err)
	}
	if !statuses[0].OverBudget {
		t.Error("550000 of 500000 should be over budget")
	}
	if !statuses[0].Remaining.Equal(decimal.NewFromInt(-50_000)) {
		t.Errorf("remaining = %s, want -50000", statuses[0].Remaining)
	}
}

func TestPlanningService_DuplicateBudgetRejected(t *testing.T) {
	f := newFixture(t)

	budget := core.Budget{
		UserID:       testUser,
		CategoryID:   "cat-groceries",
		MonthlyLimit: decimal.NewFromInt(500_000),
		Period:       "2025-06",
	}
	if _, err := f.planning.CreateBudget(context.Background(), budget); err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}

	_, err := f.planning.CreateBudget(context.Background(), budget)
	if !errors.Is(err, core.ErrBudgetExists) {
		t.Fatalf("CreateBudget() error = %v, want ErrBudgetExists", err)
	}
	if !errors.Is(err, core.ErrConflict) {
		t.Error("duplicate budget should be a conflict")
	}

	// The same category in another month is fine.
	budget.Period = "2025-07"
	if _, err := f.planning.CreateBudget(context.Background(), budget); err != nil {
		t.Errorf("CreateBudget() for another period error = %v", err)
	}
}

func TestPlanningService_BadPeriodRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.planning.CreateBudget(context.Background(), core.Budget{
		UserID:       testUser,
		CategoryID:   "cat-groceries",
		MonthlyLimit: decimal.NewFromInt(500_000),
		Period:       "June 2025",
	})
	if !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("CreateBudget() error = %v, want ErrInvalidDate", err)
	}

	if _, err := f.planning.ListBudgetStatus(context.Background(), testUser, "not-a-period"); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("ListBudgetStatus() error = %v, want ErrInvalidDate", err)
	}
}
