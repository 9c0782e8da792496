package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yanuaroby/familyfin/internal/core"
	"github.com/yanuaroby/familyfin/internal/storage"
)

const defaultAlertThreshold = 80

// PlanningService manages savings goals and monthly category budgets. Goals
// accumulate bookkeeping contributions toward a target; budgets compare a
// category's monthly limit against the ledger's actual spending on read.
type PlanningService struct {
	store *storage.SQLiteRepository
	now   func() time.Time
}

func NewPlanningService(store *storage.SQLiteRepository) *PlanningService {
	return &PlanningService{
		store: store,
		now:   time.Now,
	}
}

// ---- savings goals ----

func (s *PlanningService) CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	now := s.now()
	g.ID = uuid.NewString()
	g.CurrentAmount = decimal.Zero
	g.Completed = false
	if g.Color == "" {
		g.Color = "#10b981"
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	if err := s.store.Queries().CreateGoal(ctx, g); err != nil {
		return core.SavingsGoal{}, err
	}
	return g, nil
}

func (s *PlanningService) GetGoal(ctx context.Context, userID, id string) (core.SavingsGoal, error) {
	g, err := s.store.Queries().GetGoal(ctx, id)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	if g.UserID != userID {
		return core.SavingsGoal{}, core.ErrGoalNotFound
	}
	return g, nil
}

func (s *PlanningService) ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error) {
	return s.store.Queries().ListGoals(ctx, userID)
}

// UpdateGoal changes a goal's name, target, deadline, color and notes.
// Progress is owned by AddContribution and ResetGoal.
func (s *PlanningService) UpdateGoal(ctx context.Context, userID string, g core.SavingsGoal) error {
	existing, err := s.GetGoal(ctx, userID, g.ID)
	if err != nil {
		return err
	}
	if g.Name == "" {
		return core.ErrMissingName
	}
	if err := core.ValidateAmount(g.TargetAmount); err != nil {
		return err
	}
	existing.Name = g.Name
	existing.TargetAmount = g.TargetAmount
	existing.Deadline = g.Deadline
	existing.Color = g.Color
	existing.Notes = g.Notes
	existing.UpdatedAt = s.now()
	return s.store.Queries().UpdateGoalMeta(ctx, existing)
}

// AddContribution raises a goal's saved amount. The amount clamps at the
// target; reaching the target marks the goal completed.
func (s *PlanningService) AddContribution(ctx context.Context, userID, goalID string, amount decimal.Decimal) (core.SavingsGoal, error) {
	if err := core.ValidateAmount(amount); err != nil {
		return core.SavingsGoal{}, err
	}

	var updated core.SavingsGoal
	err := s.store.WithinTx(ctx, func(q *storage.Queries) error {
		g, err := q.GetGoal(ctx, goalID)
		if err != nil {
			return err
		}
		if g.UserID != userID {
			return core.ErrGoalNotFound
		}
		g.CurrentAmount = decimal.Min(g.CurrentAmount.Add(amount), g.TargetAmount)
		g.Completed = g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
		g.UpdatedAt = s.now()
		if err := q.SetGoalProgress(ctx, g.ID, g.CurrentAmount, g.Completed, g.UpdatedAt); err != nil {
			return err
		}
		updated = g
		return nil
	})
	if err != nil {
		return core.SavingsGoal{}, err
	}
	return updated, nil
}

// ResetGoal sets the saved amount back to zero and clears the completed flag.
func (s *PlanningService) ResetGoal(ctx context.Context, userID, id string) error {
	if _, err := s.GetGoal(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Queries().SetGoalProgress(ctx, id, decimal.Zero, false, s.now())
}

func (s *PlanningService) DeleteGoal(ctx context.Context, userID, id string) error {
	if _, err := s.GetGoal(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Queries().DeleteGoal(ctx, id)
}

// ---- budgets ----

// CreateBudget stores a monthly limit for one category. An empty period
// defaults to the current month; at most one budget may exist per category
// and period.
func (s *PlanningService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.Period == "" {
		b.Period = s.now().Format("2006-01")
	}
	if _, _, err := periodRange(b.Period); err != nil {
		return core.Budget{}, err
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	now := s.now()
	b.ID = uuid.NewString()
	if b.AlertThreshold <= 0 {
		b.AlertThreshold = defaultAlertThreshold
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	err := s.store.WithinTx(ctx, func(q *storage.Queries) error {
		n, err := q.CountBudgets(ctx, b.UserID, b.CategoryID, b.Period)
		if err != nil {
			return err
		}
		if n > 0 {
			return core.ErrBudgetExists
		}
		return q.CreateBudget(ctx, b)
	})
	if err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (s *PlanningService) GetBudget(ctx context.Context, userID, id string) (core.Budget, error) {
	b, err := s.store.Queries().GetBudget(ctx, id)
	if err != nil {
		return core.Budget{}, err
	}
	if b.UserID != userID {
		return core.Budget{}, core.ErrBudgetNotFound
	}
	return b, nil
}

// ListBudgetStatus returns a period's budgets joined with the month's actual
// category spending. An empty period defaults to the current month.
func (s *PlanningService) ListBudgetStatus(ctx context.Context, userID, period string) ([]core.BudgetStatus, error) {
	if period == "" {
		period = s.now().Format("2006-01")
	}
	from, to, err := periodRange(period)
	if err != nil {
		return nil, err
	}

	budgets, err := s.store.Queries().ListBudgets(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	statuses := make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.store.Queries().SumCategoryExpenses(ctx, userID, b.CategoryID, from, to)
		if err != nil {
			return nil, err
		}
		percentage := spent.Div(b.MonthlyLimit).Mul(decimal.NewFromInt(100))
		statuses = append(statuses, core.BudgetStatus{
			Budget:           b,
			Spent:            spent,
			Percentage:       percentage,
			Remaining:        b.MonthlyLimit.Sub(spent),
			OverBudget:       spent.GreaterThan(b.MonthlyLimit),
			ApproachingLimit: percentage.GreaterThanOrEqual(decimal.NewFromInt(int64(b.AlertThreshold))),
		})
	}
	return statuses, nil
}

// UpdateBudget changes a budget's limit and alert threshold. Category and
// period are fixed at creation.
func (s *PlanningService) UpdateBudget(ctx context.Context, userID string, b core.Budget) error {
	existing, err := s.GetBudget(ctx, userID, b.ID)
	if err != nil {
		return err
	}
	if err := core.ValidateAmount(b.MonthlyLimit); err != nil {
		return err
	}
	existing.MonthlyLimit = b.MonthlyLimit
	if b.AlertThreshold > 0 {
		existing.AlertThreshold = b.AlertThreshold
	}
	existing.UpdatedAt = s.now()
	return s.store.Queries().UpdateBudget(ctx, existing)
}

func (s *PlanningService) DeleteBudget(ctx context.Context, userID, id string) error {
	if _, err := s.GetBudget(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Queries().DeleteBudget(ctx, id)
}

// periodRange expands a "2006-01" period into the first and last day of that
// month.
func periodRange(period string) (core.Date, core.Date, error) {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return core.Date{}, core.Date{}, core.ErrInvalidDate
	}
	from := core.NewDate(t.Year(), int(t.Month()), 1)
	return from, from.AddMonths(1).AddDays(-1), nil
}
