package core

import "github.com/shopspring/decimal"

// FinancialSummary is the dashboard aggregate for one user and month.
type FinancialSummary struct {
	NetWorth       decimal.Decimal
	TotalAssets    decimal.Decimal
	TotalDebts     decimal.Decimal
	MonthlyIncome  decimal.Decimal
	MonthlyExpense decimal.Decimal
	Cashflow       decimal.Decimal
	BurnRate       decimal.Decimal
	Streak         int
	HealthScore    int
	HealthGrade    string
}

// HealthScore rates a month of activity from 0 to 100 across four components:
// income-to-expense ratio (40 points), positive cashflow (20), average debt
// paydown progress (20) and savings rate (20). Each component scales
// continuously with its input and caps at its maximum. Returns the rounded
// score and a letter grade; no data at all scores 0 / "-".
func HealthScore(income, expense decimal.Decimal, debts []Debt) (int, string) {
	if income.IsZero() && expense.IsZero() && len(debts) == 0 {
		return 0, "-"
	}

	twenty := decimal.NewFromInt(20)
	forty := decimal.NewFromInt(40)
	hundred := decimal.NewFromInt(100)
	score := decimal.Zero

	// Income-to-expense ratio, up to 40 points. A month with no spending at
	// all is a perfect ratio.
	if expense.IsPositive() {
		score = score.Add(decimal.Min(forty, income.Div(expense).Mul(twenty)))
	} else {
		score = score.Add(forty)
	}

	// Positive cashflow, up to 20 points, scaled by its share of income.
	cashflow := income.Sub(expense)
	if cashflow.IsPositive() {
		score = score.Add(decimal.Min(twenty, cashflow.Div(income).Mul(forty)))
	}

	// Debt paydown progress, up to 20 points. Debt-free is full marks.
	if len(debts) == 0 {
		score = score.Add(twenty)
	} else {
		progress := decimal.Zero
		for _, d := range debts {
			if d.TotalAmount.IsPositive() {
				paid := d.TotalAmount.Sub(d.RemainingBalance)
				progress = progress.Add(paid.Div(d.TotalAmount).Mul(hundred))
			}
		}
		avg := progress.Div(decimal.NewFromInt(int64(len(debts))))
		score = score.Add(avg.Div(hundred).Mul(twenty))
	}

	// Savings rate, up to 20 points. Overspending earns zero, never a
	// deduction.
	if income.IsPositive() {
		rate := cashflow.Div(income).Mul(hundred)
		score = score.Add(decimal.Min(twenty, decimal.Max(decimal.Zero, rate.Mul(decimal.NewFromFloat(0.4)))))
	}

	rounded := int(score.Round(0).IntPart())
	grade := "F"
	switch {
	case rounded >= 90:
		grade = "A"
	case rounded >= 75:
		grade = "B"
	case rounded >= 60:
		grade = "C"
	case rounded >= 45:
		grade = "D"
	}
	return rounded, grade
}
