package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestHealthScore(t *testing.T) {
	d := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	halfPaid := []Debt{{
		TotalAmount:      d(10_000_000),
		RemainingBalance: d(5_000_000),
	}}
	barelyPaid := []Debt{{
		TotalAmount:      d(10_000_000),
		RemainingBalance: d(9_800_000),
	}}

	tests := []struct {
		name      string
		income    decimal.Decimal
		expense   decimal.Decimal
		debts     []Debt
		wantScore int
		wantGrade string
	}{
		{
			name:      "no data at all",
			income:    decimal.Zero,
			expense:   decimal.Zero,
			wantScore: 0,
			wantGrade: "-",
		},
		{
			name:      "frugal month no debt",
			income:    d(10_000_000),
			expense:   d(2_000_000),
			wantScore: 100, // every component at its cap
			wantGrade: "A",
		},
		{
			name:      "healthy month no debt",
			income:    d(10_000_000),
			expense:   d(6_000_000),
			wantScore: 85, // 33.33 ratio + 16 cashflow + 20 no debt + 16 savings
			wantGrade: "B",
		},
		{
			name:      "healthy month debt half paid",
			income:    d(10_000_000),
			expense:   d(6_000_000),
			debts:     halfPaid,
			wantScore: 75, // 33.33 ratio + 16 cashflow + 10 debt + 16 savings
			wantGrade: "B",
		},
		{
			name:      "tight month debt barely paid",
			income:    d(10_000_000),
			expense:   d(9_500_000),
			debts:     barelyPaid,
			wantScore: 25, // 21.05 ratio + 2 cashflow + 0.4 debt + 2 savings
			wantGrade: "F",
		},
		{
			name:      "spending exceeds income",
			income:    d(5_000_000),
			expense:   d(7_000_000),
			wantScore: 34, // 14.29 ratio + 0 cashflow + 20 no debt + 0 savings
			wantGrade: "F",
		},
		{
			name:      "expenses only",
			income:    decimal.Zero,
			expense:   d(2_000_000),
			wantScore: 20, // 0 ratio + 0 cashflow + 20 no debt + 0 savings
			wantGrade: "F",
		},
		{
			name:      "break even",
			income:    d(4_000_000),
			expense:   d(4_000_000),
			wantScore: 40, // 20 ratio + 0 cashflow + 20 no debt + 0 savings
			wantGrade: "F",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, grade := HealthScore(tt.income, tt.expense, tt.debts)
			if score != tt.wantScore {
				t.Errorf("HealthScore() score = %d, want %d", score, tt.wantScore)
			}
			if grade != tt.wantGrade {
				t.Errorf("HealthScore() grade = %s, want %s", grade, tt.wantGrade)
			}
		})
	}
}
