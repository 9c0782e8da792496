package core

import (
	"testing"
)

func TestDate_AddMonths(t *testing.T) {
	tests := []struct {
		name string
		from Date
		n    int
		want Date
	}{
		{
			name: "mid-month advances plainly",
			from: NewDate(2025, 1, 15),
			n:    1,
			want: NewDate(2025, 2, 15),
		},
		{
			name: "jan 31 clamps to feb 28",
			from: NewDate(2025, 1, 31),
			n:    1,
			want: NewDate(2025, 2, 28),
		},
		{
			name: "jan 31 clamps to feb 29 in leap year",
			from: NewDate(2024, 1, 31),
			n:    1,
			want: NewDate(2024, 2, 29),
		},
		{
			name: "mar 31 clamps to apr 30",
			from: NewDate(2025, 3, 31),
			n:    1,
			want: NewDate(2025, 4, 30),
		},
		{
			name: "december wraps to next year",
			from: NewDate(2025, 12, 10),
			n:    1,
			want: NewDate(2026, 1, 10),
		},
		{
			name: "clamped date does not drift back up",
			from: NewDate(2025, 2, 28),
			n:    1,
			want: NewDate(2025, 3, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.AddMonths(tt.n)
			if !got.SameDay(tt.want) {
				t.Errorf("AddMonths(%d) from %s = %s, want %s", tt.n, tt.from, got, tt.want)
			}
		})
	}
}

func TestDate_AddYears(t *testing.T) {
	got := NewDate(2024, 2, 29).AddYears(1)
	want := NewDate(2025, 2, 28)
	if !got.SameDay(want) {
		t.Errorf("AddYears(1) from 2024-02-29 = %s, want %s", got, want)
	}
}

func TestDate_AddDays(t *testing.T) {
	got := NewDate(2025, 1, 30).AddDays(7)
	want := NewDate(2025, 2, 6)
	if !got.SameDay(want) {
		t.Errorf("AddDays(7) = %s, want %s", got, want)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-15")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d.String() != "2025-06-15" {
		t.Errorf("String() = %s, want 2025-06-15", d.String())
	}

	if _, err := ParseDate("15/06/2025"); err == nil {
		t.Error("ParseDate() expected error for non-ISO input")
	}
	if _, err := ParseDate("garbage"); !IsValidation(err) {
		t.Error("ParseDate() error should be a validation error")
	}
}

func TestDate_ZeroRendersEmpty(t *testing.T) {
	var d Date
	if d.String() != "" {
		t.Errorf("zero date String() = %q, want empty", d.String())
	}
}
