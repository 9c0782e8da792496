package services

import (
	"testing"

	"github.com/yanuaroby/familyfin/internal/core"
)

func TestAdvanceStreak(t *testing.T) {
	today := core.NewDate(2025, 6, 15)

	tests := []struct {
		name        string
		streak      core.Streak
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "same day is a no-op",
			streak:      core.Streak{Current: 4, Longest: 9, LastActivity: today},
			wantCurrent: 4,
			wantLongest: 9,
		},
		{
			name:        "yesterday extends the run",
			streak:      core.Streak{Current: 4, Longest: 9, LastActivity: core.NewDate(2025, 6, 14)},
			wantCurrent: 5,
			wantLongest: 9,
		},
		{
			name:        "extension can set a new longest",
			streak:      core.Streak{Current: 9, Longest: 9, LastActivity: core.NewDate(2025, 6, 14)},
			wantCurrent: 10,
			wantLongest: 10,
		},
		{
			name:        "two day gap resets to one",
			streak:      core.Streak{Current: 7, Longest: 12, LastActivity: core.NewDate(2025, 6, 13)},
			wantCurrent: 1,
			wantLongest: 12,
		},
		{
			name:        "long gap resets to one",
			streak:      core.Streak{Current: 30, Longest: 30, LastActivity: core.NewDate(2025, 1, 2)},
			wantCurrent: 1,
			wantLongest: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advanceStreak(tt.streak, today)
			if got.Current != tt.wantCurrent {
				t.Errorf("advanceStreak() current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.Longest != tt.wantLongest {
				t.Errorf("advanceStreak() longest = %d, want %d", got.Longest, tt.wantLongest)
			}
			if !got.LastActivity.SameDay(today) {
				t.Errorf("advanceStreak() lastActivity = %s, want %s", got.LastActivity, today)
			}
		})
	}
}
