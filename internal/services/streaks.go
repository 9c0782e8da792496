package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yanuaroby/familyfin/internal/core"
	"github.com/yanuaroby/familyfin/internal/storage"
)

// StreakTracker counts consecutive calendar days on which a user recorded at
// least one transaction. The day that matters is the wall-clock day the user
// acted, never the transaction's ledger date: backfilling last month's
// receipts still counts as activity today.
type StreakTracker struct{}

// Touch records activity for userID on today's date.
func (StreakTracker) Touch(ctx context.Context, q *storage.Queries, userID string, now time.Time) error {
	today := core.DateOf(now)

	s, err := q.GetStreak(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return q.InsertStreak(ctx, core.Streak{
			ID:           uuid.NewString(),
			UserID:       userID,
			Current:      1,
			Longest:      1,
			LastActivity: today,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	if err != nil {
		return err
	}

	next := advanceStreak(s, today)
	if next.LastActivity.SameDay(s.LastActivity) &&
		next.Current == s.Current && next.Longest == s.Longest {
		// Second touch on the same day, nothing to write.
		return nil
	}
	return q.UpdateStreak(ctx, userID, next.Current, next.Longest, next.LastActivity, now)
}

// advanceStreak computes the streak state after activity on today. Same-day
// activity is a no-op, yesterday extends the run, any older gap resets it
// to one.
func advanceStreak(s core.Streak, today core.Date) core.Streak {
	switch {
	case s.LastActivity.SameDay(today):
		return s
	case s.LastActivity.SameDay(today.AddDays(-1)):
		s.Current++
	default:
		s.Current = 1
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	s.LastActivity = today
	return s
}
