package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yanuaroby/familyfin/internal/core"
	"github.com/yanuaroby/familyfin/internal/storage"
)

// ActivityLogger appends audit rows. An entry always commits in the same
// unit of work as the mutation it describes, so the feed can never show an
// action whose data change rolled back.
type ActivityLogger struct{}

func (ActivityLogger) Record(ctx context.Context, q *storage.Queries, userID string, action core.ActivityAction, entityType, entityID string, metadata map[string]any, now time.Time) (core.ActivityEntry, error) {
	entry := core.ActivityEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
		CreatedAt:  now,
	}
	if err := q.InsertActivity(ctx, entry); err != nil {
		return core.ActivityEntry{}, err
	}
	return entry, nil
}
