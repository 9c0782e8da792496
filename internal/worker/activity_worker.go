// Package worker consumes committed activity events off the broker for
// fan-out work that must not sit on the request path.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yanuaroby/familyfin/internal/amqp"
	"github.com/yanuaroby/familyfin/internal/core"
	"github.com/yanuaroby/familyfin/internal/log"
	"github.com/yanuaroby/familyfin/internal/storage"
)

// ActivityWorker turns activity events into household notifications. The
// message carries identifiers only; the worker reads the committed entry
// back from SQLite so a replayed or delayed delivery can never surface
// state that rolled back.
type ActivityWorker struct {
	storage *storage.SQLiteRepository
	notify  Notifier
}

// Notifier delivers one rendered notification line. The default
// implementation just logs; a chat or push integration satisfies the same
// interface.
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, userID, message string) error {
	slog.InfoContext(ctx, "Notification", log.FieldUserID, userID, "message", message)
	return nil
}

func NewActivityWorker(storage *storage.SQLiteRepository, notify Notifier) *ActivityWorker {
	if notify == nil {
		notify = LogNotifier{}
	}
	return &ActivityWorker{
		storage: storage,
		notify:  notify,
	}
}

// HandleActivityEvent processes a single activity event from AMQP.
func (w *ActivityWorker) HandleActivityEvent(ctx context.Context, msg *amqp.ActivityEventMessage) error {
	slog.InfoContext(ctx, "Processing activity event",
		log.FieldComponent, log.ComponentWorker,
		"entry_id", msg.ID,
		"action", msg.Action)

	entries, err := w.storage.Queries().ListRecentActivity(ctx, msg.UserID, 50)
	if err != nil {
		return fmt.Errorf("read back activity: %w", err)
	}

	var entry *core.ActivityEntry
	for i := range entries {
		if entries[i].ID == msg.ID {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		// The entry either rolled off the recent window or the event is a
		// duplicate from before a reversal. Either way there is nothing to
		// announce.
		slog.WarnContext(ctx, "Activity entry not found, dropping event", "entry_id", msg.ID)
		return nil
	}

	if err := w.notify.Notify(ctx, entry.UserID, renderNotification(*entry)); err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	return nil
}

func renderNotification(e core.ActivityEntry) string {
	switch e.Action {
	case core.ActionDebtPayment:
		return fmt.Sprintf("Debt payment of %v recorded, balance %v -> %v",
			e.Metadata["amount"], e.Metadata["previousBalance"], e.Metadata["newBalance"])
	case core.ActionDeleted:
		return fmt.Sprintf("%s %s was reversed", e.EntityType, e.EntityID)
	default:
		return fmt.Sprintf("%s %s: %s of %v", e.EntityType, e.Action, e.Metadata["type"], e.Metadata["amount"])
	}
}
