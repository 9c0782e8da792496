package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yanuaroby/familyfin/internal/core"
	"github.com/yanuaroby/familyfin/internal/log"
	"github.com/yanuaroby/familyfin/internal/storage"
)

// RecurringScheduler fires due recurring templates. Each firing creates a
// real transaction dated at the template's scheduled occurrence and advances
// the template exactly one period, in the same unit of work. An overdue
// template therefore catches up one occurrence per run, never in a burst.
type RecurringScheduler struct {
	store *storage.SQLiteRepository
	tx    *TransactionService
}

func NewRecurringScheduler(store *storage.SQLiteRepository, tx *TransactionService) *RecurringScheduler {
	return &RecurringScheduler{
		store: store,
		tx:    tx,
	}
}

// ProcessDue fires every enabled template whose next run is on or before
// now's calendar day. A failing template is logged and skipped; the rest of
// the batch still runs. Returns the number of transactions created.
func (p *RecurringScheduler) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.tx == nil {
		return 0, fmt.Errorf("scheduler not properly initialized")
	}

	today := core.DateOf(now)
	due, err := p.store.Queries().ListDueTemplates(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list due templates: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring templates",
		log.FieldComponent, log.ComponentScheduler,
		"total_due", len(due),
		"processing_date", today.String())

	processed := 0
	for _, tmpl := range due {
		if err := p.fire(ctx, tmpl.ID, today, now); err != nil {
			slog.ErrorContext(ctx, "Failed to fire recurring template",
				log.FieldComponent, log.ComponentScheduler,
				log.FieldTemplateID, tmpl.ID,
				log.FieldError, err)
			continue
		}
		processed++
	}

	slog.InfoContext(ctx, "Recurring template processing complete",
		log.FieldComponent, log.ComponentScheduler,
		"processed", processed,
		"total_due", len(due))

	return processed, nil
}

// fire creates one occurrence for the template and advances its schedule.
// The template is re-read inside the unit of work so a concurrent run (or a
// disable that landed after the due listing) cannot double-fire it.
func (p *RecurringScheduler) fire(ctx context.Context, templateID string, today core.Date, now time.Time) error {
	var entry core.ActivityEntry
	err := p.store.WithinTx(ctx, func(q *storage.Queries) error {
		tmpl, err := q.GetTemplate(ctx, templateID)
		if err != nil {
			return err
		}
		if !tmpl.Enabled || tmpl.NextRun.AfterDate(today) {
			return nil
		}

		t := core.Transaction{
			ID:         uuid.NewString(),
			UserID:     tmpl.UserID,
			WalletID:   tmpl.WalletID,
			DebtID:     tmpl.DebtID,
			CategoryID: tmpl.CategoryID,
			Type:       tmpl.Type,
			Amount:     tmpl.Amount,
			Date:       tmpl.NextRun,
			Note:       tmpl.Note,
			Recurring:  true,
			TemplateID: tmpl.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		entry, err = p.tx.apply(ctx, q, t, now)
		if err != nil {
			return err
		}

		next, err := tmpl.NextAfter(tmpl.NextRun)
		if err != nil {
			return err
		}
		if err := q.AdvanceTemplate(ctx, tmpl.ID, next, tmpl.NextRun, now); err != nil {
			return err
		}

		slog.InfoContext(ctx, "Created transaction from recurring template",
			log.FieldComponent, log.ComponentScheduler,
			log.FieldTemplateID, tmpl.ID,
			log.FieldTxType, string(tmpl.Type),
			log.FieldAmount, tmpl.Amount.String(),
			"occurrence", tmpl.NextRun.String(),
			"next_run", next.String())
		return nil
	})
	if err != nil {
		return err
	}

	if entry.ID != "" {
		p.tx.publishActivity(ctx, entry)
	}
	return nil
}
