package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yanuaroby/familyfin/internal/amqp"
	"github.com/yanuaroby/familyfin/internal/core"
	"github.com/yanuaroby/familyfin/internal/log"
	"github.com/yanuaroby/familyfin/internal/storage"
)

// TransactionService orchestrates transaction creation and reversal. Every
// side effect of one call — the transaction row, the wallet balances, the
// debt balance and payment snapshot, the activity entry and the streak —
// commits or rolls back as a single SQLite transaction. After a successful
// commit the matching activity event is published to AMQP on a best-effort
// basis; a broker failure never fails the request.
type TransactionService struct {
	store    *storage.SQLiteRepository
	ledger   Ledger
	debts    DebtTracker
	streaks  StreakTracker
	activity ActivityLogger
	events   *amqp.Client

	now func() time.Time
}

func NewTransactionService(store *storage.SQLiteRepository, events *amqp.Client) *TransactionService {
	return &TransactionService{
		store:  store,
		events: events,
		now:    time.Now,
	}
}

// CreateTransaction validates in, applies it atomically and returns the
// stored transaction.
func (s *TransactionService) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	now := s.now()
	t := core.Transaction{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		WalletID:   in.WalletID,
		ToWalletID: in.ToWalletID,
		DebtID:     in.DebtID,
		CategoryID: in.CategoryID,
		Type:       in.Type,
		Amount:     in.Amount,
		Date:       in.Date,
		Note:       in.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var entry core.ActivityEntry
	err := s.store.WithinTx(ctx, func(q *storage.Queries) error {
		var err error
		entry, err = s.apply(ctx, q, t, now)
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishActivity(ctx, entry)
	return t, nil
}

// apply runs the full mutation sequence for t inside the caller's unit of
// work. The recurring scheduler shares this path so a fired occurrence gets
// the exact semantics of a hand-entered transaction.
func (s *TransactionService) apply(ctx context.Context, q *storage.Queries, t core.Transaction, now time.Time) (core.ActivityEntry, error) {
	if err := q.InsertTransaction(ctx, t); err != nil {
		return core.ActivityEntry{}, err
	}

	if err := s.ledger.Apply(ctx, q, t, now); err != nil {
		return core.ActivityEntry{}, err
	}

	var entry core.ActivityEntry
	if t.Type == core.DebtRepayment {
		payment, err := s.debts.ApplyPayment(ctx, q, t, now)
		if err != nil {
			return core.ActivityEntry{}, err
		}
		entry, err = s.activity.Record(ctx, q, t.UserID, core.ActionDebtPayment, "debt", t.DebtID, map[string]any{
			"amount":          t.Amount.String(),
			"previousBalance": payment.PreviousBalance.String(),
			"newBalance":      payment.NewBalance.String(),
			"transactionId":   t.ID,
		}, now)
		if err != nil {
			return core.ActivityEntry{}, err
		}
	} else {
		var err error
		entry, err = s.activity.Record(ctx, q, t.UserID, core.ActionCreated, "transaction", t.ID, map[string]any{
			"amount":     t.Amount.String(),
			"type":       string(t.Type),
			"categoryId": t.CategoryID,
			"walletId":   t.WalletID,
		}, now)
		if err != nil {
			return core.ActivityEntry{}, err
		}
	}

	if err := s.streaks.Touch(ctx, q, t.UserID, now); err != nil {
		return core.ActivityEntry{}, err
	}
	return entry, nil
}

// ReverseTransaction undoes a committed transaction: wallet deltas are
// inverted, a debt repayment gets its actually-applied balance reduction
// restored and its payment row removed, and the transaction row is deleted.
// A deletion entry lands in the activity log. Streaks are not rewound; the
// day the user acted stays acted-upon.
func (s *TransactionService) ReverseTransaction(ctx context.Context, userID, transactionID string) error {
	now := s.now()

	var entry core.ActivityEntry
	err := s.store.WithinTx(ctx, func(q *storage.Queries) error {
		t, err := q.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		if t.UserID != userID {
			return core.ErrTransactionNotFound
		}

		if err := s.ledger.Reverse(ctx, q, t, now); err != nil {
			return err
		}

		meta := map[string]any{
			"amount": t.Amount.String(),
			"type":   string(t.Type),
		}
		if t.Type == core.DebtRepayment {
			payment, err := s.debts.ReversePayment(ctx, q, t, now)
			if err != nil {
				return err
			}
			meta["debtId"] = t.DebtID
			meta["restoredBalance"] = payment.PreviousBalance.Sub(payment.NewBalance).String()
		}

		if err := q.DeleteTransaction(ctx, transactionID); err != nil {
			return err
		}

		entry, err = s.activity.Record(ctx, q, userID, core.ActionDeleted, "transaction", transactionID, meta, now)
		return err
	})
	if err != nil {
		return err
	}

	s.publishActivity(ctx, entry)
	return nil
}

func (s *TransactionService) publishActivity(ctx context.Context, entry core.ActivityEntry) {
	if s.events == nil {
		return
	}
	msg := amqp.ActivityEventMessage{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Action:     string(entry.Action),
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		OccurredAt: entry.CreatedAt,
	}
	if err := s.events.PublishActivityEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish activity event",
			log.FieldComponent, log.ComponentActivity,
			"entry_id", entry.ID, log.FieldError, err)
		// Don't fail the request - the mutation is already committed.
	}
}

// Close releases the service's connections.
func (s *TransactionService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
