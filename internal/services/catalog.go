package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yanuaroby/familyfin/internal/core"
	"github.com/yanuaroby/familyfin/internal/storage"
)

// CatalogService manages the reference entities transactions point at:
// wallets, debts, categories and recurring templates. These are plain CRUD;
// balance mutations stay with the ledger and debt tracker.
type CatalogService struct {
	store *storage.SQLiteRepository
	now   func() time.Time
}

func NewCatalogService(store *storage.SQLiteRepository) *CatalogService {
	return &CatalogService{
		store: store,
		now:   time.Now,
	}
}

// ---- wallets ----

func (s *CatalogService) CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}
	now := s.now()
	w.ID = uuid.NewString()
	if w.Currency == "" {
		w.Currency = "IDR"
	}
	w.CreatedAt = now
	w.UpdatedAt = now
	if err := s.store.Queries().CreateWallet(ctx, w); err != nil {
		return core.Wallet{}, err
	}
	return w, nil
}

func (s *CatalogService) GetWallet(ctx context.Context, userID, id string) (core.Wallet, error) {
	w, err := s.store.Queries().GetWallet(ctx, id)
	if err != nil {
		return core.Wallet{}, err
	}
	if w.UserID != userID {
		return core.Wallet{}, core.ErrWalletNotFound
	}
	return w, nil
}

func (s *CatalogService) ListWallets(ctx context.Context, userID string) ([]core.Wallet, error) {
	return s.store.Queries().ListWallets(ctx, userID)
}

func (s *CatalogService) UpdateWallet(ctx context.Context, userID, id, name, color, icon string) error {
	if name == "" {
		return core.ErrMissingName
	}
	if _, err := s.GetWallet(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Queries().UpdateWalletMeta(ctx, id, name, color, icon, s.now())
}

// DeleteWallet removes a wallet that no transaction references. Wallets with
// history cannot be deleted; the ledger would lose its reversal anchor.
func (s *CatalogService) DeleteWallet(ctx context.Context, userID, id string) error {
	return s.store.WithinTx(ctx, func(q *storage.Queries) error {
		w, err := q.GetWallet(ctx, id)
		if err != nil {
			return err
		}
		if w.UserID != userID {
			return core.ErrWalletNotFound
		}
		n, err := q.CountWalletTransactions(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return core.ErrWalletInUse
		}
		return q.DeleteWallet(ctx, id)
	})
}

// ---- debts ----

func (s *CatalogService) CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	now := s.now()
	d.ID = uuid.NewString()
	if d.RemainingBalance.IsZero() {
		d.RemainingBalance = d.TotalAmount
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	if err := s.store.Queries().CreateDebt(ctx, d); err != nil {
		return core.Debt{}, err
	}
	return d, nil
}

func (s *CatalogService) GetDebt(ctx context.Context, userID, id string) (core.Debt, error) {
	d, err := s.store.Queries().GetDebt(ctx, id)
	if err != nil {
		return core.Debt{}, err
	}
	if d.UserID != userID {
		return core.Debt{}, core.ErrDebtNotFound
	}
	return d, nil
}

func (s *CatalogService) ListDebts(ctx context.Context, userID string) ([]core.Debt, error) {
	return s.store.Queries().ListDebts(ctx, userID)
}

func (s *CatalogService) ListDebtPayments(ctx context.Context, userID, debtID string) ([]core.DebtPayment, error) {
	if _, err := s.GetDebt(ctx, userID, debtID); err != nil {
		return nil, err
	}
	return s.store.Queries().ListDebtPayments(ctx, debtID)
}

func (s *CatalogService) DeleteDebt(ctx context.Context, userID, id string) error {
	if _, err := s.GetDebt(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Queries().DeleteDebt(ctx, id)
}

// ---- categories ----

func (s *CatalogService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.Name == "" {
		return core.Category{}, core.ErrMissingName
	}
	if c.Kind != "income" && c.Kind != "expense" {
		return core.Category{}, core.ErrUnknownType
	}
	c.ID = uuid.NewString()
	if err := s.store.Queries().CreateCategory(ctx, c); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.store.Queries().ListCategories(ctx)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.store.Queries().DeleteCategory(ctx, id)
}

// ---- recurring templates ----

func (s *CatalogService) CreateTemplate(ctx context.Context, t core.RecurringTemplate) (core.RecurringTemplate, error) {
	if err := t.Validate(); err != nil {
		return core.RecurringTemplate{}, err
	}
	now := s.now()
	t.ID = uuid.NewString()
	if t.NextRun.IsZero() {
		t.NextRun = t.StartDate
	}
	t.Enabled = true
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.store.Queries().InsertTemplate(ctx, t); err != nil {
		return core.RecurringTemplate{}, err
	}
	return t, nil
}

func (s *CatalogService) GetTemplate(ctx context.Context, userID, id string) (core.RecurringTemplate, error) {
	t, err := s.store.Queries().GetTemplate(ctx, id)
	if err != nil {
		return core.RecurringTemplate{}, err
	}
	if t.UserID != userID {
		return core.RecurringTemplate{}, core.ErrTemplateNotFound
	}
	return t, nil
}

func (s *CatalogService) ListTemplates(ctx context.Context, userID string) ([]core.RecurringTemplate, error) {
	return s.store.Queries().ListTemplates(ctx, userID)
}

// UpdateTemplate changes a template's amount, category, note, frequency and
// enabled flag. The schedule anchors (start, next and last run) are owned by
// the scheduler and not editable.
func (s *CatalogService) UpdateTemplate(ctx context.Context, userID string, t core.RecurringTemplate) error {
	existing, err := s.GetTemplate(ctx, userID, t.ID)
	if err != nil {
		return err
	}
	if err := core.ValidateAmount(t.Amount); err != nil {
		return err
	}
	if !t.Frequency.Valid() {
		return core.ErrUnknownFrequency
	}
	if t.CategoryID == "" {
		return core.ErrMissingCategory
	}
	existing.Amount = t.Amount
	existing.CategoryID = t.CategoryID
	existing.Note = t.Note
	existing.Frequency = t.Frequency
	existing.Enabled = t.Enabled
	existing.UpdatedAt = s.now()
	return s.store.Queries().UpdateTemplate(ctx, existing)
}

func (s *CatalogService) SetTemplateEnabled(ctx context.Context, userID, id string, enabled bool) error {
	if _, err := s.GetTemplate(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Queries().SetTemplateEnabled(ctx, id, enabled, s.now())
}

func (s *CatalogService) DeleteTemplate(ctx context.Context, userID, id string) error {
	if _, err := s.GetTemplate(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Queries().DeleteTemplate(ctx, id)
}

// ---- transactions (read side) ----

// ListTransactions returns a user's transactions for one calendar month.
func (s *CatalogService) ListTransactions(ctx context.Context, userID string, year, month int) ([]core.Transaction, error) {
	if month < 1 || month > 12 || year < 1970 {
		return nil, core.ErrInvalidDate
	}
	from := core.NewDate(year, month, 1)
	to := from.AddMonths(1).AddDays(-1)
	return s.store.Queries().ListTransactions(ctx, userID, from, to)
}
