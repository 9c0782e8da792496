package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yanuaroby/familyfin/internal/core"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every query runs either
// standalone or inside a unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx binds the query set to an open transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ---- wallets ----

const walletColumns = `id, user_id, name, kind, balance, currency, institution, color, icon, is_default, created_at, updated_at`

func (q *Queries) CreateWallet(ctx context.Context, w core.Wallet) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO wallets (`+walletColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.Name, string(w.Kind), w.Balance.String(), w.Currency,
		w.Institution, w.Color, w.Icon, boolToInt(w.IsDefault),
		fmtTime(w.CreatedAt), fmtTime(w.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

func (q *Queries) GetWallet(ctx context.Context, id string) (core.Wallet, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = ?`, id)
	w, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Wallet{}, core.ErrWalletNotFound
	}
	if err != nil {
		return core.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

func (q *Queries) ListWallets(ctx context.Context, userID string) ([]core.Wallet, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+walletColumns+` FROM wallets WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []core.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// UpdateWalletMeta changes display fields only. The balance column is owned
// by the ledger and is never written here.
func (q *Queries) UpdateWalletMeta(ctx context.Context, id, name, color, icon string, updatedAt time.Time) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE wallets SET name = ?, color = ?, icon = ?, updated_at = ? WHERE id = ?`,
		name, color, icon, fmtTime(updatedAt), id)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	return requireRow(res, core.ErrWalletNotFound)
}

func (q *Queries) SetWalletBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE wallets SET balance = ?, updated_at = ? WHERE id = ?`,
		balance.String(), fmtTime(updatedAt), id)
	if err != nil {
		return fmt.Errorf("set wallet balance: %w", err)
	}
	return requireRow(res, core.ErrWalletNotFound)
}

func (q *Queries) DeleteWallet(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM wallets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	return requireRow(res, core.ErrWalletNotFound)
}

func (q *Queries) CountWalletTransactions(ctx context.Context, walletID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions WHERE wallet_id = ? OR to_wallet_id = ?`,
		walletID, walletID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count wallet transactions: %w", err)
	}
	return n, nil
}

func scanWallet(row rowScanner) (core.Wallet, error) {
	var (
		w                    core.Wallet
		kind                 string
		balance              string
		isDefault            int
		createdAt, updatedAt string
	)
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &kind, &balance, &w.Currency,
		&w.Institution, &w.Color, &w.Icon, &isDefault, &createdAt, &updatedAt); err != nil {
		return core.Wallet{}, err
	}
	var err error
	if w.Balance, err = decimal.NewFromString(balance); err != nil {
		return core.Wallet{}, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	w.Kind = core.WalletKind(kind)
	w.IsDefault = isDefault != 0
	w.CreatedAt = parseTime(createdAt)
	w.UpdatedAt = parseTime(updatedAt)
	return w, nil
}

// ---- debts ----

const debtColumns = `id, user_id, name, kind, total_amount, remaining_balance, monthly_installment, credit_limit, interest_rate, start_date, due_date, color, created_at, updated_at`

func (q *Queries) CreateDebt(ctx context.Context, d core.Debt) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO debts (`+debtColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.Name, string(d.Kind), d.TotalAmount.String(),
		d.RemainingBalance.String(), d.MonthlyInstallment.String(),
		nullDecimal(d.CreditLimit), nullDecimal(d.InterestRate),
		d.StartDate.String(), d.DueDate.String(), d.Color,
		fmtTime(d.CreatedAt), fmtTime(d.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert debt: %w", err)
	}
	return nil
}

func (q *Queries) GetDebt(ctx context.Context, id string) (core.Debt, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = ?`, id)
	d, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, core.ErrDebtNotFound
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("get debt: %w", err)
	}
	return d, nil
}

func (q *Queries) ListDebts(ctx context.Context, userID string) ([]core.Debt, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+debtColumns+` FROM debts WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (q *Queries) SetDebtBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE debts SET remaining_balance = ?, updated_at = ? WHERE id = ?`,
		balance.String(), fmtTime(updatedAt), id)
	if err != nil {
		return fmt.Errorf("set debt balance: %w", err)
	}
	return requireRow(res, core.ErrDebtNotFound)
}

func (q *Queries) DeleteDebt(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	return requireRow(res, core.ErrDebtNotFound)
}

func scanDebt(row rowScanner) (core.Debt, error) {
	var (
		d                           core.Debt
		kind                        string
		total, remaining, installment string
		creditLimit, interestRate   sql.NullString
		startDate, dueDate          string
		createdAt, updatedAt        string
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &kind, &total, &remaining,
		&installment, &creditLimit, &interestRate, &startDate, &dueDate,
		&d.Color, &createdAt, &updatedAt); err != nil {
		return core.Debt{}, err
	}
	var err error
	if d.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return core.Debt{}, fmt.Errorf("parse total amount %q: %w", total, err)
	}
	if d.RemainingBalance, err = decimal.NewFromString(remaining); err != nil {
		return core.Debt{}, fmt.Errorf("parse remaining balance %q: %w", remaining, err)
	}
	if d.MonthlyInstallment, err = decimal.NewFromString(installment); err != nil {
		return core.Debt{}, fmt.Errorf("parse installment %q: %w", installment, err)
	}
	if d.CreditLimit, err = scanNullDecimal(creditLimit); err != nil {
		return core.Debt{}, err
	}
	if d.InterestRate, err = scanNullDecimal(interestRate); err != nil {
		return core.Debt{}, err
	}
	d.Kind = core.DebtKind(kind)
	d.StartDate = parseDate(startDate)
	d.DueDate = parseDate(dueDate)
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	return d, nil
}

// ---- categories ----

func (q *Queries) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, kind, parent_id, icon, color)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Kind, c.ParentID, c.Icon, c.Color)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (q *Queries) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, name, kind, parent_id, icon, color FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind, &c.ParentID, &c.Icon, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (q *Queries) DeleteCategory(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, core.ErrCategoryNotFound)
}

// ---- transactions ----

const transactionColumns = `id, user_id, wallet_id, to_wallet_id, debt_id, category_id, type, amount, date, note, is_recurring, template_id, created_at, updated_at`

func (q *Queries) InsertTransaction(ctx context.Context, t core.Transaction) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.WalletID, nullString(t.ToWalletID), nullString(t.DebtID),
		t.CategoryID, string(t.Type), t.Amount.String(), t.Date.String(), t.Note,
		boolToInt(t.Recurring), nullString(t.TemplateID),
		fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (q *Queries) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (q *Queries) DeleteTransaction(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, core.ErrTransactionNotFound)
}

// ListTransactions returns a user's transactions within [from, to], newest
// first.
func (q *Queries) ListTransactions(ctx context.Context, userID string, from, to core.Date) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date DESC, created_at DESC`,
		userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// SumTransactions totals a user's transactions of one type within [from, to].
// Amounts are summed as decimals, not floats.
func (q *Queries) SumTransactions(ctx context.Context, userID string, typ core.TransactionType, from, to core.Date) (decimal.Decimal, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT amount FROM transactions
		WHERE user_id = ? AND type = ? AND date >= ? AND date <= ?`,
		userID, string(typ), from.String(), to.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return decimal.Zero, fmt.Errorf("scan amount: %w", err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                     core.Transaction
		toWallet, debt, tmpl  sql.NullString
		typ, amount, date     string
		isRecurring           int
		createdAt, updatedAt  string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.WalletID, &toWallet, &debt,
		&t.CategoryID, &typ, &amount, &date, &t.Note, &isRecurring, &tmpl,
		&createdAt, &updatedAt); err != nil {
		return core.Transaction{}, err
	}
	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.ToWalletID = toWallet.String
	t.DebtID = debt.String
	t.TemplateID = tmpl.String
	t.Type = core.TransactionType(typ)
	t.Date = parseDate(date)
	t.Recurring = isRecurring != 0
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

// ---- debt payments ----

const debtPaymentColumns = `id, debt_id, transaction_id, amount, previous_balance, new_balance, payment_date, note, created_at`

func (q *Queries) InsertDebtPayment(ctx context.Context, p core.DebtPayment) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO debt_payments (`+debtPaymentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.DebtID, p.TransactionID, p.Amount.String(),
		p.PreviousBalance.String(), p.NewBalance.String(),
		p.PaymentDate.String(), p.Note, fmtTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert debt payment: %w", err)
	}
	return nil
}

func (q *Queries) GetDebtPaymentByTransaction(ctx context.Context, transactionID string) (core.DebtPayment, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+debtPaymentColumns+` FROM debt_payments WHERE transaction_id = ?`, transactionID)
	p, err := scanDebtPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DebtPayment{}, fmt.Errorf("debt payment %w", core.ErrNotFound)
	}
	if err != nil {
		return core.DebtPayment{}, fmt.Errorf("get debt payment: %w", err)
	}
	return p, nil
}

func (q *Queries) DeleteDebtPayment(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM debt_payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete debt payment: %w", err)
	}
	return nil
}

func (q *Queries) ListDebtPayments(ctx context.Context, debtID string) ([]core.DebtPayment, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+debtPaymentColumns+` FROM debt_payments WHERE debt_id = ? ORDER BY payment_date DESC`, debtID)
	if err != nil {
		return nil, fmt.Errorf("list debt payments: %w", err)
	}
	defer rows.Close()

	var payments []core.DebtPayment
	for rows.Next() {
		p, err := scanDebtPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan debt payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanDebtPayment(row rowScanner) (core.DebtPayment, error) {
	var (
		p                        core.DebtPayment
		amount, prev, next, date string
		createdAt                string
	)
	if err := row.Scan(&p.ID, &p.DebtID, &p.TransactionID, &amount, &prev,
		&next, &date, &p.Note, &createdAt); err != nil {
		return core.DebtPayment{}, err
	}
	var err error
	if p.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.DebtPayment{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if p.PreviousBalance, err = decimal.NewFromString(prev); err != nil {
		return core.DebtPayment{}, fmt.Errorf("parse previous balance %q: %w", prev, err)
	}
	if p.NewBalance, err = decimal.NewFromString(next); err != nil {
		return core.DebtPayment{}, fmt.Errorf("parse new balance %q: %w", next, err)
	}
	p.PaymentDate = parseDate(date)
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

// ---- activity log ----

func (q *Queries) InsertActivity(ctx context.Context, e core.ActivityEntry) error {
	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("marshal activity metadata: %w", err)
	}
	_, err = q.db.ExecContext(ctx, `
		INSERT INTO activity_logs (id, user_id, action, entity_type, entity_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, string(e.Action), e.EntityType, e.EntityID, string(meta), fmtTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (q *Queries) ListRecentActivity(ctx context.Context, userID string, limit int) ([]core.ActivityEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, user_id, action, entity_type, entity_id, metadata, created_at
		FROM activity_logs WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var entries []core.ActivityEntry
	for rows.Next() {
		var (
			e         core.ActivityEntry
			action    string
			meta      string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &action, &e.EntityType, &e.EntityID, &meta, &createdAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal activity metadata: %w", err)
		}
		e.Action = core.ActivityAction(action)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (q *Queries) CountActivity(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_logs WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count activity: %w", err)
	}
	return n, nil
}

// ---- streaks ----

func (q *Queries) GetStreak(ctx context.Context, userID string) (core.Streak, error) {
	var (
		s                    core.Streak
		lastActivity         string
		createdAt, updatedAt string
	)
	err := q.db.QueryRowContext(ctx, `
		SELECT id, user_id, current_streak, longest_streak, last_activity_date, created_at, updated_at
		FROM streaks WHERE user_id = ?`, userID).
		Scan(&s.ID, &s.UserID, &s.Current, &s.Longest, &lastActivity, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Streak{}, fmt.Errorf("streak %w", core.ErrNotFound)
	}
	if err != nil {
		return core.Streak{}, fmt.Errorf("get streak: %w", err)
	}
	s.LastActivity = parseDate(lastActivity)
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return s, nil
}

func (q *Queries) InsertStreak(ctx context.Context, s core.Streak) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO streaks (id, user_id, current_streak, longest_streak, last_activity_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Current, s.Longest, s.LastActivity.String(),
		fmtTime(s.CreatedAt), fmtTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert streak: %w", err)
	}
	return nil
}

func (q *Queries) UpdateStreak(ctx context.Context, userID string, current, longest int, lastActivity core.Date, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE streaks SET current_streak = ?, longest_streak = ?, last_activity_date = ?, updated_at = ?
		WHERE user_id = ?`,
		current, longest, lastActivity.String(), fmtTime(updatedAt), userID)
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	return nil
}

// ---- recurring templates ----

const templateColumns = `id, user_id, amount, category_id, wallet_id, debt_id, type, note, frequency, start_date, next_run, last_run, is_enabled, created_at, updated_at`

func (q *Queries) InsertTemplate(ctx context.Context, t core.RecurringTemplate) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO recurring_templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Amount.String(), t.CategoryID, t.WalletID,
		nullString(t.DebtID), string(t.Type), t.Note, string(t.Frequency),
		t.StartDate.String(), t.NextRun.String(), nullDate(t.LastRun),
		boolToInt(t.Enabled), fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (q *Queries) GetTemplate(ctx context.Context, id string) (core.RecurringTemplate, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM recurring_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringTemplate{}, core.ErrTemplateNotFound
	}
	if err != nil {
		return core.RecurringTemplate{}, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (q *Queries) ListTemplates(ctx context.Context, userID string) ([]core.RecurringTemplate, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+templateColumns+` FROM recurring_templates WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	return collectTemplates(rows)
}

// ListDueTemplates returns every enabled template whose next run is on or
// before asOf.
func (q *Queries) ListDueTemplates(ctx context.Context, asOf core.Date) ([]core.RecurringTemplate, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+templateColumns+` FROM recurring_templates
		WHERE is_enabled = 1 AND next_run <= ? ORDER BY next_run`,
		asOf.String())
	if err != nil {
		return nil, fmt.Errorf("list due templates: %w", err)
	}
	defer rows.Close()
	return collectTemplates(rows)
}

func (q *Queries) UpdateTemplate(ctx context.Context, t core.RecurringTemplate) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE recurring_templates
		SET amount = ?, category_id = ?, note = ?, frequency = ?, is_enabled = ?, updated_at = ?
		WHERE id = ?`,
		t.Amount.String(), t.CategoryID, t.Note, string(t.Frequency),
		boolToInt(t.Enabled), fmtTime(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return requireRow(res, core.ErrTemplateNotFound)
}

func (q *Queries) SetTemplateEnabled(ctx context.Context, id string, enabled bool, updatedAt time.Time) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE recurring_templates SET is_enabled = ?, updated_at = ? WHERE id = ?`,
		boolToInt(enabled), fmtTime(updatedAt), id)
	if err != nil {
		return fmt.Errorf("set template enabled: %w", err)
	}
	return requireRow(res, core.ErrTemplateNotFound)
}

// AdvanceTemplate moves a template forward one period after a firing.
func (q *Queries) AdvanceTemplate(ctx context.Context, id string, nextRun, lastRun core.Date, updatedAt time.Time) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE recurring_templates SET next_run = ?, last_run = ?, updated_at = ? WHERE id = ?`,
		nextRun.String(), lastRun.String(), fmtTime(updatedAt), id)
	if err != nil {
		return fmt.Errorf("advance template: %w", err)
	}
	return requireRow(res, core.ErrTemplateNotFound)
}

func (q *Queries) DeleteTemplate(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM recurring_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return requireRow(res, core.ErrTemplateNotFound)
}

func collectTemplates(rows *sql.Rows) ([]core.RecurringTemplate, error) {
	var templates []core.RecurringTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func scanTemplate(row rowScanner) (core.RecurringTemplate, error) {
	var (
		t                    core.RecurringTemplate
		amount               string
		debtID, lastRun      sql.NullString
		typ, freq            string
		startDate, nextRun   string
		enabled              int
		createdAt, updatedAt string
	)
	if err := row.Scan(&t.ID, &t.UserID, &amount, &t.CategoryID, &t.WalletID,
		&debtID, &typ, &t.Note, &freq, &startDate, &nextRun, &lastRun,
		&enabled, &createdAt, &updatedAt); err != nil {
		return core.RecurringTemplate{}, err
	}
	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.RecurringTemplate{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.DebtID = debtID.String
	t.Type = core.TransactionType(typ)
	t.Frequency = core.Frequency(freq)
	t.StartDate = parseDate(startDate)
	t.NextRun = parseDate(nextRun)
	if lastRun.Valid {
		t.LastRun = parseDate(lastRun.String)
	}
	t.Enabled = enabled != 0
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

// ---- savings goals ----

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, color, icon, notes, is_completed, created_at, updated_at`

func (q *Queries) CreateGoal(ctx context.Context, g core.SavingsGoal) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO savings_goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(),
		nullDate(g.Deadline), g.Color, g.Icon, g.Notes, boolToInt(g.Completed),
		fmtTime(g.CreatedAt), fmtTime(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert savings goal: %w", err)
	}
	return nil
}

func (q *Queries) GetGoal(ctx context.Context, id string) (core.SavingsGoal, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM savings_goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, core.ErrGoalNotFound
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("get savings goal: %w", err)
	}
	return g, nil
}

func (q *Queries) ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+goalColumns+` FROM savings_goals WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	defer rows.Close()

	var goals []core.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateGoalMeta changes the editable goal fields. Progress is owned by
// SetGoalProgress.
func (q *Queries) UpdateGoalMeta(ctx context.Context, g core.SavingsGoal) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE savings_goals
		SET name = ?, target_amount = ?, deadline = ?, color = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		g.Name, g.TargetAmount.String(), nullDate(g.Deadline), g.Color, g.Notes,
		fmtTime(g.UpdatedAt), g.ID)
	if err != nil {
		return fmt.Errorf("update savings goal: %w", err)
	}
	return requireRow(res, core.ErrGoalNotFound)
}

func (q *Queries) SetGoalProgress(ctx context.Context, id string, current decimal.Decimal, completed bool, updatedAt time.Time) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE savings_goals SET current_amount = ?, is_completed = ?, updated_at = ? WHERE id = ?`,
		current.String(), boolToInt(completed), fmtTime(updatedAt), id)
	if err != nil {
		return fmt.Errorf("set goal progress: %w", err)
	}
	return requireRow(res, core.ErrGoalNotFound)
}

func (q *Queries) DeleteGoal(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete savings goal: %w", err)
	}
	return requireRow(res, core.ErrGoalNotFound)
}

func scanGoal(row rowScanner) (core.SavingsGoal, error) {
	var (
		g                    core.SavingsGoal
		target, current      string
		deadline             sql.NullString
		completed            int
		createdAt, updatedAt string
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &target, &current, &deadline,
		&g.Color, &g.Icon, &g.Notes, &completed, &createdAt, &updatedAt); err != nil {
		return core.SavingsGoal{}, err
	}
	var err error
	if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("parse target amount %q: %w", target, err)
	}
	if g.CurrentAmount, err = decimal.NewFromString(current); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("parse current amount %q: %w", current, err)
	}
	if deadline.Valid {
		g.Deadline = parseDate(deadline.String)
	}
	g.Completed = completed != 0
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)
	return g, nil
}

// ---- budgets ----

const budgetColumns = `id, user_id, category_id, monthly_limit, alert_threshold, period, created_at, updated_at`

func (q *Queries) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO budgets (`+budgetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.CategoryID, b.MonthlyLimit.String(), b.AlertThreshold,
		b.Period, fmtTime(b.CreatedAt), fmtTime(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (q *Queries) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrBudgetNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// CountBudgets reports how many budgets a user already has for one category
// and period. Backs the one-budget-per-category-per-month rule.
func (q *Queries) CountBudgets(ctx context.Context, userID, categoryID, period string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM budgets WHERE user_id = ? AND category_id = ? AND period = ?`,
		userID, categoryID, period).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count budgets: %w", err)
	}
	return n, nil
}

func (q *Queries) ListBudgets(ctx context.Context, userID, period string) ([]core.Budget, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? AND period = ? ORDER BY created_at`,
		userID, period)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (q *Queries) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE budgets SET monthly_limit = ?, alert_threshold = ?, updated_at = ? WHERE id = ?`,
		b.MonthlyLimit.String(), b.AlertThreshold, fmtTime(b.UpdatedAt), b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res, core.ErrBudgetNotFound)
}

func (q *Queries) DeleteBudget(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res, core.ErrBudgetNotFound)
}

// SumCategoryExpenses totals a user's expenses in one category within
// [from, to].
func (q *Queries) SumCategoryExpenses(ctx context.Context, userID, categoryID string, from, to core.Date) (decimal.Decimal, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT amount FROM transactions
		WHERE user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date <= ?`,
		userID, categoryID, string(core.Expense), from.String(), to.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum category expenses: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return decimal.Zero, fmt.Errorf("scan amount: %w", err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b                    core.Budget
		limit                string
		createdAt, updatedAt string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &limit, &b.AlertThreshold,
		&b.Period, &createdAt, &updatedAt); err != nil {
		return core.Budget{}, err
	}
	var err error
	if b.MonthlyLimit, err = decimal.NewFromString(limit); err != nil {
		return core.Budget{}, fmt.Errorf("parse monthly limit %q: %w", limit, err)
	}
	b.CreatedAt = parseTime(createdAt)
	b.UpdatedAt = parseTime(updatedAt)
	return b, nil
}

// ---- helpers ----

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseDate(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}
	}
	return d
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func scanNullDecimal(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("parse decimal %q: %w", s.String, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
