package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income        TransactionType = "income"
	Expense       TransactionType = "expense"
	Transfer      TransactionType = "transfer"
	DebtRepayment TransactionType = "debt_repayment"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	WalletCash       WalletKind = "cash"
	WalletBank       WalletKind = "bank"
	WalletCreditCard WalletKind = "credit_card"
)

const (
	DebtFixedTerm DebtKind = "fixed_term"
	DebtRevolving DebtKind = "revolving"
)

const (
	ActionCreated     ActivityAction = "created"
	ActionUpdated     ActivityAction = "updated"
	ActionDeleted     ActivityAction = "deleted"
	ActionDebtPayment ActivityAction = "debt_payment"
)

type (
	TransactionType string
	Frequency       string
	WalletKind      string
	DebtKind        string
	ActivityAction  string

	// Wallet is a user-owned balance bucket. Balance is only ever written by
	// the ledger; a credit-card wallet may legitimately go negative.
	Wallet struct {
		ID          string
		UserID      string
		Name        string
		Kind        WalletKind
		Balance     decimal.Decimal
		Currency    string
		Institution string
		Color       string
		Icon        string
		IsDefault   bool
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Debt is a liability with a remaining balance that only the amortization
	// tracker reduces. Interest rate and credit limit are informational.
	Debt struct {
		ID                 string
		UserID             string
		Name               string
		Kind               DebtKind
		TotalAmount        decimal.Decimal
		RemainingBalance   decimal.Decimal
		MonthlyInstallment decimal.Decimal
		CreditLimit        decimal.NullDecimal
		InterestRate       decimal.NullDecimal
		StartDate          Date
		DueDate            Date
		Color              string
		CreatedAt          time.Time
		UpdatedAt          time.Time
	}

	// Transaction is immutable once created; removing one goes through the
	// orchestrator's reversal operation, never update-in-place.
	Transaction struct {
		ID         string
		UserID     string
		WalletID   string
		ToWalletID string // set only for transfers
		DebtID     string // set only for debt repayments
		CategoryID string
		Type       TransactionType
		Amount     decimal.Decimal
		Date       Date
		Note       string
		Recurring  bool
		TemplateID string
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	// DebtPayment is the append-only history row recorded once per repayment,
	// snapshotting the debt balance before and after.
	DebtPayment struct {
		ID              string
		DebtID          string
		TransactionID   string
		Amount          decimal.Decimal
		PreviousBalance decimal.Decimal
		NewBalance      decimal.Decimal
		PaymentDate     Date
		Note            string
		CreatedAt       time.Time
	}

	// ActivityEntry is one append-only audit row. It commits in the same unit
	// of work as the mutation it describes.
	ActivityEntry struct {
		ID         string
		UserID     string
		Action     ActivityAction
		EntityType string
		EntityID   string
		Metadata   map[string]any
		CreatedAt  time.Time
	}

	// Streak tracks consecutive calendar days of ledger activity, one row per
	// user. LastActivity is the day the user last acted, not a ledger date.
	Streak struct {
		ID           string
		UserID       string
		Current      int
		Longest      int
		LastActivity Date
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	// RecurringTemplate generates transactions on a schedule. NextRun advances
	// one period per firing; LastRun is the previously fired occurrence.
	RecurringTemplate struct {
		ID         string
		UserID     string
		Amount     decimal.Decimal
		CategoryID string
		WalletID   string
		DebtID     string
		Type       TransactionType
		Note       string
		Frequency  Frequency
		StartDate  Date
		NextRun    Date
		LastRun    Date
		Enabled    bool
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	// SavingsGoal accumulates voluntary contributions toward a target amount.
	// The current amount clamps at the target; reaching it marks the goal
	// completed. Contributions are bookkeeping only and move no wallet money.
	SavingsGoal struct {
		ID            string
		UserID        string
		Name          string
		TargetAmount  decimal.Decimal
		CurrentAmount decimal.Decimal
		Deadline      Date
		Color         string
		Icon          string
		Notes         string
		Completed     bool
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	// Budget caps one category's expenses for one calendar month. Period is
	// the month in "2006-01" form; actual spending is computed from the
	// ledger on read, never stored.
	Budget struct {
		ID             string
		UserID         string
		CategoryID     string
		MonthlyLimit   decimal.Decimal
		AlertThreshold int
		Period         string
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	// BudgetStatus is a budget joined with the month's actual spending.
	BudgetStatus struct {
		Budget
		Spent            decimal.Decimal
		Percentage       decimal.Decimal
		Remaining        decimal.Decimal
		OverBudget       bool
		ApproachingLimit bool
	}

	// Category labels transactions. Referenced by id, not deeply validated.
	Category struct {
		ID       string
		Name     string
		Kind     string // income or expense
		ParentID string
		Icon     string
		Color    string
	}

	// TransactionInput is a request to create a transaction.
	TransactionInput struct {
		UserID     string
		WalletID   string
		ToWalletID string
		DebtID     string
		CategoryID string
		Type       TransactionType
		Amount     decimal.Decimal
		Date       Date
		Note       string
	}
)

// Valid reports whether t is one of the four known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Transfer, DebtRepayment:
		return true
	}
	return false
}

// Valid reports whether f is a known recurrence frequency.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Valid reports whether k is a known wallet kind.
func (k WalletKind) Valid() bool {
	switch k {
	case WalletCash, WalletBank, WalletCreditCard:
		return true
	}
	return false
}

// Valid reports whether k is a known debt kind.
func (k DebtKind) Valid() bool {
	switch k {
	case DebtFixedTerm, DebtRevolving:
		return true
	}
	return false
}

// Validate checks a transaction request before any mutation begins. The debt
// and destination-wallet references are tied to the transaction type here so
// that a debt repayment can never silently degrade into a plain expense.
func (in TransactionInput) Validate() error {
	if in.UserID == "" {
		return ErrMissingUser
	}
	if in.WalletID == "" {
		return ErrMissingWallet
	}
	if !in.Type.Valid() {
		return ErrUnknownType
	}
	if err := ValidateAmount(in.Amount); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return ErrInvalidDate
	}
	switch in.Type {
	case DebtRepayment:
		if in.DebtID == "" {
			return ErrDebtRequired
		}
	case Transfer:
		if in.DebtID != "" {
			return ErrDebtNotAllowed
		}
		if in.ToWalletID == "" {
			return ErrMissingToWallet
		}
		if in.ToWalletID == in.WalletID {
			return ErrSameWallet
		}
	default:
		if in.DebtID != "" {
			return ErrDebtNotAllowed
		}
	}
	if in.Type != Transfer {
		if in.ToWalletID != "" {
			return ErrToWalletNotAllowed
		}
		if in.CategoryID == "" {
			return ErrMissingCategory
		}
	}
	return nil
}

// Validate checks a recurring template before it is stored. Transfers cannot
// recur; the schedulable types are income, expense and debt repayment.
func (t RecurringTemplate) Validate() error {
	if t.UserID == "" {
		return ErrMissingUser
	}
	if t.WalletID == "" {
		return ErrMissingWallet
	}
	if t.CategoryID == "" {
		return ErrMissingCategory
	}
	switch t.Type {
	case Income, Expense:
		if t.DebtID != "" {
			return ErrDebtNotAllowed
		}
	case DebtRepayment:
		if t.DebtID == "" {
			return ErrDebtRequired
		}
	default:
		return ErrUnknownType
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if !t.Frequency.Valid() {
		return ErrUnknownFrequency
	}
	if t.StartDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NextAfter computes the occurrence that follows from for the template's
// frequency. Monthly and yearly advancement clamp to the last day of a
// shorter target month.
func (t RecurringTemplate) NextAfter(from Date) (Date, error) {
	switch t.Frequency {
	case Daily:
		return from.AddDays(1), nil
	case Weekly:
		return from.AddDays(7), nil
	case Monthly:
		return from.AddMonths(1), nil
	case Yearly:
		return from.AddYears(1), nil
	}
	return Date{}, ErrUnknownFrequency
}

// Validate checks a savings goal before it is stored.
func (g SavingsGoal) Validate() error {
	if g.UserID == "" {
		return ErrMissingUser
	}
	if g.Name == "" {
		return ErrMissingName
	}
	return ValidateAmount(g.TargetAmount)
}

// Validate checks a budget before it is stored.
func (b Budget) Validate() error {
	if b.UserID == "" {
		return ErrMissingUser
	}
	if b.CategoryID == "" {
		return ErrMissingCategory
	}
	return ValidateAmount(b.MonthlyLimit)
}

// Validate checks a wallet before it is stored.
func (w Wallet) Validate() error {
	if w.UserID == "" {
		return ErrMissingUser
	}
	if w.Name == "" {
		return ErrMissingName
	}
	if !w.Kind.Valid() {
		return ErrUnknownType
	}
	return nil
}

// Validate checks a debt before it is stored.
func (d Debt) Validate() error {
	if d.UserID == "" {
		return ErrMissingUser
	}
	if d.Name == "" {
		return ErrMissingName
	}
	if !d.Kind.Valid() {
		return ErrUnknownType
	}
	if err := ValidateAmount(d.TotalAmount); err != nil {
		return err
	}
	if d.RemainingBalance.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
