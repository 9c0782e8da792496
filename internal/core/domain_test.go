package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func validInput() TransactionInput {
	return TransactionInput{
		UserID:     "user-1",
		WalletID:   "wallet-1",
		CategoryID: "cat-1",
		Type:       Expense,
		Amount:     decimal.NewFromInt(150000),
		Date:       NewDate(2025, 6, 15),
	}
}

func TestTransactionInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TransactionInput)
		wantErr error
	}{
		{
			name:   "valid expense",
			mutate: func(in *TransactionInput) {},
		},
		{
			name: "valid debt repayment",
			mutate: func(in *TransactionInput) {
				in.Type = DebtRepayment
				in.DebtID = "debt-1"
			},
		},
		{
			name: "valid transfer",
			mutate: func(in *TransactionInput) {
				in.Type = Transfer
				in.ToWalletID = "wallet-2"
				in.CategoryID = ""
			},
		},
		{
			name:    "missing user",
			mutate:  func(in *TransactionInput) { in.UserID = "" },
			wantErr: ErrMissingUser,
		},
		{
			name:    "missing wallet",
			mutate:  func(in *TransactionInput) { in.WalletID = "" },
			wantErr: ErrMissingWallet,
		},
		{
			name:    "unknown type",
			mutate:  func(in *TransactionInput) { in.Type = "refund" },
			wantErr: ErrUnknownType,
		},
		{
			name:    "zero amount",
			mutate:  func(in *TransactionInput) { in.Amount = decimal.Zero },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-5) },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "missing date",
			mutate:  func(in *TransactionInput) { in.Date = Date{} },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "debt repayment without debt",
			mutate:  func(in *TransactionInput) { in.Type = DebtRepayment },
			wantErr: ErrDebtRequired,
		},
		{
			name: "expense with debt reference",
			mutate: func(in *TransactionInput) {
				in.DebtID = "debt-1"
			},
			wantErr: ErrDebtNotAllowed,
		},
		{
			name: "transfer without destination",
			mutate: func(in *TransactionInput) {
				in.Type = Transfer
				in.CategoryID = ""
			},
			wantErr: ErrMissingToWallet,
		},
		{
			name: "transfer to same wallet",
			mutate: func(in *TransactionInput) {
				in.Type = Transfer
				in.ToWalletID = in.WalletID
				in.CategoryID = ""
			},
			wantErr: ErrSameWallet,
		},
		{
			name: "expense with destination wallet",
			mutate: func(in *TransactionInput) {
				in.ToWalletID = "wallet-2"
			},
			wantErr: ErrToWalletNotAllowed,
		},
		{
			name: "expense without category",
			mutate: func(in *TransactionInput) {
				in.CategoryID = ""
			},
			wantErr: ErrMissingCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() error should wrap ErrValidation")
			}
		})
	}
}

func TestRecurringTemplate_Validate(t *testing.T) {
	base := RecurringTemplate{
		UserID:     "user-1",
		WalletID:   "wallet-1",
		CategoryID: "cat-1",
		Type:       Expense,
		Amount:     decimal.NewFromInt(99000),
		Frequency:  Monthly,
		StartDate:  NewDate(2025, 1, 31),
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}

	transfer := base
	transfer.Type = Transfer
	if !errors.Is(transfer.Validate(), ErrUnknownType) {
		t.Error("transfers must not be schedulable")
	}

	repay := base
	repay.Type = DebtRepayment
	if !errors.Is(repay.Validate(), ErrDebtRequired) {
		t.Error("recurring debt repayment requires a debt reference")
	}
	repay.DebtID = "debt-1"
	if err := repay.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	badFreq := base
	badFreq.Frequency = "fortnightly"
	if !errors.Is(badFreq.Validate(), ErrUnknownFrequency) {
		t.Error("unknown frequency must be rejected")
	}
}

func TestRecurringTemplate_NextAfter(t *testing.T) {
	tests := []struct {
		name string
		freq Frequency
		from Date
		want Date
	}{
		{name: "daily", freq: Daily, from: NewDate(2025, 1, 31), want: NewDate(2025, 2, 1)},
		{name: "weekly", freq: Weekly, from: NewDate(2025, 2, 25), want: NewDate(2025, 3, 4)},
		{name: "monthly clamps", freq: Monthly, from: NewDate(2025, 1, 31), want: NewDate(2025, 2, 28)},
		{name: "yearly from leap day", freq: Yearly, from: NewDate(2024, 2, 29), want: NewDate(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := RecurringTemplate{Frequency: tt.freq}
			got, err := tmpl.NextAfter(tt.from)
			if err != nil {
				t.Fatalf("NextAfter() error = %v", err)
			}
			if !got.SameDay(tt.want) {
				t.Errorf("NextAfter(%s) = %s, want %s", tt.from, got, tt.want)
			}
		})
	}

	tmpl := RecurringTemplate{Frequency: "hourly"}
	if _, err := tmpl.NextAfter(NewDate(2025, 1, 1)); !errors.Is(err, ErrUnknownFrequency) {
		t.Error("NextAfter() should reject unknown frequency")
	}
}
