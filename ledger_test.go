package folio

import (
	"errors"
	"testing"
)

func TestRecord(t *testing.T) {
	tests := []struct {
		name          string
		tx            Transaction
		debitAccount  string
		creditAccount string
		amount        string
		desc          string
	}{
		{
			name:          "buy debits cash credits asset",
			tx:            NewBuy("p", Q(10), usd(5), testNow),
			debitAccount:  AccountCash,
			creditAccount: AccountAsset,
			amount:        "50",
			desc:          "Buy 10 TA",
		},
		{
			name:          "sell debits asset credits cash",
			tx:            NewSell("p", Q(5), usd(5), testNow),
			debitAccount:  AccountAsset,
			creditAccount: AccountCash,
			amount:        "25",
			desc:          "Sell 5 TA",
		},
		{
			name:          "fractional amount is truncated",
			tx:            NewBuy("p", Q(3), usd(0.333333333), testNow),
			debitAccount:  AccountCash,
			creditAccount: AccountAsset,
			// 3 * 0.333333333 = 0.999999999, truncated at 8 digits.
			amount: "0.99999999",
			desc:   "Buy 3 TA",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			debit, credit, err := Record(tc.tx, "TA")
			if err != nil {
				t.Fatalf("Record() error = %v", err)
			}
			if debit.Type != Debit || credit.Type != Credit {
				t.Errorf("entry types = %s, %s want DEBIT, CREDIT", debit.Type, credit.Type)
			}
			if debit.Account != tc.debitAccount {
				t.Errorf("debit account = %s want %s", debit.Account, tc.debitAccount)
			}
			if credit.Account != tc.creditAccount {
				t.Errorf("credit account = %s want %s", credit.Account, tc.creditAccount)
			}
			if got := debit.Amount.Decimal(); got != tc.amount {
				t.Errorf("debit amount = %s want %s", got, tc.amount)
			}
			if !Balanced(debit, credit) {
				t.Errorf("entries are not balanced")
			}
			if debit.Description != tc.desc {
				t.Errorf("description = %q want %q", debit.Description, tc.desc)
			}
			if debit.Transaction != tc.tx.ID || credit.Transaction != tc.tx.ID {
				t.Errorf("entries do not reference the transaction")
			}
		})
	}
}

func TestRecordRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
	}{
		{name: "zero quantity", tx: NewBuy("p", Q(0), usd(5), testNow)},
		{name: "negative quantity", tx: NewBuy("p", Q(-1), usd(5), testNow)},
		{name: "zero price", tx: NewSell("p", Q(1), usd(0), testNow)},
		{name: "unknown type", tx: Transaction{ID: "x", Position: "p", Type: "SHORT", Quantity: Q(1), Price: usd(1), When: testNow}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := Record(tc.tx, "TA"); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Record() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestBalanced(t *testing.T) {
	debit, credit, err := Record(NewBuy("p", Q(10), usd(5), testNow), "TA")
	if err != nil {
		t.Fatal(err)
	}

	other := credit
	other.Amount = usd(49)
	if Balanced(debit, other) {
		t.Errorf("Balanced() = true for unequal amounts")
	}

	sameSide := debit
	sameSide.ID = "other"
	if Balanced(debit, sameSide) {
		t.Errorf("Balanced() = true for two debits")
	}
}
