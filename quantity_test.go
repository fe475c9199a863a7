package folio

import "testing"

func TestQuantize(t *testing.T) {
	tests := []struct {
		name string
		in   Quantity
		want string
	}{
		{name: "repeating decimal truncates", in: Q(85).Div(Q(15)), want: "5.66666666"},
		{name: "negative truncates toward zero", in: Q(-85).Div(Q(15)), want: "-5.66666666"},
		{name: "short scale is untouched", in: Q(3.5), want: "3.5"},
		{name: "integer is untouched", in: Q(250), want: "250"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Quantize().String(); got != tc.want {
				t.Errorf("Quantize() = %s want %s", got, tc.want)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity("0.00000001")
	if err != nil {
		t.Fatalf("ParseQuantity() error = %v", err)
	}
	if q.String() != "0.00000001" {
		t.Errorf("ParseQuantity() = %s", q)
	}
	if _, err := ParseQuantity("ten"); err == nil {
		t.Error("ParseQuantity(ten) did not fail")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	// The empty currency is weak: it adopts the other operand's currency.
	total := Money{}.Add(usd(10)).Add(usd(5))
	if total.Currency() != "USD" || total.Decimal() != "15" {
		t.Errorf("sum = %s %s", total.Decimal(), total.Currency())
	}

	amount := usd(5).Mul(Q(10)).Quantize()
	if amount.Decimal() != "50" {
		t.Errorf("5 x 10 = %s want 50", amount.Decimal())
	}
}
