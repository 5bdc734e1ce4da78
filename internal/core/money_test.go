package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseAmountAllowsZero(t *testing.T) {
	m, err := ParseAmount("0")
	if err != nil || !m.IsZero() {
		t.Fatalf("expected zero amount, got %v (err=%v)", m, err)
	}
	m, err = ParseAmount("5000")
	if err != nil || m.Cents != 500000 {
		t.Fatalf("expected 500000 cents, got %v (err=%v)", m, err)
	}
	if _, err := ParseAmount("-3"); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a, b := Cents(1000), Cents(400)
	if got := a.Sub(b); got.Cents != 600 {
		t.Errorf("Sub = %d, want 600", got.Cents)
	}
	if got := a.Add(b); got.Cents != 1400 {
		t.Errorf("Add = %d, want 1400", got.Cents)
	}
	if got := b.Neg(); got.Cents != -400 {
		t.Errorf("Neg = %d, want -400", got.Cents)
	}
	if got := Cents(12345).Major(); got != 123.45 {
		t.Errorf("Major = %v, want 123.45", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	var tx struct {
		Amount Money `json:"amount"`
	}
	if err := json.Unmarshal([]byte(`{"amount": 1999}`), &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tx.Amount.Cents != 1999 {
		t.Fatalf("got %d cents, want 1999", tx.Amount.Cents)
	}
	if err := json.Unmarshal([]byte(`{"amount": "abc"}`), &tx); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
	out, err := json.Marshal(Cents(250))
	if err != nil || string(out) != "250" {
		t.Fatalf("marshal = %s (err=%v), want 250", out, err)
	}
}
