package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"100", 10000, true},
		{"-12.34", 1234, true}, // magnitude only
		{"+5", 500, true},
		{"12.345", 1235, true}, // third decimal rounds half up
		{"12.346", 1235, true},
		{"0.01", 1, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"0", 0, true}, // zero rows are legal, they just contribute nothing
	}
	for i, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d %q: got (%d, %v), want %d", i, tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d %q: expected error", i, tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: -7000}).String(); got != "-70.00" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: 30050}).String(); got != "300.50" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: 5}).String(); got != "0.05" {
		t.Fatalf("got %q", got)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: -10000}
	if a.Abs().Cents != 10000 {
		t.Fatalf("abs: got %d", a.Abs().Cents)
	}
	if a.Neg().Cents != 10000 {
		t.Fatalf("neg: got %d", a.Neg().Cents)
	}
	if a.Add(Money{Cents: 3000}).Cents != -7000 {
		t.Fatalf("add: got %d", a.Add(Money{Cents: 3000}).Cents)
	}
}
