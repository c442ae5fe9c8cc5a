package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1235, true},
		{"12.344", 1234, true},
		{" 7 ", 700, true},
		{".5", 50, true},
		{"0", 0, true},
		{"", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1000000000000", 100000000000000, true},
		{"1000000000000.01", 0, false},
		{"184467440737095516.17", 0, false},
		{"1e30", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if m.Cents != tc.cents {
			t.Fatalf("%q: got %d cents, want %d", tc.in, m.Cents, tc.cents)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 12000}).String(); got != "120.00" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: 5}).String(); got != "0.05" {
		t.Fatalf("got %q", got)
	}
	m, err := FromFloat(45.5)
	if err != nil {
		t.Fatalf("FromFloat: %v", err)
	}
	if got := m.String(); got != "45.50" {
		t.Fatalf("got %q", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{Money{Cents: 4599}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"amount":45.99}` {
		t.Fatalf("unexpected json %s", b)
	}

	var in struct {
		Amount Money `json:"amount"`
	}
	if err := json.Unmarshal([]byte(`{"amount":"10.505"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Amount.Cents != 1051 {
		t.Fatalf("got %d cents", in.Amount.Cents)
	}
	if err := json.Unmarshal([]byte(`{"amount":true}`), &in); err == nil {
		t.Fatalf("expected error for bool amount")
	}
}

func TestAmountCeiling(t *testing.T) {
	for _, f := range []float64{-1, 1e13, math.NaN(), math.Inf(1)} {
		if _, err := FromFloat(f); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("FromFloat(%v): got %v, want ErrInvalidAmount", f, err)
		}
	}

	var in struct {
		Amount Money `json:"amount"`
	}
	for _, body := range []string{`{"amount":184467440737095516.17}`, `{"amount":"-3"}`} {
		if err := json.Unmarshal([]byte(body), &in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s: got %v, want ErrInvalidAmount", body, err)
		}
	}
}

func TestMoneyAddSaturates(t *testing.T) {
	got := Money{Cents: math.MaxInt64 - 10}.Add(Money{Cents: 1000})
	if got.Cents != math.MaxInt64 {
		t.Fatalf("got %d, want MaxInt64", got.Cents)
	}
	if got := (Money{Cents: 150}).Add(Money{Cents: 250}); got.Cents != 400 {
		t.Fatalf("got %d", got.Cents)
	}
}
