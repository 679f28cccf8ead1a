package money

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{2.675, 2.68},
		{-1.005, -1.01},
		{10, 10},
		{0.004, 0},
		{99.999, 100},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestBalanceFloorsAtZero(t *testing.T) {
	if got := Balance(100, 150, 0); got != 0 {
		t.Fatalf("Balance = %v, want 0", got)
	}
	if got := Balance(500, 100, 0); got != 400 {
		t.Fatalf("Balance = %v, want 400", got)
	}
	if got := Balance(0.3, 0.1, 0.1); got != 0.1 {
		t.Fatalf("Balance = %v, want 0.1", got)
	}
}

func TestIsMultiple(t *testing.T) {
	cases := []struct {
		amount, unit float64
		want         bool
	}{
		{500, 100, true},
		{100, 100, true},
		{150, 100, false},
		{0, 100, false},
		{-200, 100, false},
		{100, 0, false},
		{0.3, 0.1, true},
		{50, 100, false},
	}
	for _, c := range cases {
		if got := IsMultiple(c.amount, c.unit); got != c.want {
			t.Errorf("IsMultiple(%v, %v) = %v, want %v", c.amount, c.unit, got, c.want)
		}
	}
}

func TestAddAndTimes(t *testing.T) {
	if got := Add(0.1, 0.2); got != 0.3 {
		t.Fatalf("Add = %v, want 0.3", got)
	}
	if got := Times(33.33, 30); got != 999.9 {
		t.Fatalf("Times = %v, want 999.9", got)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(500); got != "500.00" {
		t.Fatalf("Format = %q", got)
	}
}
