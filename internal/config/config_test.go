package config

import "testing"

func TestNewDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE", "TXMAXATTEMPTS", "LOANMINDEPOSITMULTIPLE", "LOANAMOUNTMULTIPLE", "LOANTERMDAYS", "KMSKEYNAME"} {
		t.Setenv(key, "")
	}

	cfg := New()

	if cfg.Port != "8080" || cfg.Store != StoreFirestore || cfg.TxMaxAttempts != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LoanMinDepositMultiple != 5 || cfg.LoanAmountMultiple != 30 || cfg.LoanTermDays != 32 {
		t.Fatalf("unexpected loan policy defaults: %+v", cfg)
	}
	if cfg.KMSKeyName != "" {
		t.Fatalf("KMSKeyName = %q, want empty", cfg.KMSKeyName)
	}
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE", "memory")
	t.Setenv("TXMAXATTEMPTS", "2")
	t.Setenv("LOANAMOUNTMULTIPLE", "20")
	t.Setenv("LOANTERMDAYS", "not-a-number")

	cfg := New()

	if cfg.Port != "9090" || cfg.Store != StoreMemory || cfg.TxMaxAttempts != 2 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.LoanAmountMultiple != 20 {
		t.Fatalf("LoanAmountMultiple = %d, want 20", cfg.LoanAmountMultiple)
	}
	if cfg.LoanTermDays != 32 {
		t.Fatalf("malformed LOANTERMDAYS should fall back, got %d", cfg.LoanTermDays)
	}
}
