package config

import (
	"os"
	"strconv"
)

const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

type Config struct {
	ProjectID     string
	LogLevel      string
	Port          string
	Store         string
	KMSKeyName    string
	TxMaxAttempts int

	LoanMinDepositMultiple int
	LoanAmountMultiple     int
	LoanTermDays           int
}

func New() *Config {
	return &Config{
		ProjectID:     os.Getenv("PROJECTID"),
		LogLevel:      os.Getenv("LOGLEVEL"),
		Port:          getString("PORT", "8080"),
		Store:         getStore(os.Getenv("STORE")),
		KMSKeyName:    os.Getenv("KMSKEYNAME"),
		TxMaxAttempts: getInt("TXMAXATTEMPTS", 5),

		LoanMinDepositMultiple: getInt("LOANMINDEPOSITMULTIPLE", 5),
		LoanAmountMultiple:     getInt("LOANAMOUNTMULTIPLE", 30),
		LoanTermDays:           getInt("LOANTERMDAYS", 32),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getInt returns fallback when the variable is unset, malformed or not positive.
func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getStore(store string) string {
	switch store {
	case StoreMemory:
		return StoreMemory
	default: // "firestore"
		return StoreFirestore
	}
}
