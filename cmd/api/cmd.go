package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/savings-backend/internal/bootstrap"
	"github.com/GregMSThompson/savings-backend/internal/config"
	"github.com/GregMSThompson/savings-backend/internal/crypto"
	"github.com/GregMSThompson/savings-backend/internal/handlers"
	"github.com/GregMSThompson/savings-backend/internal/response"
	"github.com/GregMSThompson/savings-backend/internal/router"
	"github.com/GregMSThompson/savings-backend/internal/services"
	"github.com/GregMSThompson/savings-backend/internal/store"
	"github.com/GregMSThompson/savings-backend/internal/store/memory"
)

type closer interface {
	Close() error
}

// shutdown releases the clients and returns the process exit code.
func shutdown(c closer, log *slog.Logger, message string, err error) int {
	if cerr := c.Close(); cerr != nil {
		log.Error("failed to close clients", "error", cerr)
	}
	if err != nil {
		log.Error(message, "error", err)
		return 1
	}
	return 0
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	if err != nil {
		os.Exit(shutdown(bs, bs.Log, "bootstrap failed", err))
	}

	err = serve(cfg, bs)
	os.Exit(shutdown(bs, bs.Log, "server stopped", err))
}

func serve(cfg *config.Config, bs *bootstrap.Bootstrap) error {
	policy := services.LoanPolicy{
		MinDepositMultiple: cfg.LoanMinDepositMultiple,
		LoanAmountMultiple: cfg.LoanAmountMultiple,
		TermDays:           cfg.LoanTermDays,
	}

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = response.New(bs.Log)
	deps.Firebase = bs.Firebase

	if cfg.Store == config.StoreMemory {
		mem := memory.New()
		deps.SavingsSvc = services.NewSavingsService(mem, mem, mem, mem)
		deps.LoanSvc = services.NewLoanService(mem, mem, policy)
		deps.WithdrawalSvc = services.NewWithdrawalService(mem, mem)
	} else {
		// helpers
		var cipher store.SignatureCipher
		if bs.KMS != nil {
			cipher = crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
		}

		// stores
		runner := store.NewUnitOfWork(bs.Firestore, cipher, cfg.TxMaxAttempts)
		pstore := store.NewPlanStore(bs.Firestore, cipher)
		estore := store.NewEntryStore(bs.Firestore)
		wstore := store.NewWithdrawalStore(bs.Firestore)

		// services
		deps.SavingsSvc = services.NewSavingsService(runner, pstore, estore, wstore)
		deps.LoanSvc = services.NewLoanService(runner, pstore, policy)
		deps.WithdrawalSvc = services.NewWithdrawalService(runner, wstore)
	}

	// router
	r := router.NewRouter(deps)
	bs.Log.Info("server listening", "port", cfg.Port, "store", cfg.Store)
	return http.ListenAndServe(":"+cfg.Port, r)
}
