package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/GregMSThompson/savings-backend/internal/models"
	"github.com/GregMSThompson/savings-backend/internal/store/memory"
	"github.com/GregMSThompson/savings-backend/internal/uow"
)

var (
	officer = models.Actor{UID: "officer-1", Email: "officer@example.com", Role: models.RoleOfficer}
	admin   = models.Actor{UID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	store       *memory.Store
	clock       *testClock
	savings     *savingsService
	loans       *loanService
	withdrawals *withdrawalService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	clock := &testClock{now: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}

	f := &fixture{
		store:       store,
		clock:       clock,
		savings:     NewSavingsService(store, store, store, store),
		loans:       NewLoanService(store, store, DefaultLoanPolicy),
		withdrawals: NewWithdrawalService(store, store),
	}
	f.savings.ledger.clockNow = clock.Now
	f.loans.ledger.clockNow = clock.Now
	f.withdrawals.ledger.clockNow = clock.Now
	return f
}

// seedPlan stores an active saving plan owned by officer. The fee month is
// stamped so deposits do not trigger the monthly fee unless a test moves the clock.
func (f *fixture) seedPlan(t *testing.T, id, customerID string, daily float64) *models.SavingsPlan {
	t.Helper()

	now := f.clock.Now()
	plan := &models.SavingsPlan{
		ID:                id,
		CustomerID:        customerID,
		OfficerID:         officer.UID,
		PlanName:          "Market stall",
		DailyContribution: daily,
		MaintenanceFee:    daily,
		Status:            models.PlanStatusActive,
		PlanType:          models.PlanTypeSaving,
		LoanStatus:        models.LoanStatusNone,
		LastFeeMonth:      now.UTC().Format(feeMonthLayout),
		StartDate:         now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	f.save(t, plan)
	return plan
}

func (f *fixture) save(t *testing.T, plan *models.SavingsPlan) {
	t.Helper()
	err := f.store.RunInTx(context.Background(), func(_ context.Context, tx uow.Tx) error {
		return tx.CreatePlan(plan)
	})
	if err != nil {
		t.Fatalf("seed plan %s: %v", plan.ID, err)
	}
}

func (f *fixture) plan(t *testing.T, id string) *models.SavingsPlan {
	t.Helper()
	plan, err := f.store.GetPlan(context.Background(), id)
	if err != nil {
		t.Fatalf("GetPlan(%s): %v", id, err)
	}
	return plan
}

func (f *fixture) entries(t *testing.T, planID string) []*models.SavingsEntry {
	t.Helper()
	items, _, err := f.store.ListEntries(context.Background(), planID, 0, 0)
	if err != nil {
		t.Fatalf("ListEntries(%s): %v", planID, err)
	}
	return items
}

// assertBalanceInvariant checks the derived balance against the totals and the entry log.
func assertBalanceInvariant(t *testing.T, f *fixture, planID string) {
	t.Helper()

	plan := f.plan(t, planID)
	want := plan.TotalDeposited - plan.TotalFees - plan.TotalWithdrawn
	if want < 0 {
		want = 0
	}
	if diff := plan.AvailableBalance - want; diff > 0.001 || diff < -0.001 {
		t.Fatalf("availableBalance = %.2f, want %.2f (%+v)", plan.AvailableBalance, want, plan)
	}

	var deposited, fees, withdrawn float64
	for _, e := range f.entries(t, planID) {
		switch e.Type {
		case models.EntryTypeDeposit:
			deposited += e.Amount
		case models.EntryTypeFee:
			fees += e.Amount
		case models.EntryTypeWithdrawal:
			withdrawn += e.Amount
		}
	}
	if !closeTo(deposited, plan.TotalDeposited) || !closeTo(fees, plan.TotalFees) || !closeTo(withdrawn, plan.TotalWithdrawn) {
		t.Fatalf("entry sums (%.2f, %.2f, %.2f) disagree with totals (%.2f, %.2f, %.2f)",
			deposited, fees, withdrawn, plan.TotalDeposited, plan.TotalFees, plan.TotalWithdrawn)
	}
}

func closeTo(a, b float64) bool {
	d := a - b
	return d < 0.001 && d > -0.001
}
