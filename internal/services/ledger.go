package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/savings-backend/internal/errs"
	"github.com/GregMSThompson/savings-backend/internal/models"
	"github.com/GregMSThompson/savings-backend/internal/uow"
	"github.com/GregMSThompson/savings-backend/pkg/money"
)

const (
	narrationDeposit    = "Daily contribution"
	narrationWithdrawal = "Customer withdrawal"
	narrationMonthlyFee = "Monthly maintenance fee"
	narrationLoanFee    = "Loan maintenance fee"
	feeMonthLayout      = "2006-01"
)

// ledger appends entries and keeps plan totals and the derived balance in step.
// Every method runs against a uow.Tx owned by the caller.
type ledger struct {
	clockNow func() time.Time
}

func newLedger() *ledger {
	return &ledger{clockNow: time.Now}
}

// recomputeBalance is the only place AvailableBalance is assigned.
func recomputeBalance(plan *models.SavingsPlan) {
	plan.AvailableBalance = money.Balance(plan.TotalDeposited, plan.TotalFees, plan.TotalWithdrawn)
}

func (l *ledger) newEntry(plan *models.SavingsPlan, entryType string, amount float64, narration string, recordedAt time.Time, actor models.Actor) *models.SavingsEntry {
	recordedBy := actor.UID
	if recordedBy == "" {
		recordedBy = plan.OfficerID
	}
	return &models.SavingsEntry{
		ID:         uuid.New().String(),
		PlanID:     plan.ID,
		CustomerID: plan.CustomerID,
		OfficerID:  plan.OfficerID,
		Type:       entryType,
		Amount:     amount,
		Narration:  narration,
		RecordedAt: recordedAt,
		RecordedBy: recordedBy,
		CreatedAt:  l.clockNow(),
	}
}

type depositOutcome struct {
	entry      *models.SavingsEntry
	feeEntry   *models.SavingsEntry
	feeApplied float64
}

// deposit validates and books a deposit, charges the monthly fee when due and
// stages the plan write.
func (l *ledger) deposit(ctx context.Context, tx uow.Tx, plan *models.SavingsPlan, amount float64, narration string, recordedAt *time.Time, actor models.Actor) (depositOutcome, error) {
	if plan.Status != models.PlanStatusActive {
		return depositOutcome{}, errs.NewStateConflictError(errs.ReasonPlanNotActive, "only active plans can receive deposits")
	}
	if plan.DailyContribution <= 0 {
		return depositOutcome{}, errs.NewValidationError("savings plan daily contribution is invalid")
	}
	amount = money.Round2(amount)
	if amount <= 0 {
		return depositOutcome{}, errs.NewValidationError("deposit amount must be greater than zero")
	}
	if !money.IsMultiple(amount, plan.DailyContribution) {
		return depositOutcome{}, errs.NewValidationError(
			"deposit amount " + money.Format(amount) + " must be a multiple of the daily contribution " + money.Format(plan.DailyContribution))
	}

	now := l.clockNow()
	at := now
	if recordedAt != nil && !recordedAt.IsZero() {
		at = *recordedAt
	}
	if narration == "" {
		narration = narrationDeposit
	}

	entry := l.newEntry(plan, models.EntryTypeDeposit, amount, narration, at, actor)
	if err := tx.AppendEntry(entry); err != nil {
		return depositOutcome{}, err
	}
	plan.TotalDeposited = money.Add(plan.TotalDeposited, amount)

	feeEntry, err := l.applyMonthlyFeeIfNeeded(ctx, tx, plan, actor)
	if err != nil {
		return depositOutcome{}, err
	}

	recomputeBalance(plan)
	plan.UpdatedAt = now
	if err := tx.SavePlan(plan); err != nil {
		return depositOutcome{}, err
	}

	out := depositOutcome{entry: entry, feeEntry: feeEntry}
	if feeEntry != nil {
		out.feeApplied = feeEntry.Amount
	}
	return out, nil
}

// withdraw books a withdrawal against the available balance. A plan drained to
// zero is completed.
func (l *ledger) withdraw(_ context.Context, tx uow.Tx, plan *models.SavingsPlan, amount float64, narration string, recordedAt *time.Time, actor models.Actor) (*models.SavingsEntry, error) {
	if plan.Status == models.PlanStatusClosed {
		return nil, errs.NewStateConflictError(errs.ReasonPlanClosed, "cannot withdraw from a closed plan")
	}
	amount = money.Round2(amount)
	if amount <= 0 {
		return nil, errs.NewValidationError("withdrawal amount must be greater than zero")
	}
	if amount > plan.AvailableBalance {
		return nil, errs.NewInsufficientFundsError(amount, plan.AvailableBalance)
	}

	now := l.clockNow()
	at := now
	if recordedAt != nil && !recordedAt.IsZero() {
		at = *recordedAt
	}
	if narration == "" {
		narration = narrationWithdrawal
	}

	entry := l.newEntry(plan, models.EntryTypeWithdrawal, amount, narration, at, actor)
	if err := tx.AppendEntry(entry); err != nil {
		return nil, err
	}
	plan.TotalWithdrawn = money.Add(plan.TotalWithdrawn, amount)
	recomputeBalance(plan)

	if plan.AvailableBalance <= 0 {
		plan.Status = models.PlanStatusCompleted
		plan.EndDate = &now
	}
	plan.UpdatedAt = now
	if err := tx.SavePlan(plan); err != nil {
		return nil, err
	}
	return entry, nil
}

// chargeFee appends a fee entry and adds it to the plan totals. The caller
// recomputes the balance and saves the plan.
func (l *ledger) chargeFee(tx uow.Tx, plan *models.SavingsPlan, amount float64, narration string, actor models.Actor) (*models.SavingsEntry, error) {
	entry := l.newEntry(plan, models.EntryTypeFee, money.Round2(amount), narration, l.clockNow(), actor)
	if err := tx.AppendEntry(entry); err != nil {
		return nil, err
	}
	plan.TotalFees = money.Add(plan.TotalFees, entry.Amount)
	return entry, nil
}
