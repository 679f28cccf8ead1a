package services

import (
	"context"

	"github.com/GregMSThompson/savings-backend/internal/models"
	"github.com/GregMSThompson/savings-backend/internal/uow"
	"github.com/GregMSThompson/savings-backend/pkg/logger"
)

// currentFeeMonth is the idempotency key for the monthly maintenance fee.
func (l *ledger) currentFeeMonth() string {
	return l.clockNow().UTC().Format(feeMonthLayout)
}

// applyMonthlyFeeIfNeeded charges the plan's maintenance fee at most once per
// calendar month. It must run inside the same unit of work as the deposit that
// triggers it, so the LastFeeMonth check and the stamp commit together.
func (l *ledger) applyMonthlyFeeIfNeeded(ctx context.Context, tx uow.Tx, plan *models.SavingsPlan, actor models.Actor) (*models.SavingsEntry, error) {
	month := l.currentFeeMonth()
	if plan.LastFeeMonth == month {
		return nil, nil
	}

	fee := plan.MaintenanceFee
	if fee <= 0 {
		fee = plan.DailyContribution
	}
	if fee <= 0 {
		plan.LastFeeMonth = month
		return nil, nil
	}

	entry, err := l.chargeFee(tx, plan, fee, narrationMonthlyFee, actor)
	if err != nil {
		return nil, err
	}
	plan.LastFeeMonth = month

	logger.FromContext(ctx).Debug("monthly fee charged", "plan_id", plan.ID, "month", month, "amount", entry.Amount)
	return entry, nil
}
