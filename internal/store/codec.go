package store

import (
	"context"

	"github.com/GregMSThompson/savings-backend/internal/errs"
	"github.com/GregMSThompson/savings-backend/internal/models"
)

// planCodec converts plans between their in-memory and stored forms.
type planCodec struct {
	cipher SignatureCipher
}

// encode returns a copy of plan with loan signatures sealed.
func (c planCodec) encode(ctx context.Context, plan *models.SavingsPlan) (*models.SavingsPlan, error) {
	out := plan.Clone()
	if c.cipher == nil {
		return out, nil
	}
	if out.LoanRequest != nil {
		sealed, err := c.cipher.Seal(ctx, out.LoanRequest.Signature)
		if err != nil {
			return nil, errs.NewDatabaseError("encrypt", "failed to seal loan request signature", err)
		}
		out.LoanRequest.Signature = sealed
	}
	if out.LoanDetails != nil {
		sealed, err := c.cipher.Seal(ctx, out.LoanDetails.Signature)
		if err != nil {
			return nil, errs.NewDatabaseError("encrypt", "failed to seal loan signature", err)
		}
		out.LoanDetails.Signature = sealed
	}
	return out, nil
}

// decode opens sealed signatures in place.
func (c planCodec) decode(ctx context.Context, plan *models.SavingsPlan) (*models.SavingsPlan, error) {
	if c.cipher == nil {
		return plan, nil
	}
	if plan.LoanRequest != nil {
		opened, err := c.cipher.Open(ctx, plan.LoanRequest.Signature)
		if err != nil {
			return nil, errs.NewDatabaseError("decrypt", "failed to open loan request signature", err)
		}
		plan.LoanRequest.Signature = opened
	}
	if plan.LoanDetails != nil {
		opened, err := c.cipher.Open(ctx, plan.LoanDetails.Signature)
		if err != nil {
			return nil, errs.NewDatabaseError("decrypt", "failed to open loan signature", err)
		}
		plan.LoanDetails.Signature = opened
	}
	return plan, nil
}

func (c planCodec) decodeAll(ctx context.Context, plans []*models.SavingsPlan) ([]*models.SavingsPlan, error) {
	for i, p := range plans {
		d, err := c.decode(ctx, p)
		if err != nil {
			return nil, err
		}
		plans[i] = d
	}
	return plans, nil
}
