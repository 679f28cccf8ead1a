package store

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/savings-backend/internal/models"
)

type planStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
	codec      planCodec
}

func NewPlanStore(client *firestore.Client, cipher SignatureCipher) *planStore {
	return &planStore{
		Client:     client,
		Collection: client.Collection(plansCollection),
		codec:      planCodec{cipher: cipher},
	}
}

func (s *planStore) GetPlan(ctx context.Context, planID string) (*models.SavingsPlan, error) {
	snap, err := s.Collection.Doc(planID).Get(ctx)
	plan, err := readDoc[models.SavingsPlan](snap, err, "savings plan")
	if err != nil {
		return nil, err
	}
	return s.codec.decode(ctx, plan)
}

func (s *planStore) ListPendingLoans(ctx context.Context) ([]*models.SavingsPlan, error) {
	iter := s.Collection.Where("loanStatus", "==", models.LoanStatusPending).Documents(ctx)
	plans, err := readAll[models.SavingsPlan](iter, "savings plans")
	if err != nil {
		return nil, err
	}
	// sorted here so the query needs no composite index
	sort.Slice(plans, func(i, j int) bool { return plans[i].UpdatedAt.After(plans[j].UpdatedAt) })
	return s.codec.decodeAll(ctx, plans)
}

// ListActiveLoans returns approved, running and repaid loan plans, most recently approved first.
func (s *planStore) ListActiveLoans(ctx context.Context) ([]*models.SavingsPlan, error) {
	iter := s.Collection.Where("loanStatus", "in", models.DisbursedLoanStatuses).Documents(ctx)
	plans, err := readAll[models.SavingsPlan](iter, "savings plans")
	if err != nil {
		return nil, err
	}
	loans := make([]*models.SavingsPlan, 0, len(plans))
	for _, p := range plans {
		if p.IsLoan {
			loans = append(loans, p)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ApprovedAt().After(loans[j].ApprovedAt()) })
	return s.codec.decodeAll(ctx, loans)
}
