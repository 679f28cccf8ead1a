package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/savings-backend/internal/models"
)

type withdrawalStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
}

func NewWithdrawalStore(client *firestore.Client) *withdrawalStore {
	return &withdrawalStore{
		Client:     client,
		Collection: client.Collection(withdrawalsCollection),
	}
}

func (s *withdrawalStore) ListWithdrawalsByPlan(ctx context.Context, planID string, limit int) ([]*models.WithdrawalRequest, error) {
	query := s.Collection.Where("planId", "==", planID).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return readAll[models.WithdrawalRequest](query.Documents(ctx), "withdrawal requests")
}

// ListWithdrawalsByStatus lists requests newest first. An empty status lists all of them.
func (s *withdrawalStore) ListWithdrawalsByStatus(ctx context.Context, status string) ([]*models.WithdrawalRequest, error) {
	query := s.Collection.OrderBy("createdAt", firestore.Desc)
	if status != "" {
		query = s.Collection.Where("status", "==", status).OrderBy("createdAt", firestore.Desc)
	}
	return readAll[models.WithdrawalRequest](query.Documents(ctx), "withdrawal requests")
}
