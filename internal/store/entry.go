package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"

	"github.com/GregMSThompson/savings-backend/internal/errs"
	"github.com/GregMSThompson/savings-backend/internal/models"
)

type entryStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
}

func NewEntryStore(client *firestore.Client) *entryStore {
	return &entryStore{
		Client:     client,
		Collection: client.Collection(entriesCollection),
	}
}

// ListEntries returns a page of a plan's entries, newest first, and the plan's
// total entry count. A limit of zero returns every entry from offset on.
func (s *entryStore) ListEntries(ctx context.Context, planID string, offset, limit int) ([]*models.SavingsEntry, int, error) {
	base := s.Collection.Where("planId", "==", planID)

	res, err := base.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("count", "failed to count entries", err)
	}
	total := 0
	if v, ok := res["total"].(*firestorepb.Value); ok {
		total = int(v.GetIntegerValue())
	}

	query := base.OrderBy("recordedAt", firestore.Desc).Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	entries, err := readAll[models.SavingsEntry](query.Documents(ctx), "entries")
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
