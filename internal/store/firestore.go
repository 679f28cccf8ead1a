package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/savings-backend/internal/errs"
)

const (
	plansCollection       = "savings_plans"
	entriesCollection     = "savings_entries"
	withdrawalsCollection = "withdrawal_requests"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// readDoc decodes one snapshot, mapping a missing document to a NotFoundError.
func readDoc[T any](snap *firestore.DocumentSnapshot, err error, what string) (*T, error) {
	if err != nil {
		if isNotFound(err) {
			return nil, errs.NewNotFoundError(what + " not found")
		}
		return nil, errs.NewDatabaseError("get", "failed to read "+what, err)
	}
	var out T
	if err := snap.DataTo(&out); err != nil {
		return nil, errs.NewDatabaseError("decode", "failed to decode "+what, err)
	}
	return &out, nil
}

// readAll drains an iterator into decoded values.
func readAll[T any](iter *firestore.DocumentIterator, what string) ([]*T, error) {
	defer iter.Stop()

	out := make([]*T, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("query", "failed to list "+what, err)
		}
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, errs.NewDatabaseError("decode", "failed to decode "+what, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// SignatureCipher seals loan signatures at rest. A nil cipher stores plaintext.
type SignatureCipher interface {
	Seal(ctx context.Context, plaintext string) (string, error)
	Open(ctx context.Context, value string) (string, error)
}
