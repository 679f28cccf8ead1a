package store

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/savings-backend/internal/errs"
	"github.com/GregMSThompson/savings-backend/internal/models"
	"github.com/GregMSThompson/savings-backend/internal/uow"
)

// UnitOfWork runs ledger mutations as Firestore transactions. Firestore
// requires every read to happen before the first write, so writes are staged
// and flushed after fn returns.
const defaultMaxAttempts = 5

type UnitOfWork struct {
	client      *firestore.Client
	codec       planCodec
	maxAttempts int
}

func NewUnitOfWork(client *firestore.Client, cipher SignatureCipher, maxAttempts int) *UnitOfWork {
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	return &UnitOfWork{
		client:      client,
		codec:       planCodec{cipher: cipher},
		maxAttempts: maxAttempts,
	}
}

func (u *UnitOfWork) RunInTx(ctx context.Context, fn func(ctx context.Context, tx uow.Tx) error) error {
	err := u.client.RunTransaction(ctx, func(ctx context.Context, ftx *firestore.Transaction) error {
		t := &firestoreTx{
			tx:          ftx,
			codec:       u.codec,
			plans:       u.client.Collection(plansCollection),
			entries:     u.client.Collection(entriesCollection),
			withdrawals: u.client.Collection(withdrawalsCollection),
			staged:      make(map[string]int),
		}
		if err := fn(ctx, t); err != nil {
			return err
		}
		return t.flush(ctx)
	}, firestore.MaxAttempts(u.maxAttempts))
	if err == nil {
		return nil
	}

	var dbErr *errs.DatabaseError
	if errs.IsCallerError(err) || errors.As(err, &dbErr) {
		return err
	}
	return errs.NewDatabaseError("transaction", "failed to commit unit of work", err)
}

type stagedWrite struct {
	ref    *firestore.DocumentRef
	data   any
	create bool
}

type firestoreTx struct {
	tx    *firestore.Transaction
	codec planCodec

	plans       *firestore.CollectionRef
	entries     *firestore.CollectionRef
	withdrawals *firestore.CollectionRef

	writes []stagedWrite
	staged map[string]int // document path -> index in writes
}

func (t *firestoreTx) GetPlan(ctx context.Context, planID string) (*models.SavingsPlan, error) {
	snap, err := t.tx.Get(t.plans.Doc(planID))
	plan, err := readDoc[models.SavingsPlan](snap, err, "savings plan")
	if err != nil {
		return nil, err
	}
	return t.codec.decode(ctx, plan)
}

func (t *firestoreTx) FindCustomerLoanPlan(ctx context.Context, customerID, excludePlanID string, statuses []string) (*models.SavingsPlan, error) {
	query := t.plans.Where("customerId", "==", customerID).Where("loanStatus", "in", statuses)
	plans, err := readAll[models.SavingsPlan](t.tx.Documents(query), "savings plans")
	if err != nil {
		return nil, err
	}
	for _, p := range plans {
		if p.ID != excludePlanID {
			return t.codec.decode(ctx, p)
		}
	}
	return nil, nil
}

func (t *firestoreTx) GetWithdrawalRequest(_ context.Context, requestID string) (*models.WithdrawalRequest, error) {
	snap, err := t.tx.Get(t.withdrawals.Doc(requestID))
	return readDoc[models.WithdrawalRequest](snap, err, "withdrawal request")
}

func (t *firestoreTx) FindPendingWithdrawal(_ context.Context, planID string) (*models.WithdrawalRequest, error) {
	query := t.withdrawals.
		Where("planId", "==", planID).
		Where("status", "==", models.WithdrawalPending).
		Limit(1)
	reqs, err := readAll[models.WithdrawalRequest](t.tx.Documents(query), "withdrawal requests")
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	return reqs[0], nil
}

func (t *firestoreTx) CreatePlan(plan *models.SavingsPlan) error {
	t.stage(t.plans.Doc(plan.ID), plan.Clone(), true)
	return nil
}

func (t *firestoreTx) SavePlan(plan *models.SavingsPlan) error {
	t.stage(t.plans.Doc(plan.ID), plan.Clone(), false)
	return nil
}

func (t *firestoreTx) AppendEntry(entry *models.SavingsEntry) error {
	c := *entry
	t.stage(t.entries.Doc(entry.ID), &c, true)
	return nil
}

func (t *firestoreTx) SaveWithdrawalRequest(req *models.WithdrawalRequest) error {
	t.stage(t.withdrawals.Doc(req.ID), req.Clone(), false)
	return nil
}

// stage records a write, replacing an earlier one to the same document so each
// document is written once per transaction.
func (t *firestoreTx) stage(ref *firestore.DocumentRef, data any, create bool) {
	if i, ok := t.staged[ref.Path]; ok {
		t.writes[i].data = data
		t.writes[i].create = t.writes[i].create || create
		return
	}
	t.staged[ref.Path] = len(t.writes)
	t.writes = append(t.writes, stagedWrite{ref: ref, data: data, create: create})
}

func (t *firestoreTx) flush(ctx context.Context) error {
	for _, w := range t.writes {
		data := w.data
		if plan, ok := data.(*models.SavingsPlan); ok {
			encoded, err := t.codec.encode(ctx, plan)
			if err != nil {
				return err
			}
			data = encoded
		}

		var err error
		if w.create {
			err = t.tx.Create(w.ref, data)
		} else {
			err = t.tx.Set(w.ref, data)
		}
		if err != nil {
			return errs.NewDatabaseError("write", "failed to stage "+w.ref.Path, err)
		}
	}
	return nil
}
