package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/GregMSThompson/savings-backend/internal/errs"
	"github.com/GregMSThompson/savings-backend/internal/models"
	"github.com/GregMSThompson/savings-backend/internal/uow"
)

// Store keeps plans, entries and withdrawal requests in process memory. A unit
// of work holds the store lock from its first read to commit, so units never
// interleave.
type Store struct {
	mu sync.Mutex

	plans       map[string]*models.SavingsPlan
	entries     []*models.SavingsEntry
	withdrawals map[string]*models.WithdrawalRequest

	commitErr error
}

func New() *Store {
	return &Store{
		plans:       make(map[string]*models.SavingsPlan),
		entries:     make([]*models.SavingsEntry, 0),
		withdrawals: make(map[string]*models.WithdrawalRequest),
	}
}

// FailNextCommit makes the next unit of work fail at commit with err.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErr = err
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx uow.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{store: s}
	if err := fn(ctx, t); err != nil {
		return err
	}
	return s.commit(t)
}

func (s *Store) commit(t *tx) error {
	if s.commitErr != nil {
		err := s.commitErr
		s.commitErr = nil
		return errs.NewDatabaseError("commit", "failed to commit unit of work", err)
	}
	for _, p := range t.createdPlans {
		if _, exists := s.plans[p.ID]; exists {
			return errs.NewDatabaseError("create", "plan already exists", nil)
		}
	}
	for _, e := range t.entries {
		if slices.ContainsFunc(s.entries, func(x *models.SavingsEntry) bool { return x.ID == e.ID }) {
			return errs.NewDatabaseError("create", "entry already exists", nil)
		}
	}

	for _, p := range t.createdPlans {
		s.plans[p.ID] = p
	}
	for _, p := range t.plans {
		s.plans[p.ID] = p
	}
	s.entries = append(s.entries, t.entries...)
	for _, w := range t.withdrawals {
		s.withdrawals[w.ID] = w
	}
	return nil
}

// --- reads outside a unit of work ---

func (s *Store) GetPlan(_ context.Context, planID string) (*models.SavingsPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getPlan(planID)
}

func (s *Store) getPlan(planID string) (*models.SavingsPlan, error) {
	p, ok := s.plans[planID]
	if !ok {
		return nil, errs.NewNotFoundError("savings plan not found")
	}
	return p.Clone(), nil
}

func (s *Store) ListPendingLoans(_ context.Context) ([]*models.SavingsPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.SavingsPlan, 0)
	for _, p := range s.plans {
		if p.LoanStatus == models.LoanStatusPending {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *Store) ListActiveLoans(_ context.Context) ([]*models.SavingsPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.SavingsPlan, 0)
	for _, p := range s.plans {
		if p.IsLoan && slices.Contains(models.DisbursedLoanStatuses, p.LoanStatus) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApprovedAt().After(out[j].ApprovedAt()) })
	return out, nil
}

func (s *Store) ListEntries(_ context.Context, planID string, offset, limit int) ([]*models.SavingsEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*models.SavingsEntry, 0)
	for _, e := range s.entries {
		if e.PlanID == planID {
			c := *e
			matched = append(matched, &c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].RecordedAt.After(matched[j].RecordedAt) })

	total := len(matched)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []*models.SavingsEntry{}, total, nil
	}
	end := total
	if limit > 0 && limit < total-offset {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (s *Store) ListWithdrawalsByPlan(_ context.Context, planID string, limit int) ([]*models.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listWithdrawals(func(w *models.WithdrawalRequest) bool { return w.PlanID == planID }, limit), nil
}

func (s *Store) ListWithdrawalsByStatus(_ context.Context, status string) ([]*models.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listWithdrawals(func(w *models.WithdrawalRequest) bool { return status == "" || w.Status == status }, 0), nil
}

func (s *Store) listWithdrawals(keep func(*models.WithdrawalRequest) bool, limit int) []*models.WithdrawalRequest {
	out := make([]*models.WithdrawalRequest, 0)
	for _, w := range s.withdrawals {
		if keep(w) {
			out = append(out, w.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// --- unit of work ---

type tx struct {
	store *Store

	createdPlans []*models.SavingsPlan
	plans        []*models.SavingsPlan
	entries      []*models.SavingsEntry
	withdrawals  []*models.WithdrawalRequest
}

func (t *tx) GetPlan(_ context.Context, planID string) (*models.SavingsPlan, error) {
	return t.store.getPlan(planID)
}

func (t *tx) FindCustomerLoanPlan(_ context.Context, customerID, excludePlanID string, statuses []string) (*models.SavingsPlan, error) {
	for _, p := range t.store.plans {
		if p.CustomerID != customerID || p.ID == excludePlanID {
			continue
		}
		if slices.Contains(statuses, p.LoanStatus) {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

func (t *tx) GetWithdrawalRequest(_ context.Context, requestID string) (*models.WithdrawalRequest, error) {
	w, ok := t.store.withdrawals[requestID]
	if !ok {
		return nil, errs.NewNotFoundError("withdrawal request not found")
	}
	return w.Clone(), nil
}

func (t *tx) FindPendingWithdrawal(_ context.Context, planID string) (*models.WithdrawalRequest, error) {
	for _, w := range t.store.withdrawals {
		if w.PlanID == planID && w.Status == models.WithdrawalPending {
			return w.Clone(), nil
		}
	}
	return nil, nil
}

func (t *tx) CreatePlan(plan *models.SavingsPlan) error {
	t.createdPlans = append(t.createdPlans, plan.Clone())
	return nil
}

func (t *tx) SavePlan(plan *models.SavingsPlan) error {
	t.plans = append(t.plans, plan.Clone())
	return nil
}

func (t *tx) AppendEntry(entry *models.SavingsEntry) error {
	c := *entry
	t.entries = append(t.entries, &c)
	return nil
}

func (t *tx) SaveWithdrawalRequest(req *models.WithdrawalRequest) error {
	t.withdrawals = append(t.withdrawals, req.Clone())
	return nil
}
