package payment

import (
	"context"
	"fmt"
	"time"

	"ipspay/internal/domain/match"
	"ipspay/internal/domain/payment"
	"ipspay/internal/domain/plan"
	"ipspay/internal/store/repositories"
)

// fakeMatchRow mirrors the fields completion dispatch writes on a
// match record of either kind.
type fakeMatchRow struct {
	Revealed   bool
	Amount     payment.Money
	RevealedAt *time.Time
}

type fakeServiceRequest struct {
	Priority     bool
	Urgent       bool
	UrgencyLevel int
}

// fakeState is the in-memory backing store shared by all fake repos.
type fakeState struct {
	payments       map[string]*payment.Payment   // by reference
	records        map[int64]*payment.IpsRecord  // by payment id
	plans          map[string]*plan.Plan         // by code
	subs           []*plan.Subscription
	workerMatches  map[int64]*fakeMatchRow
	serviceMatches map[int64]*fakeMatchRow
	requests       map[int64]*fakeServiceRequest
	nextID         int64
}

func newFakeState() *fakeState {
	return &fakeState{
		payments:       map[string]*payment.Payment{},
		records:        map[int64]*payment.IpsRecord{},
		plans:          map[string]*plan.Plan{},
		workerMatches:  map[int64]*fakeMatchRow{},
		serviceMatches: map[int64]*fakeMatchRow{},
		requests:       map[int64]*fakeServiceRequest{},
	}
}

func (st *fakeState) clone() *fakeState {
	c := newFakeState()
	c.nextID = st.nextID
	for k, v := range st.payments {
		cp := *v
		c.payments[k] = &cp
	}
	for k, v := range st.records {
		cp := *v
		c.records[k] = &cp
	}
	for k, v := range st.plans {
		cp := *v
		c.plans[k] = &cp
	}
	for _, s := range st.subs {
		cp := *s
		c.subs = append(c.subs, &cp)
	}
	for k, v := range st.workerMatches {
		cp := *v
		c.workerMatches[k] = &cp
	}
	for k, v := range st.serviceMatches {
		cp := *v
		c.serviceMatches[k] = &cp
	}
	for k, v := range st.requests {
		cp := *v
		c.requests[k] = &cp
	}
	return c
}

// --- payment repo ---

type fakePaymentRepo struct{ st *fakeState }

func (r *fakePaymentRepo) Create(_ context.Context, p *payment.Payment, rec *payment.IpsRecord) error {
	r.st.nextID++
	p.ID = r.st.nextID
	r.st.nextID++
	rec.ID = r.st.nextID
	rec.PaymentID = p.ID

	cp := *p
	cr := *rec
	r.st.payments[p.Reference] = &cp
	r.st.records[p.ID] = &cr
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id int64) (*payment.Payment, error) {
	for _, p := range r.st.payments {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, payment.ErrNotFound
}

func (r *fakePaymentRepo) FindByReference(_ context.Context, reference string) (*payment.Payment, error) {
	p, ok := r.st.payments[reference]
	if !ok {
		return nil, payment.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) ListByUser(_ context.Context, userID int64, limit, offset int) ([]*payment.Payment, error) {
	var out []*payment.Payment
	for _, p := range r.st.payments {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) LinkMatch(_ context.Context, paymentID, matchID int64) error {
	for _, p := range r.st.payments {
		if p.ID == paymentID {
			id := matchID
			p.MatchID = &id
			return nil
		}
	}
	return payment.ErrNotFound
}

func (r *fakePaymentRepo) LinkServiceRequest(_ context.Context, paymentID, serviceRequestID int64) error {
	for _, p := range r.st.payments {
		if p.ID == paymentID {
			id := serviceRequestID
			p.ServiceRequestID = &id
			return nil
		}
	}
	return payment.ErrNotFound
}

func (r *fakePaymentRepo) CompletePending(_ context.Context, reference string, adminID int64, now time.Time) (*payment.Payment, error) {
	p, ok := r.st.payments[reference]
	if !ok {
		return nil, payment.ErrNotFound
	}
	if p.Status != payment.StatusPending {
		return nil, fmt.Errorf("%w: status %s", payment.ErrAlreadySettled, p.Status)
	}

	ts := now
	admin := adminID
	p.Status = payment.StatusCompleted
	p.CompletedAt = &ts
	p.VerifiedAt = &ts
	p.VerifiedBy = &admin
	p.UpdatedAt = now

	if rec, ok := r.st.records[p.ID]; ok {
		rec.Status = payment.IpsPaid
		rec.PaidAt = &ts
	}

	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, p := range r.st.payments {
		if p.Status == payment.StatusPending && p.ExpiresAt.Before(now) {
			p.Status = payment.StatusExpired
			p.UpdatedAt = now
			if rec, ok := r.st.records[p.ID]; ok {
				rec.Status = payment.IpsExpired
			}
			n++
		}
	}
	return n, nil
}

// --- plan / subscription repos ---

type fakePlanRepo struct{ st *fakeState }

func (r *fakePlanRepo) FindByCode(_ context.Context, code string) (*plan.Plan, error) {
	pl, ok := r.st.plans[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", plan.ErrNotFound, code)
	}
	cp := *pl
	return &cp, nil
}

type fakeSubscriptionRepo struct{ st *fakeState }

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *plan.Subscription) error {
	r.st.nextID++
	sub.ID = r.st.nextID
	cp := *sub
	r.st.subs = append(r.st.subs, &cp)
	return nil
}

func (r *fakeSubscriptionRepo) AddCredits(_ context.Context, userID int64, credits int) error {
	for _, s := range r.st.subs {
		if s.UserID == userID && s.Status == plan.SubscriptionActive {
			s.CreditsTotal += credits
			s.CreditsRemaining += credits
			return nil
		}
	}
	return fmt.Errorf("%w: user %d", plan.ErrNoActiveSubscription, userID)
}

// --- match / service request repos ---

type fakeMatchRepo struct{ st *fakeState }

func (r *fakeMatchRepo) FindRevealable(_ context.Context, matchID int64) (*match.Revealable, error) {
	if _, ok := r.st.workerMatches[matchID]; ok {
		return &match.Revealable{Kind: match.KindWorker, ID: matchID}, nil
	}
	if _, ok := r.st.serviceMatches[matchID]; ok {
		return &match.Revealable{Kind: match.KindService, ID: matchID}, nil
	}
	return nil, nil
}

func (r *fakeMatchRepo) MarkRevealed(_ context.Context, rev *match.Revealable, amount payment.Money, at time.Time) error {
	var row *fakeMatchRow
	switch rev.Kind {
	case match.KindWorker:
		row = r.st.workerMatches[rev.ID]
	case match.KindService:
		row = r.st.serviceMatches[rev.ID]
	}
	if row == nil {
		return fmt.Errorf("no match %d of kind %s", rev.ID, rev.Kind)
	}
	ts := at
	row.Revealed = true
	row.Amount = amount
	row.RevealedAt = &ts
	return nil
}

type fakeServiceRequestRepo struct{ st *fakeState }

func (r *fakeServiceRequestRepo) FlagPriority(_ context.Context, id int64) error {
	req, ok := r.st.requests[id]
	if !ok {
		return fmt.Errorf("no service request %d", id)
	}
	req.Priority = true
	return nil
}

func (r *fakeServiceRequestRepo) FlagUrgent(_ context.Context, id int64, urgencyLevel int) error {
	req, ok := r.st.requests[id]
	if !ok {
		return fmt.Errorf("no service request %d", id)
	}
	req.Priority = true
	req.Urgent = true
	req.UrgencyLevel = urgencyLevel
	return nil
}

// --- unit of work ---

// fakeUnitOfWork stages mutations on a clone and copies them back on
// commit, so rollback semantics match the real store.
type fakeUnitOfWork struct {
	st      *fakeState
	commits int
}

func (u *fakeUnitOfWork) Begin(_ context.Context) (repositories.Transaction, error) {
	return &fakeTransaction{base: u.st, staged: u.st.clone(), uow: u}, nil
}

type fakeTransaction struct {
	base   *fakeState
	staged *fakeState
	uow    *fakeUnitOfWork
	done   bool
}

func (t *fakeTransaction) Commit(_ context.Context) error {
	if !t.done {
		*t.base = *t.staged
		t.uow.commits++
		t.done = true
	}
	return nil
}

func (t *fakeTransaction) Rollback(_ context.Context) error {
	t.done = true
	return nil
}

func (t *fakeTransaction) Payments() repositories.PaymentRepository {
	return &fakePaymentRepo{st: t.staged}
}

func (t *fakeTransaction) Plans() repositories.PlanRepository {
	return &fakePlanRepo{st: t.staged}
}

func (t *fakeTransaction) Subscriptions() repositories.SubscriptionRepository {
	return &fakeSubscriptionRepo{st: t.staged}
}

func (t *fakeTransaction) Matches() repositories.MatchRepository {
	return &fakeMatchRepo{st: t.staged}
}

func (t *fakeTransaction) ServiceRequests() repositories.ServiceRequestRepository {
	return &fakeServiceRequestRepo{st: t.staged}
}

// --- renderer ---

type stubRenderer struct{}

func (stubRenderer) DataURI(_ context.Context, reference, text string, _ time.Time) (string, error) {
	return "data:image/png;base64,stub", nil
}
