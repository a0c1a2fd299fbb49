package postgres

import (
	"context"

	"ipspay/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// unitOfWork implements repositories.UnitOfWork over a pgx pool.
type unitOfWork struct {
	db *pgxpool.Pool
}

func NewUnitOfWork(db *pgxpool.Pool) repositories.UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) Begin(ctx context.Context) (repositories.Transaction, error) {
	tx, err := u.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	return &transaction{tx: tx}, nil
}

// transaction hands out tx-backed stores; every repository returned
// here shares the one pgx.Tx, so verify's status transition and its
// completion effect commit or roll back together.
type transaction struct {
	tx pgx.Tx
}

func (t *transaction) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *transaction) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func (t *transaction) Payments() repositories.PaymentRepository {
	return &paymentStore{q: t.tx}
}

func (t *transaction) Plans() repositories.PlanRepository {
	return &planStore{q: t.tx}
}

func (t *transaction) Subscriptions() repositories.SubscriptionRepository {
	return &subscriptionStore{q: t.tx}
}

func (t *transaction) Matches() repositories.MatchRepository {
	return &matchStore{q: t.tx}
}

func (t *transaction) ServiceRequests() repositories.ServiceRequestRepository {
	return &serviceRequestStore{q: t.tx}
}
