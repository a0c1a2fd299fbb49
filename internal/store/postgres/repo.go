package postgres

import (
	"context"

	"ipspay/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// store implementations serve pooled and transactional access.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo exposes pool-backed repositories for request-scoped reads and
// single-statement writes. Multi-repository writes go through the
// UnitOfWork instead.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

// DB exposes the underlying pool for the unit of work.
func (r *Repo) DB() *pgxpool.Pool { return r.db }

func (r *Repo) Payments() repositories.PaymentRepository {
	return &paymentStore{q: r.db, pool: r.db}
}

func (r *Repo) Plans() repositories.PlanRepository {
	return &planStore{q: r.db}
}

func (r *Repo) Subscriptions() repositories.SubscriptionRepository {
	return &subscriptionStore{q: r.db}
}

func (r *Repo) Matches() repositories.MatchRepository {
	return &matchStore{q: r.db}
}

func (r *Repo) ServiceRequests() repositories.ServiceRequestRepository {
	return &serviceRequestStore{q: r.db}
}
