package repositories

import (
	"context"
	"time"

	"ipspay/internal/domain/match"
	"ipspay/internal/domain/payment"
	"ipspay/internal/domain/plan"
)

// PaymentRepository defines the contract for payment data access. A
// payment and its IPS record are persisted as a linked pair and every
// status transition touches both.
type PaymentRepository interface {
	// Create persists the payment and its IPS record atomically,
	// filling in both IDs.
	Create(ctx context.Context, p *payment.Payment, rec *payment.IpsRecord) error
	FindByID(ctx context.Context, id int64) (*payment.Payment, error)
	FindByReference(ctx context.Context, reference string) (*payment.Payment, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*payment.Payment, error)

	// LinkMatch and LinkServiceRequest attach the foreign reference a
	// completion effect will need. Used by the typed creation wrappers.
	LinkMatch(ctx context.Context, paymentID, matchID int64) error
	LinkServiceRequest(ctx context.Context, paymentID, serviceRequestID int64) error

	// CompletePending performs the conditional pending -> completed
	// transition by reference, stamping completion fields and mirroring
	// the terminal status into the IPS record. Returns
	// payment.ErrNotFound when no row carries the reference and
	// payment.ErrAlreadySettled when the row is no longer pending.
	CompletePending(ctx context.Context, reference string, adminID int64, now time.Time) (*payment.Payment, error)

	// ExpireStale bulk-transitions pending rows past their expiry to
	// expired, both tables in one atomic statement, and returns how
	// many rows moved. Safe to run repeatedly and concurrently.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// PlanRepository is the read-only plan lookup owned elsewhere.
type PlanRepository interface {
	FindByCode(ctx context.Context, code string) (*plan.Plan, error)
}

// SubscriptionRepository covers the subscription mutations completion
// dispatch performs.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *plan.Subscription) error
	// AddCredits increments total and remaining credits on the user's
	// active subscription. Returns plan.ErrNoActiveSubscription when
	// there is none; never a silent no-op.
	AddCredits(ctx context.Context, userID int64, credits int) error
}

// MatchRepository resolves and mutates the two mutually exclusive
// match kinds sharing one id space.
type MatchRepository interface {
	// FindRevealable returns whichever match kind exists for the id,
	// or nil when neither does.
	FindRevealable(ctx context.Context, matchID int64) (*match.Revealable, error)
	MarkRevealed(ctx context.Context, rev *match.Revealable, amount payment.Money, at time.Time) error
}

// ServiceRequestRepository covers the service-request flags completion
// dispatch sets.
type ServiceRequestRepository interface {
	FlagPriority(ctx context.Context, serviceRequestID int64) error
	FlagUrgent(ctx context.Context, serviceRequestID int64, urgencyLevel int) error
}

// UnitOfWork defines transactional operations
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction scopes every repository touched by a verify to one
// database transaction, so the status transition and its completion
// effect commit or roll back together.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Payments() PaymentRepository
	Plans() PlanRepository
	Subscriptions() SubscriptionRepository
	Matches() MatchRepository
	ServiceRequests() ServiceRequestRepository
}
