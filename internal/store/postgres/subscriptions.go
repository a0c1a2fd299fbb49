package postgres

import (
	"context"
	"fmt"

	"ipspay/internal/domain/plan"
)

// subscriptionStore mutates the subscription aggregate as a completion
// side effect. Broader subscription lifecycle is owned elsewhere.
type subscriptionStore struct {
	q querier
}

func (s *subscriptionStore) Create(ctx context.Context, sub *plan.Subscription) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO subscriptions (user_id, plan_code, credits_total, credits_remaining,
		                           status, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`,
		sub.UserID, sub.PlanCode, sub.CreditsTotal, sub.CreditsRemaining,
		sub.Status, sub.StartDate, sub.EndDate,
	).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// AddCredits tops up the active subscription. Zero rows affected means
// the user has none, which is a reported error so the paid credit is
// never silently discarded.
func (s *subscriptionStore) AddCredits(ctx context.Context, userID int64, credits int) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE subscriptions
		   SET credits_total = credits_total + $2,
		       credits_remaining = credits_remaining + $2,
		       updated_at = now()
		 WHERE user_id = $1 AND status = $3 AND end_date > now()`,
		userID, credits, plan.SubscriptionActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", plan.ErrNoActiveSubscription, userID)
	}
	return nil
}
