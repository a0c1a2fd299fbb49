package payment

import (
	"context"
	"fmt"
	"time"

	"ipspay/internal/domain/payment"
	"ipspay/internal/domain/plan"
	"ipspay/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// CreditUnitPrice is the fixed price of one credit in whole currency
// units, used to convert a top-up amount into credits.
const CreditUnitPrice payment.Money = 20

// MaxUrgencyLevel is the top urgency tier an urgent payment sets.
const MaxUrgencyLevel = 3

// Dispatcher applies the one completion effect a payment's type maps
// to. It runs inside verify's transaction, so a failed effect rolls the
// status transition back with it.
type Dispatcher struct {
	unitPrice payment.Money
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{unitPrice: CreditUnitPrice}
}

// Apply runs the completion effect for a just-settled payment. The
// type set is closed; transitioning into completed is the single
// trigger point, so each effect runs at most once per payment.
func (d *Dispatcher) Apply(ctx context.Context, tx repositories.Transaction, p *payment.Payment) error {
	switch p.Type {
	case payment.TypeSubscription:
		return d.activateSubscription(ctx, tx, p)
	case payment.TypeTopUp:
		return d.topUpCredits(ctx, tx, p)
	case payment.TypeContactReveal:
		return d.revealContact(ctx, tx, p)
	case payment.TypePriority:
		return d.flagPriority(ctx, tx, p)
	case payment.TypeUrgent:
		return d.flagUrgent(ctx, tx, p)
	default:
		return fmt.Errorf("%w: no completion effect for type %q", payment.ErrInvalidRequest, p.Type)
	}
}

func (d *Dispatcher) activateSubscription(ctx context.Context, tx repositories.Transaction, p *payment.Payment) error {
	if p.PlanCode == "" {
		return fmt.Errorf("%w: subscription payment %d has no plan code", plan.ErrNotFound, p.ID)
	}
	pl, err := tx.Plans().FindByCode(ctx, p.PlanCode)
	if err != nil {
		return err
	}

	now := d.settledAt(p)
	sub := &plan.Subscription{
		UserID:           p.UserID,
		PlanCode:         pl.Code,
		CreditsTotal:     pl.CreditsPerMonth,
		CreditsRemaining: pl.CreditsPerMonth,
		Status:           plan.SubscriptionActive,
		StartDate:        now,
		EndDate:          now.AddDate(0, 1, 0),
	}
	if err := tx.Subscriptions().Create(ctx, sub); err != nil {
		return err
	}

	log.Info().
		Int64("payment_id", p.ID).
		Int64("user_id", p.UserID).
		Str("plan", pl.Code).
		Int("credits", pl.CreditsPerMonth).
		Msg("subscription activated")
	return nil
}

func (d *Dispatcher) topUpCredits(ctx context.Context, tx repositories.Transaction, p *payment.Payment) error {
	credits := int(p.Amount / d.unitPrice)
	if err := tx.Subscriptions().AddCredits(ctx, p.UserID, credits); err != nil {
		return err
	}

	log.Info().
		Int64("payment_id", p.ID).
		Int64("user_id", p.UserID).
		Int("credits", credits).
		Msg("credits topped up")
	return nil
}

func (d *Dispatcher) revealContact(ctx context.Context, tx repositories.Transaction, p *payment.Payment) error {
	if p.MatchID == nil {
		log.Warn().Int64("payment_id", p.ID).Msg("contact reveal payment has no match linked")
		return nil
	}

	rev, err := tx.Matches().FindRevealable(ctx, *p.MatchID)
	if err != nil {
		return err
	}
	if rev == nil {
		// The match was removed since purchase; revealing nothing is
		// the contract here, not an error.
		log.Warn().Int64("payment_id", p.ID).Int64("match_id", *p.MatchID).Msg("no match to reveal")
		return nil
	}

	if err := tx.Matches().MarkRevealed(ctx, rev, p.Amount, d.settledAt(p)); err != nil {
		return err
	}

	log.Info().
		Int64("payment_id", p.ID).
		Int64("match_id", rev.ID).
		Str("kind", string(rev.Kind)).
		Msg("contact revealed")
	return nil
}

func (d *Dispatcher) flagPriority(ctx context.Context, tx repositories.Transaction, p *payment.Payment) error {
	if p.ServiceRequestID == nil {
		return fmt.Errorf("priority payment %d has no service request linked", p.ID)
	}
	if err := tx.ServiceRequests().FlagPriority(ctx, *p.ServiceRequestID); err != nil {
		return err
	}

	log.Info().
		Int64("payment_id", p.ID).
		Int64("service_request_id", *p.ServiceRequestID).
		Msg("service request flagged priority")
	return nil
}

func (d *Dispatcher) flagUrgent(ctx context.Context, tx repositories.Transaction, p *payment.Payment) error {
	if p.ServiceRequestID == nil {
		return fmt.Errorf("urgent payment %d has no service request linked", p.ID)
	}
	if err := tx.ServiceRequests().FlagUrgent(ctx, *p.ServiceRequestID, MaxUrgencyLevel); err != nil {
		return err
	}

	log.Info().
		Int64("payment_id", p.ID).
		Int64("service_request_id", *p.ServiceRequestID).
		Msg("service request flagged urgent")
	return nil
}

// settledAt anchors effect timestamps to the verify stamp so the
// subscription window and reveal time match the settlement moment.
func (d *Dispatcher) settledAt(p *payment.Payment) time.Time {
	if p.CompletedAt != nil {
		return *p.CompletedAt
	}
	return time.Now()
}
