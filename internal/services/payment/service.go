package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ipspay/internal/config"
	"ipspay/internal/domain/payment"
	"ipspay/internal/ips"
	"ipspay/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// QRRenderer renders an encoded IPS text record into an image data URI.
type QRRenderer interface {
	DataURI(ctx context.Context, reference, text string, expiresAt time.Time) (string, error)
}

// Service orchestrates the payment lifecycle: creation, administrative
// verification and expiry sweeping.
type Service struct {
	payments   repositories.PaymentRepository
	plans      repositories.PlanRepository
	uow        repositories.UnitOfWork
	renderer   QRRenderer
	dispatcher *Dispatcher
	ips        config.IPSCfg

	now func() time.Time
}

// NewService creates a new payment lifecycle service
func NewService(
	payments repositories.PaymentRepository,
	plans repositories.PlanRepository,
	uow repositories.UnitOfWork,
	renderer QRRenderer,
	ipsCfg config.IPSCfg,
) *Service {
	return &Service{
		payments:   payments,
		plans:      plans,
		uow:        uow,
		renderer:   renderer,
		dispatcher: NewDispatcher(),
		ips:        ipsCfg,
		now:        time.Now,
	}
}

// CreationResult is what a caller needs to present the QR to the payer.
type CreationResult struct {
	PaymentID int64     `json:"paymentId"`
	Reference string    `json:"reference"`
	QRText    string    `json:"qrText"`
	QRImage   string    `json:"qrImage"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Create validates the request, generates a reference when the caller
// supplied none, persists the pending (payment, ips record) pair and
// renders the QR image. Each call creates a new payment; there is no
// dedup by purpose.
func (s *Service) Create(ctx context.Context, userID int64, typ payment.Type, amount payment.Money, purpose, reference string) (*CreationResult, error) {
	now := s.now()

	if reference == "" {
		var err error
		reference, err = ips.NewReference(now)
		if err != nil {
			return nil, fmt.Errorf("create payment: %w", err)
		}
	}

	p, err := payment.New(userID, typ, amount, purpose, reference, now)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, p)
}

func (s *Service) create(ctx context.Context, p *payment.Payment) (*CreationResult, error) {
	text := ips.BuildText(ips.Request{
		RecipientAccount: s.ips.RecipientAccount,
		RecipientName:    s.ips.RecipientName,
		Amount:           p.Amount,
		Purpose:          p.Description,
		Reference:        p.Reference,
	})

	rec := &payment.IpsRecord{
		IdentificationCode: ips.IdentificationCode,
		RecipientName:      s.ips.RecipientName,
		RecipientAccount:   s.ips.RecipientAccount,
		AmountText:         ips.FormatAmount(p.Amount),
		Reference:          p.Reference,
		Purpose:            p.Description,
		Status:             payment.IpsPending,
		ExpiresAt:          p.ExpiresAt,
		CreatedAt:          p.CreatedAt,
	}

	if err := s.payments.Create(ctx, p, rec); err != nil {
		return nil, fmt.Errorf("persist payment: %w", err)
	}

	img, err := s.renderer.DataURI(ctx, p.Reference, text, p.ExpiresAt)
	if err != nil {
		// The pending row stays behind and the sweep will expire it.
		return nil, fmt.Errorf("payment %d: %w", p.ID, err)
	}

	log.Info().
		Int64("payment_id", p.ID).
		Int64("user_id", p.UserID).
		Str("type", string(p.Type)).
		Str("reference", p.Reference).
		Msg("payment created")

	return &CreationResult{
		PaymentID: p.ID,
		Reference: p.Reference,
		QRText:    text,
		QRImage:   img,
		ExpiresAt: p.ExpiresAt,
	}, nil
}

// CreateSubscription resolves the plan and stores its code on the
// payment, so completion never re-parses the plan out of free text.
func (s *Service) CreateSubscription(ctx context.Context, userID int64, planCode string) (*CreationResult, error) {
	pl, err := s.plans.FindByCode(ctx, planCode)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reference, err := ips.NewReference(now)
	if err != nil {
		return nil, fmt.Errorf("create subscription payment: %w", err)
	}

	p, err := payment.New(userID, payment.TypeSubscription, pl.Price, "Pretplata "+pl.Name, reference, now)
	if err != nil {
		return nil, err
	}
	p.PlanCode = pl.Code
	return s.create(ctx, p)
}

// CreateTopUp creates a credit top-up payment.
func (s *Service) CreateTopUp(ctx context.Context, userID int64, amount payment.Money) (*CreationResult, error) {
	return s.Create(ctx, userID, payment.TypeTopUp, amount, "Dopuna kredita", "")
}

// CreateContactReveal creates the payment and links the match whose
// contact it unlocks.
func (s *Service) CreateContactReveal(ctx context.Context, userID, matchID int64, amount payment.Money) (*CreationResult, error) {
	res, err := s.Create(ctx, userID, payment.TypeContactReveal, amount, "Otkrivanje kontakta", "")
	if err != nil {
		return nil, err
	}
	if err := s.payments.LinkMatch(ctx, res.PaymentID, matchID); err != nil {
		return nil, fmt.Errorf("link match %d: %w", matchID, err)
	}
	return res, nil
}

// CreatePriority creates the payment and links the service request it
// promotes.
func (s *Service) CreatePriority(ctx context.Context, userID, serviceRequestID int64, amount payment.Money) (*CreationResult, error) {
	return s.createForServiceRequest(ctx, userID, payment.TypePriority, serviceRequestID, amount, "Promocija oglasa")
}

// CreateUrgent creates the payment and links the service request it
// escalates.
func (s *Service) CreateUrgent(ctx context.Context, userID, serviceRequestID int64, amount payment.Money) (*CreationResult, error) {
	return s.createForServiceRequest(ctx, userID, payment.TypeUrgent, serviceRequestID, amount, "Hitna promocija oglasa")
}

func (s *Service) createForServiceRequest(ctx context.Context, userID int64, typ payment.Type, serviceRequestID int64, amount payment.Money, purpose string) (*CreationResult, error) {
	res, err := s.Create(ctx, userID, typ, amount, purpose, "")
	if err != nil {
		return nil, err
	}
	if err := s.payments.LinkServiceRequest(ctx, res.PaymentID, serviceRequestID); err != nil {
		return nil, fmt.Errorf("link service request %d: %w", serviceRequestID, err)
	}
	return res, nil
}

// Outcome classifies what an administrative verify found.
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeAlreadySettled Outcome = "already_settled"
)

// VerificationResult is the structured verify outcome. Not-found and
// already-settled are expected administrative results, not errors.
type VerificationResult struct {
	Outcome Outcome          `json:"outcome"`
	Payment *payment.Payment `json:"payment,omitempty"`
}

// Verify settles the payment carrying the reference. The conditional
// pending -> completed transition, the IPS record mirror and the
// completion effect run in one transaction: all of it commits, or none
// of it does.
func (s *Service) Verify(ctx context.Context, reference string, adminID int64) (*VerificationResult, error) {
	tx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", reference, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := tx.Payments().CompletePending(ctx, reference, adminID, s.now())
	switch {
	case errors.Is(err, payment.ErrNotFound):
		return &VerificationResult{Outcome: OutcomeNotFound}, nil
	case errors.Is(err, payment.ErrAlreadySettled):
		return &VerificationResult{Outcome: OutcomeAlreadySettled}, nil
	case err != nil:
		return nil, fmt.Errorf("verify %s: %w", reference, err)
	}

	if err := s.dispatcher.Apply(ctx, tx, p); err != nil {
		return nil, fmt.Errorf("verify %s: completion dispatch: %w", reference, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("verify %s: commit: %w", reference, err)
	}

	log.Info().
		Int64("payment_id", p.ID).
		Int64("admin_id", adminID).
		Str("type", string(p.Type)).
		Str("reference", reference).
		Msg("payment verified")

	return &VerificationResult{Outcome: OutcomeOK, Payment: p}, nil
}

// SweepExpired transitions every stale pending payment to expired and
// returns how many rows moved. Idempotent; overlapping sweeps only
// touch rows still pending at update time.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.payments.ExpireStale(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweep expired: %w", err)
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("expired stale payments")
	}
	return n, nil
}

// ListByUser returns the user's payments, newest first.
func (s *Service) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*payment.Payment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.payments.ListByUser(ctx, userID, limit, offset)
}
