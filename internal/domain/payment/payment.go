package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Payment is the generic aggregate tracking a single IPS QR collection
// from creation through settlement or expiry.
type Payment struct {
	ID               int64
	UserID           int64
	Amount           Money
	Currency         Currency
	Type             Type
	Description      string
	PlanCode         string
	Method           Method
	Reference        string
	Status           Status
	ExpiresAt        time.Time
	CompletedAt      *time.Time
	VerifiedAt       *time.Time
	VerifiedBy       *int64
	MatchID          *int64
	ServiceRequestID *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Money represents a monetary amount in whole currency units
type Money int64

// Currency represents a currency code
type Currency string

const RSD Currency = "RSD"

// Type represents what the payment buys; it fully determines the
// completion effect applied when the payment settles.
type Type string

const (
	TypeSubscription  Type = "subscription"
	TypeTopUp         Type = "topup"
	TypePriority      Type = "priority"
	TypeUrgent        Type = "urgent"
	TypeContactReveal Type = "contact_reveal"
)

// Valid reports whether t is a recognized payment type.
func (t Type) Valid() bool {
	switch t {
	case TypeSubscription, TypeTopUp, TypePriority, TypeUrgent, TypeContactReveal:
		return true
	}
	return false
}

// Status represents payment lifecycle status
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// Method represents the collection channel
type Method string

const MethodIPSQR Method = "ips_qr"

// ExpiryWindow is the fixed pending window granted at creation. It is
// never extended.
const ExpiryWindow = 24 * time.Hour

// Sentinel errors forming the lifecycle error taxonomy.
var (
	ErrInvalidRequest = errors.New("invalid payment request")
	ErrNotFound       = errors.New("payment not found")
	ErrAlreadySettled = errors.New("payment already settled")
)

// New creates a pending payment with validation. The expiry window is
// fixed here and never extended afterwards.
func New(userID int64, typ Type, amount Money, description, reference string, now time.Time) (*Payment, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id %d", ErrInvalidRequest, userID)
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: negative amount %d", ErrInvalidRequest, amount)
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidRequest, typ)
	}
	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrInvalidRequest)
	}

	return &Payment{
		UserID:      userID,
		Amount:      amount,
		Currency:    RSD,
		Type:        typ,
		Description: description,
		Method:      MethodIPSQR,
		Reference:   reference,
		Status:      StatusPending,
		ExpiresAt:   now.Add(ExpiryWindow),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsPending checks whether the payment can still be settled or expired.
func (p *Payment) IsPending() bool {
	return p.Status == StatusPending
}

// IsCompleted checks if payment is in completed state
func (p *Payment) IsCompleted() bool {
	return p.Status == StatusCompleted
}
