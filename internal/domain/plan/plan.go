package plan

import (
	"errors"
	"time"

	"ipspay/internal/domain/payment"
)

// Plan describes a purchasable subscription plan. Plans are owned
// elsewhere; this core only reads them by code during completion.
type Plan struct {
	Code            string
	Name            string
	CreditsPerMonth int
	Price           payment.Money
}

// Subscription models the fields of a user subscription this core
// creates or credits as a completion side effect.
type Subscription struct {
	ID               int64
	UserID           int64
	PlanCode         string
	CreditsTotal     int
	CreditsRemaining int
	Status           string
	StartDate        time.Time
	EndDate          time.Time
}

// SubscriptionActive is the status an active subscription carries.
const SubscriptionActive = "active"

var (
	ErrNotFound             = errors.New("plan not found")
	ErrNoActiveSubscription = errors.New("no active subscription")
)
