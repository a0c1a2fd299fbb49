package payment

import "time"

// IpsRecord is the protocol artifact persisted 1:1 with a Payment. Its
// status and expiry mirror the payment and are transitioned in lockstep.
type IpsRecord struct {
	ID                 int64
	PaymentID          int64
	IdentificationCode string
	RecipientName      string
	RecipientAccount   string
	AmountText         string
	Reference          string
	Purpose            string
	Status             IpsStatus
	ExpiresAt          time.Time
	PaidAt             *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IpsStatus is the protocol-level status kept in lockstep with the
// payment status (paid mirrors completed).
type IpsStatus string

const (
	IpsPending IpsStatus = "pending"
	IpsPaid    IpsStatus = "paid"
	IpsExpired IpsStatus = "expired"
)
