package ips

import (
	"fmt"
	"strings"

	"ipspay/internal/domain/payment"
)

// Fixed protocol constants for this deployment. The payment code and
// reference model are part of the record consuming banks parse.
const (
	IdentificationCode = "PR"
	ProtocolVersion    = "01"
	CharacterSet       = "1"
	PaymentCode        = "289"
	ReferenceModel     = "97"
)

// Request carries everything needed to encode one IPS QR text record.
type Request struct {
	RecipientAccount string
	RecipientName    string
	Amount           payment.Money
	Purpose          string
	Reference        string
}

// FormatAmount renders an amount the way banking apps expect it:
// currency code, integer units, literal ",00" decimals. Amounts are
// whole units end to end, so the decimal part is always zero.
func FormatAmount(amount payment.Money) string {
	return fmt.Sprintf("%s%d,00", payment.RSD, amount)
}

// BuildText encodes the request into the pipe-delimited IPS QR record.
// Segment order and tags are the external contract: banking apps parse
// positionally-tagged fields, so reordering is a breaking change.
func BuildText(req Request) string {
	segments := []string{
		"K:" + IdentificationCode,
		"V:" + ProtocolVersion,
		"C:" + CharacterSet,
		"R:" + req.RecipientAccount,
		"N:" + req.RecipientName,
		"I:" + FormatAmount(req.Amount),
		"S:" + req.Purpose,
		"SF:" + PaymentCode,
		"RO:" + ReferenceModel,
		"RN:" + req.Reference,
	}
	return strings.Join(segments, "|")
}
