package model

import "time"

type PaymentStatus string

const (
	PaymentStatusCreated  PaymentStatus = "created"  // gateway order created, awaiting checkout
	PaymentStatusCaptured PaymentStatus = "captured" // signature verified, funds collected
	PaymentStatusFailed   PaymentStatus = "failed"   // verification or capture failed
)

// PaymentRecord is the append-style audit trail of a purchase attempt,
// keyed externally by the gateway order id. Rows are never deleted.
type PaymentRecord struct {
	ID               string // UUID
	UserID           string
	Plan             string // constant "pro" in this domain
	BillingCycle     BillingCycle
	AmountMinor      int64
	Currency         string
	GatewayOrderID   string  // unique
	GatewayPaymentID *string // nil until confirmed
	GatewaySignature *string // nil until confirmed
	Status           PaymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
