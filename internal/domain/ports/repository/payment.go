package repository

import (
	"context"

	"interview-prep-subscription/internal/domain/model"
)

// PaymentRepository is the port for the payment audit trail.
type PaymentRepository interface {
	// Save inserts a new record. A duplicate gateway order id surfaces as
	// domain.ErrAlreadyExists via the unique constraint.
	Save(ctx context.Context, tx Tx, p *model.PaymentRecord) error

	// FindByOrderID looks up a record by gateway order id. Inside a
	// transaction the row is locked FOR UPDATE.
	FindByOrderID(ctx context.Context, tx Tx, gatewayOrderID string) (*model.PaymentRecord, error)

	// MarkCaptured sets the gateway payment id, signature and captured
	// status, keyed by gateway order id.
	MarkCaptured(ctx context.Context, tx Tx, gatewayOrderID, gatewayPaymentID, gatewaySignature string) error
}
