package adapter

import "context"

// PaymentGateway is the port for the external payment provider. Only order
// creation and signature verification are used here; checkout itself happens
// in the provider's client-side widget.
type PaymentGateway interface {
	Name() string

	// Ready reports whether server-side credentials are configured. Checked
	// first in every entry point so a misconfigured deployment fails with a
	// distinct "service unavailable" signal instead of a validation error.
	Ready() bool

	// KeyID returns the public key identifier handed to the client for
	// checkout widget initialization. Not a secret.
	KeyID() string

	// CreateOrder creates a provider order for the given amount in minor
	// units. notes is opaque metadata echoed back by the provider for
	// auditability. The call must respect ctx cancellation/deadline.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]interface{}) (orderID string, err error)

	// VerifySignature recomputes the provider signature over
	// orderID|paymentID with the server-held secret and compares in constant
	// time. Returns domain.ErrInvalidSignature on mismatch.
	VerifySignature(orderID, paymentID, signature string) error
}
