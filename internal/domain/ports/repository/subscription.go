package repository

import (
	"context"

	"interview-prep-subscription/internal/domain/model"
)

// SubscriptionRepository is the port for the one-row-per-user entitlement.
type SubscriptionRepository interface {
	// FindByUser returns the user's subscription row or domain.ErrNotFound.
	FindByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)

	// Upsert inserts or replaces the row keyed on user_id. Concurrent
	// confirmations for one user serialize through the store's native
	// ON CONFLICT resolution, not an application lock.
	Upsert(ctx context.Context, tx Tx, sub *model.Subscription) error
}
