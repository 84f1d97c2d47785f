package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"interview-prep-subscription/internal/domain"
	"interview-prep-subscription/internal/domain/model"
	"interview-prep-subscription/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	q := `SELECT user_id, plan, billing_cycle, status, started_at, expires_at, updated_at FROM subscriptions WHERE user_id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}

	s := &model.Subscription{}
	if err := row.Scan(&s.UserID, &s.Plan, &s.BillingCycle, &s.Status, &s.StartedAt, &s.ExpiresAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

// Upsert relies on the user_id unique constraint; concurrent confirmations
// serialize through ON CONFLICT with last-writer-wins semantics.
func (r *subscriptionRepo) Upsert(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (user_id, plan, billing_cycle, status, started_at, expires_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (user_id) DO UPDATE
  SET plan          = EXCLUDED.plan,
      billing_cycle = EXCLUDED.billing_cycle,
      status        = EXCLUDED.status,
      started_at    = EXCLUDED.started_at,
      expires_at    = EXCLUDED.expires_at,
      updated_at    = EXCLUDED.updated_at;`

	_, err := execSQL(ctx, r.pool, tx, q, sub.UserID, sub.Plan, sub.BillingCycle, sub.Status, sub.StartedAt, sub.ExpiresAt, sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
