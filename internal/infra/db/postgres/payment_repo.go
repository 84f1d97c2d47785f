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

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, user_id, plan, billing_cycle, amount_minor, currency, gateway_order_id, gateway_payment_id, gateway_signature, status, created_at, updated_at`

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error {
	const q = `
INSERT INTO payments (
  id, user_id, plan, billing_cycle, amount_minor, currency, gateway_order_id, gateway_payment_id, gateway_signature, status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12);`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.Plan, p.BillingCycle, p.AmountMinor, p.Currency, p.GatewayOrderID, p.GatewayPaymentID, p.GatewaySignature, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByOrderID(ctx context.Context, tx repository.Tx, gatewayOrderID string) (*model.PaymentRecord, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_order_id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, gatewayOrderID)
	if err != nil {
		return nil, err
	}

	p := &model.PaymentRecord{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Plan, &p.BillingCycle, &p.AmountMinor, &p.Currency, &p.GatewayOrderID, &p.GatewayPaymentID, &p.GatewaySignature, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *paymentRepo) MarkCaptured(ctx context.Context, tx repository.Tx, gatewayOrderID, gatewayPaymentID, gatewaySignature string) error {
	const q = `
UPDATE payments
   SET gateway_payment_id=$2, gateway_signature=$3, status=$4, updated_at=NOW()
 WHERE gateway_order_id=$1;`

	_, err := execSQL(ctx, r.pool, tx, q, gatewayOrderID, gatewayPaymentID, gatewaySignature, model.PaymentStatusCaptured)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
