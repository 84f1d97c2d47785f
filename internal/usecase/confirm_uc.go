// File: internal/usecase/confirm_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"interview-prep-subscription/internal/domain"
	"interview-prep-subscription/internal/domain/model"
	"interview-prep-subscription/internal/domain/ports/adapter"
	"interview-prep-subscription/internal/domain/ports/repository"
	"interview-prep-subscription/internal/infra/metrics"
	red "interview-prep-subscription/internal/infra/redis"
	"interview-prep-subscription/internal/plan"
)

// Compile-time check
var _ ConfirmUseCase = (*confirmUC)(nil)

const confirmLockTTL = 10 * time.Second

type ConfirmUseCase interface {
	// Confirm verifies a client-submitted payment confirmation and
	// activates or extends the subscription. Returns the new expiry.
	// Plan and amount are never taken from the caller; everything derives
	// from the stored payment record.
	Confirm(ctx context.Context, orderID, paymentID, signature string) (time.Time, error)
}

type confirmUC struct {
	payments repository.PaymentRepository
	subs     repository.SubscriptionRepository
	catalog  *plan.Catalog
	gateway  adapter.PaymentGateway
	tm       repository.TransactionManager
	locker   red.Locker // optional; nil disables per-user serialization
	log      *zerolog.Logger
	now      func() time.Time
}

func NewConfirmUseCase(payments repository.PaymentRepository, subs repository.SubscriptionRepository, catalog *plan.Catalog, gateway adapter.PaymentGateway, tm repository.TransactionManager, locker red.Locker, logger *zerolog.Logger) *confirmUC {
	return &confirmUC{
		payments: payments,
		subs:     subs,
		catalog:  catalog,
		gateway:  gateway,
		tm:       tm,
		locker:   locker,
		log:      logger,
		now:      time.Now,
	}
}

func (u *confirmUC) Confirm(ctx context.Context, orderID, paymentID, signature string) (time.Time, error) {
	if !u.gateway.Ready() {
		return time.Time{}, domain.ErrNotConfigured
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return time.Time{}, domain.ErrInvalidArgument
	}

	// Trust boundary: everything after this line assumes the gateway really
	// collected the funds for this (order, payment) pair.
	if err := u.gateway.VerifySignature(orderID, paymentID, signature); err != nil {
		return time.Time{}, err
	}

	rec, err := u.payments.FindByOrderID(ctx, repository.NoTX, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return time.Time{}, domain.ErrOrderNotFound
		}
		return time.Time{}, err
	}

	selected, err := u.catalog.Get(rec.BillingCycle)
	if err != nil {
		// Data-integrity fault: a stored cycle with no plan config. Never
		// guess a default plan.
		u.log.Error().Str("order_id", orderID).Str("billing_cycle", string(rec.BillingCycle)).Msg("plan config missing for stored billing cycle")
		return time.Time{}, domain.ErrPlanConfigMissing
	}

	// Best-effort serialization of concurrent confirmations for one user.
	// If the lock cannot be taken the request still proceeds; the store
	// upsert remains the final arbiter (accepted-risk window).
	if u.locker != nil {
		if token, lockErr := u.locker.TryLock(ctx, "confirm:user:"+rec.UserID, confirmLockTTL); lockErr == nil {
			defer func() { _ = u.locker.Unlock(ctx, "confirm:user:"+rec.UserID, token) }()
		} else {
			u.log.Warn().Err(lockErr).Str("user_id", rec.UserID).Msg("confirmation lock not acquired; proceeding")
		}
	}

	// Idempotency gate: re-read the record under FOR UPDATE and capture it
	// at most once per gateway order id. A replayed confirmation becomes a
	// no-op success instead of extending the subscription twice.
	var alreadyCaptured bool
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		cur, err := u.payments.FindByOrderID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if cur.Status == model.PaymentStatusCaptured {
			alreadyCaptured = true
			return nil
		}
		return u.payments.MarkCaptured(ctx, tx, orderID, paymentID, signature)
	})
	if err != nil {
		return time.Time{}, err
	}

	now := u.now().UTC()
	current, err := u.subs.FindByUser(ctx, repository.NoTX, rec.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		// Read failure, nothing was updated yet.
		return time.Time{}, domain.ErrOperationFailed
	}

	if alreadyCaptured && current != nil {
		u.log.Info().Str("order_id", orderID).Str("user_id", rec.UserID).Msg("replayed confirmation for captured payment; no-op")
		return current.ExpiresAt, nil
	}
	// A captured payment with no subscription row means a previous attempt
	// died between capture and upsert; fall through and heal it.

	// Extension, not replacement: a user renewing or upgrading before expiry
	// keeps the unused time.
	base := now
	if current != nil && current.ExpiresAt.After(now) {
		base = current.ExpiresAt
	}
	newExpiresAt := base.AddDate(0, selected.DurationMonths, 0)

	kind := "new"
	switch {
	case current == nil:
	case current.BillingCycle != rec.BillingCycle:
		kind = "upgrade"
	default:
		kind = "extend"
	}

	sub := &model.Subscription{
		UserID:       rec.UserID,
		Plan:         model.ProPlan,
		BillingCycle: rec.BillingCycle,
		Status:       model.SubscriptionStatusActive,
		StartedAt:    now,
		ExpiresAt:    newExpiresAt,
		UpdatedAt:    now,
	}
	if err := u.subs.Upsert(ctx, repository.NoTX, sub); err != nil {
		// The payment is already captured; this inconsistency is accepted
		// and left to reconciliation tooling rather than a two-phase commit.
		u.log.Error().Err(err).Str("order_id", orderID).Str("user_id", rec.UserID).Msg("subscription upsert failed after capture")
		return time.Time{}, domain.ErrSubscriptionUpdateFailed
	}

	metrics.IncActivation(string(rec.BillingCycle), kind)
	u.log.Info().
		Str("order_id", orderID).
		Str("user_id", rec.UserID).
		Str("billing_cycle", string(rec.BillingCycle)).
		Str("kind", kind).
		Time("expires_at", newExpiresAt).
		Msg("payment verified and subscription activated")
	return newExpiresAt, nil
}
