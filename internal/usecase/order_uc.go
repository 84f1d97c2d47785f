// File: internal/usecase/order_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"interview-prep-subscription/internal/domain"
	"interview-prep-subscription/internal/domain/model"
	"interview-prep-subscription/internal/domain/ports/adapter"
	"interview-prep-subscription/internal/domain/ports/repository"
	"interview-prep-subscription/internal/plan"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

// OrderResult is what the client needs to open the checkout widget.
type OrderResult struct {
	OrderID     string
	AmountMinor int64
	Currency    string
	KeyID       string
}

type OrderUseCase interface {
	// Initiate validates eligibility for the requested cycle, creates a
	// gateway order and persists a pending payment record.
	Initiate(ctx context.Context, userID string, cycle model.BillingCycle) (*OrderResult, error)
}

type orderUC struct {
	payments repository.PaymentRepository
	subs     repository.SubscriptionRepository
	catalog  *plan.Catalog
	gateway  adapter.PaymentGateway
	log      *zerolog.Logger
	now      func() time.Time
}

func NewOrderUseCase(payments repository.PaymentRepository, subs repository.SubscriptionRepository, catalog *plan.Catalog, gateway adapter.PaymentGateway, logger *zerolog.Logger) *orderUC {
	return &orderUC{
		payments: payments,
		subs:     subs,
		catalog:  catalog,
		gateway:  gateway,
		log:      logger,
		now:      time.Now,
	}
}

func (u *orderUC) Initiate(ctx context.Context, userID string, cycle model.BillingCycle) (*OrderResult, error) {
	// Fail fast on missing credentials, before any request validation.
	if !u.gateway.Ready() {
		return nil, domain.ErrNotConfigured
	}
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	selected, err := u.catalog.Get(cycle)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}

	now := u.now()
	current, err := u.subs.FindByUser(ctx, repository.NoTX, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		// The gateway order can still be created; confirmation re-reads the
		// subscription anyway.
		u.log.Warn().Err(err).Str("user_id", userID).Msg("subscription lookup failed during order initiation")
		current = nil
	}

	// Eligibility: an inactive (or absent) subscription may buy any cycle.
	// An active one may only take the monthly -> yearly upgrade path.
	if current.IsActive(now) {
		isUpgrade := current.BillingCycle == model.BillingCycleMonthly && cycle == model.BillingCycleYearly
		if !isUpgrade {
			return nil, domain.ErrAlreadySubscribed
		}
	}

	receipt := receiptFor(userID, now)
	notes := map[string]interface{}{
		"userId":       userID,
		"billingCycle": string(cycle),
		"plan":         model.ProPlan,
	}

	orderID, err := u.gateway.CreateOrder(ctx, selected.AmountMinor, selected.Currency, receipt, notes)
	if err != nil {
		return nil, err
	}

	rec := &model.PaymentRecord{
		ID:             uuid.NewString(),
		UserID:         userID,
		Plan:           model.ProPlan,
		BillingCycle:   cycle,
		AmountMinor:    selected.AmountMinor,
		Currency:       selected.Currency,
		GatewayOrderID: orderID,
		Status:         model.PaymentStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.payments.Save(ctx, repository.NoTX, rec); err != nil {
		// Non-fatal: the gateway order already exists and the user must not
		// be blocked. Confirmation tolerates the orphaned order by failing
		// its own lookup.
		u.log.Error().Err(err).Str("order_id", orderID).Str("user_id", userID).Msg("failed to save payment record (non-critical)")
	}

	return &OrderResult{
		OrderID:     orderID,
		AmountMinor: selected.AmountMinor,
		Currency:    selected.Currency,
		KeyID:       u.gateway.KeyID(),
	}, nil
}

// receiptFor derives a best-effort-unique receipt id from a user id prefix
// and the current timestamp. Not a dedup key.
func receiptFor(userID string, now time.Time) string {
	prefix := userID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("preply_%s_%d", prefix, now.UnixMilli())
}
