//go:build !integration

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"interview-prep-subscription/internal/domain"
	"interview-prep-subscription/internal/domain/model"
	"interview-prep-subscription/internal/domain/ports/repository"
)

type orderUCTestDeps struct {
	payments *MockPaymentRepo
	subs     *MockSubscriptionRepo
	gateway  *MockGateway
}

func newOrderUC(t *testing.T) (*orderUC, *orderUCTestDeps) {
	t.Helper()
	deps := &orderUCTestDeps{
		payments: NewMockPaymentRepo(),
		subs:     NewMockSubscriptionRepo(),
		gateway:  NewMockGateway(),
	}
	uc := NewOrderUseCase(deps.payments, deps.subs, newTestCatalog(t), deps.gateway, newTestLogger())
	return uc, deps
}

func TestOrderUseCase_Initiate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an order for a user with no subscription", func(t *testing.T) {
		uc, deps := newOrderUC(t)

		res, err := uc.Initiate(ctx, "user-abc-123", model.BillingCycleMonthly)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if res.OrderID != "order_test_1" {
			t.Errorf("unexpected order id %q", res.OrderID)
		}
		if res.AmountMinor != 79900 || res.Currency != "INR" {
			t.Errorf("expected catalog amount 79900 INR, got %d %s", res.AmountMinor, res.Currency)
		}
		if res.KeyID != "rzp_test_public" {
			t.Errorf("expected public key id in result, got %q", res.KeyID)
		}
		// The gateway must only ever see the server-side amount.
		if deps.gateway.LastAmount != 79900 {
			t.Errorf("gateway called with amount %d", deps.gateway.LastAmount)
		}
		if !strings.HasPrefix(deps.gateway.LastReceipt, "preply_user-abc") {
			t.Errorf("unexpected receipt %q", deps.gateway.LastReceipt)
		}
		if deps.gateway.LastNotes["userId"] != "user-abc-123" || deps.gateway.LastNotes["billingCycle"] != "monthly" {
			t.Errorf("unexpected notes %v", deps.gateway.LastNotes)
		}

		rec, err := deps.payments.FindByOrderID(ctx, repository.NoTX, "order_test_1")
		if err != nil {
			t.Fatalf("expected payment record to be saved: %v", err)
		}
		if rec.Status != model.PaymentStatusCreated {
			t.Errorf("expected status created, got %s", rec.Status)
		}
		if rec.AmountMinor != 79900 || rec.BillingCycle != model.BillingCycleMonthly {
			t.Errorf("record does not mirror the plan: %+v", rec)
		}
	})

	t.Run("fails fast when the gateway is not configured", func(t *testing.T) {
		uc, deps := newOrderUC(t)
		deps.gateway.NotReady = true

		_, err := uc.Initiate(ctx, "user-1", model.BillingCycleMonthly)
		if !errors.Is(err, domain.ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
	})

	t.Run("rejects an empty user id", func(t *testing.T) {
		uc, _ := newOrderUC(t)

		_, err := uc.Initiate(ctx, "", model.BillingCycleYearly)
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("rejects an unknown billing cycle", func(t *testing.T) {
		uc, deps := newOrderUC(t)

		_, err := uc.Initiate(ctx, "user-1", model.BillingCycle("weekly"))
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if deps.gateway.CreateCalls != 0 {
			t.Error("gateway must not be called for an invalid cycle")
		}
	})

	t.Run("active yearly subscriber cannot buy anything", func(t *testing.T) {
		uc, deps := newOrderUC(t)
		deps.subs.Seed(&model.Subscription{
			UserID:       "user-1",
			Plan:         model.ProPlan,
			BillingCycle: model.BillingCycleYearly,
			Status:       model.SubscriptionStatusActive,
			ExpiresAt:    time.Now().Add(30 * 24 * time.Hour),
		})

		for _, cycle := range []model.BillingCycle{model.BillingCycleMonthly, model.BillingCycleYearly} {
			if _, err := uc.Initiate(ctx, "user-1", cycle); !errors.Is(err, domain.ErrAlreadySubscribed) {
				t.Errorf("cycle %s: expected ErrAlreadySubscribed, got %v", cycle, err)
			}
		}
		if deps.gateway.CreateCalls != 0 {
			t.Error("gateway must not be called when the user is ineligible")
		}
	})

	t.Run("active monthly subscriber may only upgrade to yearly", func(t *testing.T) {
		uc, deps := newOrderUC(t)
		deps.subs.Seed(&model.Subscription{
			UserID:       "user-1",
			BillingCycle: model.BillingCycleMonthly,
			Status:       model.SubscriptionStatusActive,
			ExpiresAt:    time.Now().Add(10 * 24 * time.Hour),
		})

		if _, err := uc.Initiate(ctx, "user-1", model.BillingCycleMonthly); !errors.Is(err, domain.ErrAlreadySubscribed) {
			t.Errorf("monthly->monthly: expected ErrAlreadySubscribed, got %v", err)
		}
		res, err := uc.Initiate(ctx, "user-1", model.BillingCycleYearly)
		if err != nil {
			t.Fatalf("monthly->yearly upgrade should be allowed, got %v", err)
		}
		if res.AmountMinor != 729900 {
			t.Errorf("expected yearly amount, got %d", res.AmountMinor)
		}
	})

	t.Run("expired subscription does not block a new purchase", func(t *testing.T) {
		uc, deps := newOrderUC(t)
		deps.subs.Seed(&model.Subscription{
			UserID:       "user-1",
			BillingCycle: model.BillingCycleYearly,
			Status:       model.SubscriptionStatusActive, // stale status; expiry is in the past
			ExpiresAt:    time.Now().Add(-time.Hour),
		})

		if _, err := uc.Initiate(ctx, "user-1", model.BillingCycleMonthly); err != nil {
			t.Fatalf("expected purchase to be allowed after expiry, got %v", err)
		}
	})

	t.Run("gateway failure surfaces and leaves no record", func(t *testing.T) {
		uc, deps := newOrderUC(t)
		deps.gateway.CreateOrderErr = domain.ErrGateway

		_, err := uc.Initiate(ctx, "user-1", model.BillingCycleMonthly)
		if !errors.Is(err, domain.ErrGateway) {
			t.Fatalf("expected ErrGateway, got %v", err)
		}
		if _, err := deps.payments.FindByOrderID(ctx, repository.NoTX, "order_test_1"); !errors.Is(err, domain.ErrNotFound) {
			t.Error("no payment record may exist after a gateway failure")
		}
	})

	t.Run("payment record save failure is not fatal", func(t *testing.T) {
		uc, deps := newOrderUC(t)
		deps.payments.SaveErr = domain.ErrOperationFailed

		res, err := uc.Initiate(ctx, "user-1", model.BillingCycleMonthly)
		if err != nil {
			t.Fatalf("order must still succeed when the record insert fails, got %v", err)
		}
		if res.OrderID == "" {
			t.Error("order id must still be returned")
		}
	})
}
