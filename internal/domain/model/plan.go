package model

import (
	"strings"

	"interview-prep-subscription/internal/domain"
)

// BillingCycle selects the plan duration: monthly or yearly.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

// ParseBillingCycle normalizes and validates a client-supplied cycle string.
func ParseBillingCycle(s string) (BillingCycle, error) {
	switch BillingCycle(strings.ToLower(strings.TrimSpace(s))) {
	case BillingCycleMonthly:
		return BillingCycleMonthly, nil
	case BillingCycleYearly:
		return BillingCycleYearly, nil
	default:
		return "", domain.ErrInvalidArgument
	}
}

// Plan is an immutable, configuration-derived pricing entry. Amount and
// duration are never taken from client input; the catalog is the single
// source of truth for both.
type Plan struct {
	Cycle          BillingCycle
	AmountMinor    int64 // smallest currency unit (paise for INR)
	Currency       string
	DurationMonths int
	Features       []string
}

// NewPlan validates and constructs a plan.
func NewPlan(cycle BillingCycle, amountMinor int64, currency string, durationMonths int, features []string) (Plan, error) {
	if cycle == "" || amountMinor <= 0 || currency == "" || durationMonths < 1 {
		return Plan{}, domain.ErrInvalidArgument
	}
	return Plan{
		Cycle:          cycle,
		AmountMinor:    amountMinor,
		Currency:       currency,
		DurationMonths: durationMonths,
		Features:       features,
	}, nil
}
