package model

import "time"

const ProPlan = "pro"

type SubscriptionStatus string

const (
	SubscriptionStatusNone    SubscriptionStatus = "none"
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
)

// Subscription is the single entitlement row per user. The Free tier has no
// row; a row exists from the first successful payment confirmation onward and
// is upserted on every later one. Expiry is a time-based state, not a row
// removal.
type Subscription struct {
	UserID       string // unique
	Plan         string // "pro"
	BillingCycle BillingCycle
	Status       SubscriptionStatus
	StartedAt    time.Time // latest activation event, not original signup
	ExpiresAt    time.Time
	UpdatedAt    time.Time
}

// IsActive is the one activity predicate applied everywhere. The stored
// status alone is never trusted: a stale "active" row with a past expiry
// must read as inactive.
func (s *Subscription) IsActive(now time.Time) bool {
	return s != nil && s.Status == SubscriptionStatusActive && s.ExpiresAt.After(now)
}
