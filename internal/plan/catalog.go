// File: internal/plan/catalog.go
package plan

import (
	"interview-prep-subscription/internal/config"
	"interview-prep-subscription/internal/domain"
	"interview-prep-subscription/internal/domain/model"
)

// Catalog is the static billing-cycle -> plan mapping, built once from
// config at startup. Pure lookup; no side effects, no I/O.
type Catalog struct {
	plans map[model.BillingCycle]model.Plan
}

// NewCatalog constructs the catalog from configuration. Exactly one plan per
// cycle; an invalid entry fails startup instead of being silently skipped.
func NewCatalog(cfg config.PlansConfig) (*Catalog, error) {
	monthly, err := model.NewPlan(model.BillingCycleMonthly, cfg.Monthly.AmountMinor, cfg.Monthly.Currency, cfg.Monthly.DurationMonths, cfg.Monthly.Features)
	if err != nil {
		return nil, err
	}
	yearly, err := model.NewPlan(model.BillingCycleYearly, cfg.Yearly.AmountMinor, cfg.Yearly.Currency, cfg.Yearly.DurationMonths, cfg.Yearly.Features)
	if err != nil {
		return nil, err
	}
	return &Catalog{plans: map[model.BillingCycle]model.Plan{
		model.BillingCycleMonthly: monthly,
		model.BillingCycleYearly:  yearly,
	}}, nil
}

// Get returns the plan for a cycle or domain.ErrNotFound. Callers decide what
// a miss means: a bad request at order time, a data-integrity fault at
// confirmation time.
func (c *Catalog) Get(cycle model.BillingCycle) (model.Plan, error) {
	p, ok := c.plans[cycle]
	if !ok {
		return model.Plan{}, domain.ErrNotFound
	}
	return p, nil
}

// List returns the plans in display order (monthly first).
func (c *Catalog) List() []model.Plan {
	return []model.Plan{
		c.plans[model.BillingCycleMonthly],
		c.plans[model.BillingCycleYearly],
	}
}
