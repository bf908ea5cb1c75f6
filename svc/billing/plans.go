package billing

import (
	"strings"

	"github.com/yieldcanary/yieldcanary/svc/entitlement"
)

// Mode is the kind of checkout session a price is sold through.
type Mode string

const (
	ModeSubscription Mode = "subscription"
	ModePayment      Mode = "payment"
)

// Plan identifiers accepted by Checkout in place of a raw price id.
const (
	PlanBasicMonthly    = "basic_monthly"
	PlanBasicYearly     = "basic_yearly"
	PlanAdvancedMonthly = "advanced_monthly"
	PlanAdvancedYearly  = "advanced_yearly"
	PlanOneDollar       = "one_dollar"
)

// Plan binds a plan identifier to its configured price.
type Plan struct {
	ID      string
	PriceID string
	Mode    Mode
	Tier    entitlement.Tier
}

// Catalog is the static plan table built from configuration at start-up.
type Catalog struct {
	plans        []Plan
	byID         map[string]Plan
	byPrice      map[string]Plan
	oneTimePrice string
}

// NewCatalog builds the plan table from cfg. Plans whose price is not
// configured still resolve, to an empty price.
func NewCatalog(cfg Config) *Catalog {
	plans := []Plan{
		{ID: PlanBasicMonthly, PriceID: cfg.BasicMonthlyPrice, Mode: ModeSubscription, Tier: entitlement.TierBasic},
		{ID: PlanBasicYearly, PriceID: cfg.BasicYearlyPrice, Mode: ModeSubscription, Tier: entitlement.TierBasic},
		{ID: PlanAdvancedMonthly, PriceID: cfg.AdvancedMonthlyPrice, Mode: ModeSubscription, Tier: entitlement.TierAdvanced},
		{ID: PlanAdvancedYearly, PriceID: cfg.AdvancedYearlyPrice, Mode: ModeSubscription, Tier: entitlement.TierAdvanced},
		{ID: PlanOneDollar, PriceID: cfg.OneDollarPrice, Mode: ModePayment, Tier: entitlement.TierAdvanced},
	}

	c := &Catalog{
		plans:        plans,
		byID:         make(map[string]Plan, len(plans)),
		byPrice:      make(map[string]Plan, len(plans)),
		oneTimePrice: strings.TrimSpace(cfg.OneDollarPrice),
	}
	for _, p := range plans {
		p.PriceID = strings.TrimSpace(p.PriceID)
		c.byID[p.ID] = p
		if p.PriceID != "" {
			c.byPrice[p.PriceID] = p
		}
	}
	return c
}

// Plans returns the plan table in declaration order.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Resolve maps a plan identifier to its configured price. Anything that is
// not a plan identifier is returned unchanged and known is false.
func (c *Catalog) Resolve(planOrPrice string) (priceID string, known bool) {
	if p, ok := c.byID[planOrPrice]; ok {
		return p.PriceID, true
	}
	return planOrPrice, false
}

// ModeFor reports the checkout mode of a resolved price.
func (c *Catalog) ModeFor(priceID string) Mode {
	if c.oneTimePrice != "" && priceID == c.oneTimePrice {
		return ModePayment
	}
	return ModeSubscription
}

// TierFor maps a price to the tier it grants. ok is false for prices that
// are not in the table; the caller decides the fallback.
func (c *Catalog) TierFor(priceID string) (tier entitlement.Tier, ok bool) {
	p, ok := c.byPrice[priceID]
	if !ok {
		return entitlement.TierBasic, false
	}
	return p.Tier, true
}
