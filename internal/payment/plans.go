package payment

import "github.com/shopspring/decimal"

// Plan is one subscription tier of the pricing page.
type Plan struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Period      string
	Description string
	Features    []string
	Highlight   bool
}

// Cents returns the plan price in the smallest currency unit.
func (p Plan) Cents() int64 {
	return p.Price.Shift(2).IntPart() //nolint:mnd
}

// Plans lists the tiers in display order.
func Plans() []Plan {
	return []Plan{
		{
			ID:          "price_basic",
			Name:        "Basic",
			Price:       decimal.NewFromInt(49), //nolint:mnd
			Period:      "per month",
			Description: "Perfect for small tattoo shops",
			Features: []string{
				"AI Voice Assistant",
				"Basic Call Handling",
				"Email Support",
				"Up to 100 Calls/Month",
				"Basic Analytics",
			},
		},
		{
			ID:          "price_professional",
			Name:        "Professional",
			Price:       decimal.NewFromInt(99), //nolint:mnd
			Period:      "per month",
			Description: "Most popular for growing studios",
			Features: []string{
				"Everything in Basic, plus:",
				"Advanced Call Management",
				"Priority Support",
				"Up to 500 Calls/Month",
				"Detailed Analytics",
				"Custom Voice Training",
				"Calendar Integration",
			},
			Highlight: true,
		},
		{
			ID:          "price_enterprise",
			Name:        "Enterprise",
			Price:       decimal.NewFromInt(199), //nolint:mnd
			Period:      "per month",
			Description: "For large tattoo businesses",
			Features: []string{
				"Everything in Professional, plus:",
				"Unlimited Calls",
				"Multiple Voice Agents",
				"Dedicated Account Manager",
				"Custom Integration",
				"Advanced AI Training",
				"Multi-Location Support",
			},
		},
	}
}

// FindPlan looks a plan up by id.
func FindPlan(id string) (Plan, bool) {
	for _, p := range Plans() {
		if p.ID == id {
			return p, true
		}
	}

	return Plan{}, false
}
