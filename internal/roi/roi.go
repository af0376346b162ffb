// Package roi projects the savings of replacing phone staff with voice agents.
package roi

import (
	"math"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
)

// Cost assumptions.
const (
	EmployeeCostPerHour  = 18.0
	AgentCostPerMonth    = 500.0
	OverheadMultiplier   = 1.3
	WorkingDaysPerMonth  = 21
	MonthsToProject      = 6
	CallsPerAgent        = 250
	CallsPerEfficiencyUp = 150

	MinROI = 2.0
	MaxROI = 75.0
)

// Inputs of the calculator.
type Inputs struct {
	DailyCalls        int     `json:"dailyCalls" form:"dailyCalls" validate:"gte=0,lte=1000"`
	Employees         int     `json:"employees" form:"employees" validate:"gte=1,lte=50"`
	HandleTime        int     `json:"handleTime" form:"handleTime" validate:"gte=30,lte=300"`
	SeasonalVariation float64 `json:"seasonalVariation" form:"seasonalVariation" validate:"gte=0,lte=0.5"`
}

// DefaultInputs are shown before the visitor changes anything.
func DefaultInputs() Inputs {
	return Inputs{DailyCalls: 500, Employees: 5, HandleTime: 90} //nolint:mnd
}

// Validate checks the slider ranges.
func (in Inputs) Validate() error {
	return auth.Validator().Struct(in) //nolint:wrapcheck
}

// Month is one point of the projection. Savings and costs are cumulative.
type Month struct {
	Month   int     `json:"month"`
	Savings float64 `json:"savings"`
	Costs   float64 `json:"costs"`
	ROI     float64 `json:"roi"`
}

// Projection is the calculator output.
type Projection struct {
	RecommendedAgents int     `json:"recommendedAgents"`
	Months            []Month `json:"months"`
}

// Calculate projects MonthsToProject months. The ROI percentage is clamped to [MinROI, MaxROI].
func Calculate(in Inputs) Projection {
	employees := float64(in.Employees)
	callsPerMonth := float64(in.DailyCalls * WorkingDaysPerMonth)
	handleHours := callsPerMonth * float64(in.HandleTime) / 3600 //nolint:mnd

	teamInefficiency := math.Min(0.08*math.Log2(employees+1), 0.35) //nolint:mnd
	laborCost := handleHours * EmployeeCostPerHour * OverheadMultiplier * (1 + teamInefficiency)

	agents := int(math.Ceil(float64(in.DailyCalls) / CallsPerAgent))

	ratio := 0.0
	if steps := math.Ceil(float64(in.DailyCalls) / CallsPerEfficiencyUp); steps > 0 {
		ratio = float64(agents) / steps
	}

	aiEfficiency := 0.7 + 0.15*math.Min(0.8, ratio)                               //nolint:mnd
	aiHandleHours := callsPerMonth * float64(in.HandleTime) / aiEfficiency / 3600 //nolint:mnd
	aiMonthlyCost := float64(agents) * AgentCostPerMonth

	scale := 1 + employees*0.02 //nolint:mnd

	months := make([]Month, 0, MonthsToProject)

	for m := range MonthsToProject {
		seasonal := 1 + in.SeasonalVariation*math.Sin(float64(m)/12*2*math.Pi) //nolint:mnd
		learning := (1 + 0.03*math.Log(float64(m)+1)) * (1 + employees*0.01)   //nolint:mnd

		monthly := (laborCost - aiHandleHours*EmployeeCostPerHour) * seasonal * learning
		totalCost := aiMonthlyCost * float64(m+1)
		totalSavings := monthly * float64(m+1)

		roi := MinROI
		if totalCost > 0 {
			roi = math.Max(MinROI, math.Min(MaxROI, (totalSavings-totalCost)/totalCost*100*scale)) //nolint:mnd
		}

		months = append(months, Month{Month: m + 1, Savings: totalSavings, Costs: totalCost, ROI: roi})
	}

	return Projection{RecommendedAgents: agents, Months: months}
}
