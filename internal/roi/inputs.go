package roi

import "sort"

// Timeframe is the reporting period the user picked. It is informational:
// projections are always produced month by month.
type Timeframe string

const (
	Monthly   Timeframe = "monthly"
	Quarterly Timeframe = "quarterly"
	Yearly    Timeframe = "yearly"
)

// Inputs are the user-entered financial figures for one calculation.
// Percent fields hold values such as 85 for 85%.
type Inputs struct {
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
	GrossMargin       float64 `json:"grossMargin"`
	MarketingBudget   float64 `json:"marketingBudget"`
	OperatingExpenses float64 `json:"operatingExpenses"`
	EmployeeCosts     float64 `json:"employeeCosts"`

	CAC               *float64 `json:"cac,omitempty"`
	AverageOrderValue *float64 `json:"averageOrderValue,omitempty"`
	ChurnRate         *float64 `json:"churnRate,omitempty"`

	Timeframe        Timeframe `json:"timeframe"`
	ProjectionMonths int       `json:"projectionMonths"`
	GrowthRate       float64   `json:"growthRate"`

	Country      string `json:"country"`
	BusinessType string `json:"businessType"`
	Scenario     string `json:"scenario"`

	InitialInvestment *float64           `json:"initialInvestment,omitempty"`
	AdditionalCosts   map[string]float64 `json:"additionalCosts,omitempty"`
}

// present reports whether an optional customer input was supplied.
// A zero value counts as not supplied, the same as an empty form field.
func present(v *float64) bool {
	return v != nil && *v != 0
}

// additionalCostsTotal sums the labelled extra costs in key order so the
// result does not depend on map iteration order.
func additionalCostsTotal(in Inputs) float64 {
	if len(in.AdditionalCosts) == 0 {
		return 0
	}
	labels := make([]string, 0, len(in.AdditionalCosts))
	for label := range in.AdditionalCosts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	total := 0.0
	for _, label := range labels {
		total += in.AdditionalCosts[label]
	}
	return total
}

// Float returns a pointer to v, for filling optional inputs.
func Float(v float64) *float64 {
	return &v
}
