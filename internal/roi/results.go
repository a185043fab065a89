package roi

import (
	"encoding/json"
	"math"
)

// CostBreakdown splits one month of costs by category.
type CostBreakdown struct {
	Marketing       float64
	Operations      float64
	Employees       float64
	Taxes           float64
	Additional      float64
	CountryEstimate float64
}

// ProjectionRow is one projected month. Costs include that month's tax.
type ProjectionRow struct {
	Month         int
	Revenue       float64
	Costs         float64
	NetProfit     float64
	CumulativeROI float64
}

// IndustryComparison holds signed percent deltas against the scenario baseline.
type IndustryComparison struct {
	RevenueVsBenchmark float64
	MarginVsBenchmark  float64
	GrowthVsBenchmark  float64
}

// Impact grades a risk factor.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// RiskFactor is a qualitative risk triggered by the inputs or the country.
type RiskFactor struct {
	Factor      string `json:"factor"`
	Impact      Impact `json:"impact"`
	Description string `json:"description"`
}

// Recommendation is a suggested action with its expected effect.
type Recommendation struct {
	Category        string `json:"category"`
	Suggestion      string `json:"suggestion"`
	PotentialImpact string `json:"potentialImpact"`
}

// Results is the full output of one calculation. Optional customer metrics
// and the break-even month are nil when they could not be derived.
type Results struct {
	ROI          float64
	NetProfit    float64
	GrossProfit  float64
	TotalRevenue float64
	TotalCosts   float64

	TaxAmount        float64
	AfterTaxProfit   float64
	EffectiveTaxRate float64

	CustomerLifetimeValue *float64
	PaybackPeriod         *float64
	CustomersNeeded       *int

	InitialInvestment  float64
	MonthlyNetCashFlow float64
	BreakEvenMonth     *int

	CostBreakdown      CostBreakdown
	MonthlyProjections []ProjectionRow
	IndustryComparison IndustryComparison
	RiskFactors        []RiskFactor
	Recommendations    []Recommendation
	Warnings           []ValidationError
}

// number encodes NaN and ±Inf as null; encoding/json rejects them otherwise.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func optionalNumber(v *float64) *number {
	if v == nil {
		return nil
	}
	n := number(*v)
	return &n
}

func (b CostBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Marketing       number `json:"marketing"`
		Operations      number `json:"operations"`
		Employees       number `json:"employees"`
		Taxes           number `json:"taxes"`
		Additional      number `json:"additional"`
		CountryEstimate number `json:"countryEstimate"`
	}{
		number(b.Marketing), number(b.Operations), number(b.Employees),
		number(b.Taxes), number(b.Additional), number(b.CountryEstimate),
	})
}

func (r ProjectionRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Month         int    `json:"month"`
		Revenue       number `json:"revenue"`
		Costs         number `json:"costs"`
		NetProfit     number `json:"netProfit"`
		CumulativeROI number `json:"cumulativeROI"`
	}{r.Month, number(r.Revenue), number(r.Costs), number(r.NetProfit), number(r.CumulativeROI)})
}

func (c IndustryComparison) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RevenueVsBenchmark number `json:"revenueVsBenchmark"`
		MarginVsBenchmark  number `json:"marginVsBenchmark"`
		GrowthVsBenchmark  number `json:"growthVsBenchmark"`
	}{number(c.RevenueVsBenchmark), number(c.MarginVsBenchmark), number(c.GrowthVsBenchmark)})
}

func (r Results) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ROI                   number             `json:"roi"`
		NetProfit             number             `json:"netProfit"`
		GrossProfit           number             `json:"grossProfit"`
		TotalRevenue          number             `json:"totalRevenue"`
		TotalCosts            number             `json:"totalCosts"`
		TaxAmount             number             `json:"taxAmount"`
		AfterTaxProfit        number             `json:"afterTaxProfit"`
		EffectiveTaxRate      number             `json:"effectiveTaxRate"`
		CustomerLifetimeValue *number            `json:"customerLifetimeValue,omitempty"`
		PaybackPeriod         *number            `json:"paybackPeriod,omitempty"`
		CustomersNeeded       *int               `json:"customersNeeded,omitempty"`
		InitialInvestment     number             `json:"initialInvestment"`
		MonthlyNetCashFlow    number             `json:"monthlyNetCashFlow"`
		BreakEvenMonth        *int               `json:"breakEvenMonth,omitempty"`
		CostBreakdown         CostBreakdown      `json:"costBreakdown"`
		MonthlyProjections    []ProjectionRow    `json:"monthlyProjections"`
		IndustryComparison    IndustryComparison `json:"industryComparison"`
		RiskFactors           []RiskFactor       `json:"riskFactors"`
		Recommendations       []Recommendation   `json:"recommendations"`
		Warnings              []ValidationError  `json:"warnings"`
	}{
		ROI:                   number(r.ROI),
		NetProfit:             number(r.NetProfit),
		GrossProfit:           number(r.GrossProfit),
		TotalRevenue:          number(r.TotalRevenue),
		TotalCosts:            number(r.TotalCosts),
		TaxAmount:             number(r.TaxAmount),
		AfterTaxProfit:        number(r.AfterTaxProfit),
		EffectiveTaxRate:      number(r.EffectiveTaxRate),
		CustomerLifetimeValue: optionalNumber(r.CustomerLifetimeValue),
		PaybackPeriod:         optionalNumber(r.PaybackPeriod),
		CustomersNeeded:       r.CustomersNeeded,
		InitialInvestment:     number(r.InitialInvestment),
		MonthlyNetCashFlow:    number(r.MonthlyNetCashFlow),
		BreakEvenMonth:        r.BreakEvenMonth,
		CostBreakdown:         r.CostBreakdown,
		MonthlyProjections:    r.MonthlyProjections,
		IndustryComparison:    r.IndustryComparison,
		RiskFactors:           r.RiskFactors,
		Recommendations:       r.Recommendations,
		Warnings:              r.Warnings,
	})
}
