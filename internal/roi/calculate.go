package roi

import (
	"math"

	"github.com/Simplici0/roicalc/internal/reference"
)

// notionalFloorArea is the floor area, in square metres, assumed when
// estimating rent from a country's per-area rate.
const notionalFloorArea = 100

// Costs is one month of costs before tax.
type Costs struct {
	Marketing       float64
	Operations      float64
	Employees       float64
	Additional      float64
	CountryEstimate float64
	Total           float64
}

// Profit holds the profit and tax figures for one month.
type Profit struct {
	Gross     float64
	BeforeTax float64
	Tax       float64
	AfterTax  float64
}

// CountrySpecificCosts estimates rent, utilities, internet and insurance for a
// business of notional size in the given country.
func CountrySpecificCosts(in Inputs, country reference.Country) float64 {
	oc := country.OperatingCosts

	rent := oc.RentPerSqm * notionalFloorArea
	utilities := rent * (oc.UtilitiesPercent / 100.0)
	internet := oc.InternetMonthly
	insurance := in.MonthlyRevenue * (oc.InsurancePercent / 100.0)

	return rent + utilities + internet + insurance
}

// AggregateCosts sums the declared cost categories and the country estimate.
func AggregateCosts(in Inputs, country reference.Country) Costs {
	c := Costs{
		Marketing:       in.MarketingBudget,
		Operations:      in.OperatingExpenses,
		Employees:       in.EmployeeCosts,
		Additional:      additionalCostsTotal(in),
		CountryEstimate: CountrySpecificCosts(in, country),
	}
	c.Total = c.Marketing + c.Operations + c.Employees + c.Additional + c.CountryEstimate
	return c
}

// corporateTax returns the tax due on a pre-tax profit. Losses are not taxed
// and earn no refund.
func corporateTax(netProfitBeforeTax, ratePercent float64) float64 {
	if netProfitBeforeTax <= 0 {
		return 0
	}
	return netProfitBeforeTax * (ratePercent / 100.0)
}

func resolveProfit(revenue, grossMargin, costs, taxRate float64) Profit {
	p := Profit{Gross: revenue * (grossMargin / 100.0)}
	p.BeforeTax = p.Gross - costs
	p.Tax = corporateTax(p.BeforeTax, taxRate)
	p.AfterTax = p.BeforeTax - p.Tax
	return p
}

// InitialInvestment returns the declared investment, or three months of
// revenue plus a scaled registration cost when none was declared.
func InitialInvestment(in Inputs, country reference.Country) float64 {
	if in.InitialInvestment != nil {
		return *in.InitialInvestment
	}
	return in.MonthlyRevenue*3 + country.BusinessRegistrationCost/100
}

func returnOnInvestment(afterTaxProfit, investment float64) float64 {
	if investment == 0 {
		return 0
	}
	return (afterTaxProfit / investment) * 100
}

// LTV is the gross-margin value of a customer over an average lifetime of
// 1/churn months.
func LTV(averageOrderValue, grossMargin, churnRate float64) float64 {
	lifetimeMonths := 1 / (churnRate / 100)
	return averageOrderValue * (grossMargin / 100) * lifetimeMonths
}

// PaybackPeriod is the number of months of per-customer margin needed to repay CAC.
func PaybackPeriod(cac, monthlyMarginPerCustomer float64) float64 {
	return cac / monthlyMarginPerCustomer
}

type customerMetrics struct {
	ltv             *float64
	paybackPeriod   *float64
	customersNeeded *int
}

func resolveCustomerMetrics(in Inputs) customerMetrics {
	var m customerMetrics

	if present(in.AverageOrderValue) && present(in.ChurnRate) {
		ltv := LTV(*in.AverageOrderValue, in.GrossMargin, *in.ChurnRate)
		m.ltv = &ltv
	}

	if present(in.CAC) && m.ltv != nil {
		aov := 0.0
		if in.AverageOrderValue != nil {
			aov = *in.AverageOrderValue
		}
		payback := PaybackPeriod(*in.CAC, aov*(in.GrossMargin/100))
		m.paybackPeriod = &payback
	}

	if present(in.AverageOrderValue) {
		customers := int(math.Ceil(in.MonthlyRevenue / *in.AverageOrderValue))
		m.customersNeeded = &customers
	}

	return m
}

// Calculate runs the full engine: validation, costs, profit and tax, ROI and
// customer economics, projections, benchmarks and insights. It returns an
// *InputError when validation finds blocking problems.
//
// Degenerate divisions are not guarded except ROI on a zero investment: the
// effective tax rate is NaN or -0 when pre-tax profit is not positive.
func Calculate(in Inputs, country reference.Country, scenario reference.Scenario) (Results, error) {
	findings := Validate(in)
	if HasErrors(findings) {
		return Results{}, &InputError{Errors: Blocking(findings)}
	}

	costs := AggregateCosts(in, country)
	corporateRate := country.TaxRates.CorporateTax
	profit := resolveProfit(in.MonthlyRevenue, in.GrossMargin, costs.Total, corporateRate)

	investment := InitialInvestment(in, country)
	customers := resolveCustomerMetrics(in)

	projections := Project(in, costs.Total, investment, corporateRate)

	return Results{
		ROI:          returnOnInvestment(profit.AfterTax, investment),
		NetProfit:    profit.AfterTax,
		GrossProfit:  profit.Gross,
		TotalRevenue: in.MonthlyRevenue,
		TotalCosts:   costs.Total,

		TaxAmount:        profit.Tax,
		AfterTaxProfit:   profit.AfterTax,
		EffectiveTaxRate: (profit.Tax / profit.BeforeTax) * 100,

		CustomerLifetimeValue: customers.ltv,
		PaybackPeriod:         customers.paybackPeriod,
		CustomersNeeded:       customers.customersNeeded,

		InitialInvestment:  investment,
		MonthlyNetCashFlow: profit.AfterTax,
		BreakEvenMonth:     BreakEvenMonth(projections),

		CostBreakdown: CostBreakdown{
			Marketing:       costs.Marketing,
			Operations:      costs.Operations,
			Employees:       costs.Employees,
			Taxes:           profit.Tax,
			Additional:      costs.Additional,
			CountryEstimate: costs.CountryEstimate,
		},
		MonthlyProjections: projections,
		IndustryComparison: CompareToBenchmarks(in, scenario),
		RiskFactors:        AnalyzeRisks(in, country),
		Recommendations:    Recommend(in, country, scenario),
		Warnings:           bySeverity(findings, SeverityWarning),
	}, nil
}
