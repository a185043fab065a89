package roi

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
)

func profitableInputs() Inputs {
	return Inputs{
		MonthlyRevenue:    10000,
		GrossMargin:       50,
		MarketingBudget:   1000,
		OperatingExpenses: 1000,
		Timeframe:         Monthly,
		ProjectionMonths:  12,
		InitialInvestment: Float(23700),
	}
}

func TestCountrySpecificCosts_FourTermEstimate(t *testing.T) {
	got := CountrySpecificCosts(saasInputs(), usCountry())

	rent := 35.0 * 100
	utilities := rent * 0.15
	internet := 80.0
	insurance := 5000 * 0.025
	nearlyEqual(t, "countrySpecificCosts", got, rent+utilities+internet+insurance)
	nearlyEqual(t, "countrySpecificCosts", got, 4230)
}

func TestAggregateCosts_IncludesAdditionalCosts(t *testing.T) {
	in := saasInputs()
	in.AdditionalCosts = map[string]float64{"software": 250.5, "legal": 100}

	costs := AggregateCosts(in, costFreeCountry(0))

	nearlyEqual(t, "additional", costs.Additional, 350.5)
	nearlyEqual(t, "total", costs.Total, 2000+3000+8000+350.5)
}

func TestCalculate_SaaSScenarioAgainstUS(t *testing.T) {
	results, err := Calculate(saasInputs(), usCountry(), saasScenario())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	nearlyEqual(t, "grossProfit", results.GrossProfit, 4250)
	nearlyEqual(t, "totalCosts", results.TotalCosts, 2000+3000+8000+4230)
	nearlyEqual(t, "taxAmount", results.TaxAmount, 0)
	nearlyEqual(t, "afterTaxProfit", results.AfterTaxProfit, 4250-17230)
	nearlyEqual(t, "netProfit", results.NetProfit, results.AfterTaxProfit)
	nearlyEqual(t, "monthlyNetCashFlow", results.MonthlyNetCashFlow, results.AfterTaxProfit)
	nearlyEqual(t, "initialInvestment", results.InitialInvestment, 5000*3+5)
	nearlyEqual(t, "roi", results.ROI, -12980.0/15005.0*100)
	nearlyEqual(t, "revenueVsBenchmark", results.IndustryComparison.RevenueVsBenchmark, 0)
	nearlyEqual(t, "marginVsBenchmark", results.IndustryComparison.MarginVsBenchmark, 0)
	nearlyEqual(t, "growthVsBenchmark", results.IndustryComparison.GrowthVsBenchmark, 0)

	if len(results.MonthlyProjections) != 12 {
		t.Fatalf("expected 12 projection rows, got %d", len(results.MonthlyProjections))
	}
	if results.BreakEvenMonth != nil {
		t.Fatalf("expected no break-even month, got %d", *results.BreakEvenMonth)
	}
	if len(results.RiskFactors) != 0 {
		t.Fatalf("expected no risk factors, got %+v", results.RiskFactors)
	}
	if results.CustomerLifetimeValue != nil || results.PaybackPeriod != nil || results.CustomersNeeded != nil {
		t.Fatalf("expected no customer metrics without customer inputs")
	}
}

func TestCalculate_ProfitableBusiness(t *testing.T) {
	results, err := Calculate(profitableInputs(), costFreeCountry(21), saasScenario())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	nearlyEqual(t, "grossProfit", results.GrossProfit, 5000)
	nearlyEqual(t, "taxAmount", results.TaxAmount, 630)
	nearlyEqual(t, "afterTaxProfit", results.AfterTaxProfit, 2370)
	nearlyEqual(t, "effectiveTaxRate", results.EffectiveTaxRate, 21)
	nearlyEqual(t, "roi", results.ROI, 10)
	nearlyEqual(t, "costBreakdown.taxes", results.CostBreakdown.Taxes, 630)

	if results.BreakEvenMonth == nil || *results.BreakEvenMonth != 1 {
		t.Fatalf("expected break-even in month 1, got %v", results.BreakEvenMonth)
	}
}

func TestCalculate_TaxScalesWithRateAndSkipsLosses(t *testing.T) {
	low, err := Calculate(profitableInputs(), costFreeCountry(21), saasScenario())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	high, err := Calculate(profitableInputs(), costFreeCountry(42), saasScenario())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	nearlyEqual(t, "doubled tax", high.TaxAmount, 2*low.TaxAmount)

	losing := profitableInputs()
	losing.MarketingBudget = 9000
	loss, err := Calculate(losing, costFreeCountry(42), saasScenario())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if loss.TaxAmount != 0 {
		t.Fatalf("expected no tax on a loss, got %v", loss.TaxAmount)
	}
	if loss.EffectiveTaxRate != 0 {
		t.Fatalf("expected zero effective rate on a loss, got %v", loss.EffectiveTaxRate)
	}
}

func TestCalculate_ZeroPretaxProfitYieldsNaNEffectiveRate(t *testing.T) {
	in := profitableInputs()
	in.MarketingBudget = 4000

	results, err := Calculate(in, costFreeCountry(21), saasScenario())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !math.IsNaN(results.EffectiveTaxRate) {
		t.Fatalf("expected NaN effective tax rate, got %v", results.EffectiveTaxRate)
	}

	body, err := json.Marshal(results)
	if err != nil {
		t.Fatalf("marshal results: %v", err)
	}
	if !strings.Contains(string(body), `"effectiveTaxRate":null`) {
		t.Fatalf("expected null effective tax rate in %s", body)
	}
}

func TestCalculate_ZeroDeclaredInvestment(t *testing.T) {
	in := profitableInputs()
	in.InitialInvestment = Float(0)

	results, err := Calculate(in, costFreeCountry(21), saasScenario())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if results.ROI != 0 {
		t.Fatalf("expected ROI guarded to 0, got %v", results.ROI)
	}
	if !math.IsInf(results.MonthlyProjections[0].CumulativeROI, 1) {
		t.Fatalf("expected +Inf cumulative ROI, got %v", results.MonthlyProjections[0].CumulativeROI)
	}
	if _, err := json.Marshal(results); err != nil {
		t.Fatalf("marshal results with infinite values: %v", err)
	}
}

func TestCalculate_CustomerMetrics(t *testing.T) {
	in := saasInputs()
	in.CAC = Float(150)
	in.AverageOrderValue = Float(49)
	in.ChurnRate = Float(8)

	results, err := Calculate(in, usCountry(), saasScenario())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if results.CustomerLifetimeValue == nil || results.PaybackPeriod == nil || results.CustomersNeeded == nil {
		t.Fatalf("expected all customer metrics, got %+v", results)
	}
	nearlyEqual(t, "ltv", *results.CustomerLifetimeValue, 520.625)
	nearlyEqual(t, "paybackPeriod", *results.PaybackPeriod, 150/(49*0.85))
	if *results.CustomersNeeded != 103 {
		t.Fatalf("customersNeeded = %d, want 103", *results.CustomersNeeded)
	}
}

func TestCalculate_CustomerMetricsAreIndependentlyOptional(t *testing.T) {
	in := saasInputs()
	in.CAC = Float(150)
	in.AverageOrderValue = Float(49)

	results, err := Calculate(in, usCountry(), saasScenario())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if results.CustomerLifetimeValue != nil {
		t.Fatalf("expected no LTV without churn")
	}
	if results.PaybackPeriod != nil {
		t.Fatalf("expected no payback period without LTV")
	}
	if results.CustomersNeeded == nil || *results.CustomersNeeded != 103 {
		t.Fatalf("expected customersNeeded 103, got %v", results.CustomersNeeded)
	}
}

func TestCalculate_IsDeterministic(t *testing.T) {
	in := saasInputs()
	in.AdditionalCosts = map[string]float64{"a": 0.1, "b": 0.2, "c": 0.3, "d": 1e-7}
	in.AverageOrderValue = Float(49)

	first, err := Calculate(in, usCountry(), saasScenario())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Calculate(in, usCountry(), saasScenario())
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("results differ between identical calls")
		}
	}
}
