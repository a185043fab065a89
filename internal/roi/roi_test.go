package roi

import (
	"math"
	"testing"

	"github.com/Simplici0/roicalc/internal/reference"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func usCountry() reference.Country {
	return reference.Country{
		ID:                       "us",
		Name:                     "United States",
		Code:                     "US",
		Currency:                 "USD",
		CurrencySymbol:           "$",
		TaxRates:                 reference.TaxRates{CorporateTax: 21},
		BusinessRegistrationCost: 500,
		OperatingCosts: reference.OperatingCosts{
			RentPerSqm:       35,
			UtilitiesPercent: 15,
			InternetMonthly:  80,
			InsurancePercent: 2.5,
		},
		Indicators: reference.EconomicIndicators{InflationRate: 3.2},
		Active:     true,
	}
}

// costFreeCountry has no operating-cost estimate, which keeps profit arithmetic readable.
func costFreeCountry(corporateTax float64) reference.Country {
	return reference.Country{ID: "zz", TaxRates: reference.TaxRates{CorporateTax: corporateTax}}
}

func saasScenario() reference.Scenario {
	return reference.Scenario{
		ID: "saas-mvp",
		DefaultInputs: reference.DefaultInputs{
			MonthlyRevenue:    5000,
			GrossMargin:       85,
			MarketingBudget:   2000,
			OperatingExpenses: 3000,
			EmployeeCosts:     Float(8000),
			CAC:               Float(150),
			AverageOrderValue: Float(49),
			ChurnRate:         Float(8),
		},
		Assumptions: reference.Assumptions{
			GrowthRate:         15,
			IndustryBenchmarks: map[string]float64{"ltv": 600, "paybackPeriod": 12},
		},
	}
}

func saasInputs() Inputs {
	return Inputs{
		MonthlyRevenue:    5000,
		GrossMargin:       85,
		MarketingBudget:   2000,
		OperatingExpenses: 3000,
		EmployeeCosts:     8000,
		Timeframe:         Monthly,
		ProjectionMonths:  12,
		GrowthRate:        15,
		Country:           "us",
		BusinessType:      "startup-tech",
		Scenario:          "saas-mvp",
	}
}
