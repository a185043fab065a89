package roi

import "github.com/Simplici0/roicalc/internal/reference"

// CompareToBenchmarks returns the signed percent difference of the inputs
// against the scenario's default inputs and baseline growth.
func CompareToBenchmarks(in Inputs, scenario reference.Scenario) IndustryComparison {
	base := scenario.DefaultInputs
	return IndustryComparison{
		RevenueVsBenchmark: percentDelta(in.MonthlyRevenue, base.MonthlyRevenue),
		MarginVsBenchmark:  percentDelta(in.GrossMargin, base.GrossMargin),
		GrowthVsBenchmark:  percentDelta(in.GrowthRate, scenario.Assumptions.GrowthRate),
	}
}

func percentDelta(value, baseline float64) float64 {
	return (value - baseline) / baseline * 100
}

type insightInput struct {
	in       Inputs
	country  reference.Country
	scenario reference.Scenario
}

func (x insightInput) churnAbove(threshold float64) bool {
	return present(x.in.ChurnRate) && *x.in.ChurnRate > threshold
}

type riskRule struct {
	risk    RiskFactor
	applies func(insightInput) bool
}

var riskRules = []riskRule{
	{
		risk: RiskFactor{
			Factor:      "High Growth Rate",
			Impact:      ImpactMedium,
			Description: "Aggressive growth targets may be difficult to sustain and require significant investment.",
		},
		applies: func(x insightInput) bool { return x.in.GrowthRate > 25 },
	},
	{
		risk: RiskFactor{
			Factor:      "High Churn Rate",
			Impact:      ImpactHigh,
			Description: "High customer churn points to product-market fit or customer satisfaction issues.",
		},
		applies: func(x insightInput) bool { return x.churnAbove(10) },
	},
	{
		risk: RiskFactor{
			Factor:      "Low Gross Margin",
			Impact:      ImpactMedium,
			Description: "Low margins leave little buffer for unexpected costs or market changes.",
		},
		applies: func(x insightInput) bool { return x.in.GrossMargin < 30 },
	},
	{
		risk: RiskFactor{
			Factor:      "High Inflation Environment",
			Impact:      ImpactMedium,
			Description: "High inflation may raise costs and weaken customer purchasing power.",
		},
		applies: func(x insightInput) bool { return x.country.Indicators.InflationRate > 5 },
	},
	{
		risk: RiskFactor{
			Factor:      "High Tax Burden",
			Impact:      ImpactMedium,
			Description: "High corporate tax rates reduce after-tax profitability and cash flow.",
		},
		applies: func(x insightInput) bool { return x.country.TaxRates.CorporateTax > 30 },
	},
}

type recommendationRule struct {
	recommendation Recommendation
	applies        func(insightInput) bool
}

var recommendationRules = []recommendationRule{
	{
		recommendation: Recommendation{
			Category:        "Pricing Strategy",
			Suggestion:      "Consider raising prices or reducing cost of goods sold to improve gross margin",
			PotentialImpact: "Could increase monthly profit by 15-25%",
		},
		applies: func(x insightInput) bool { return x.in.GrossMargin < x.scenario.DefaultInputs.GrossMargin },
	},
	{
		recommendation: Recommendation{
			Category:        "Marketing Efficiency",
			Suggestion:      "Marketing spend is high relative to revenue. Focus on conversion rates and lowering CAC",
			PotentialImpact: "Could reduce costs by 20-30% while maintaining growth",
		},
		applies: func(x insightInput) bool { return x.in.MarketingBudget > x.in.MonthlyRevenue*0.4 },
	},
	{
		recommendation: Recommendation{
			Category:        "Customer Retention",
			Suggestion:      "Implement customer success programs to reduce churn",
			PotentialImpact: "Reducing churn by 5% could increase LTV by 50%+",
		},
		applies: func(x insightInput) bool { return x.churnAbove(8) },
	},
	{
		recommendation: Recommendation{
			Category:        "Growth Acceleration",
			Suggestion:      "Consider increasing marketing investment or expanding to new channels",
			PotentialImpact: "Could accelerate revenue growth by 10-20%",
		},
		applies: func(x insightInput) bool { return x.in.GrowthRate < x.scenario.Assumptions.GrowthRate },
	},
	{
		recommendation: Recommendation{
			Category:        "Tax Planning",
			Suggestion:      "Explore tax-efficient business structures and deductions available in your country",
			PotentialImpact: "Could reduce effective tax rate by 5-10%",
		},
		applies: func(x insightInput) bool { return x.country.TaxRates.CorporateTax > 25 },
	},
}

// AnalyzeRisks returns the risk factors triggered by the inputs and country, in rule order.
func AnalyzeRisks(in Inputs, country reference.Country) []RiskFactor {
	x := insightInput{in: in, country: country}
	risks := make([]RiskFactor, 0)
	for _, rule := range riskRules {
		if rule.applies(x) {
			risks = append(risks, rule.risk)
		}
	}
	return risks
}

// Recommend returns the recommendations triggered by the inputs, country and scenario, in rule order.
func Recommend(in Inputs, country reference.Country, scenario reference.Scenario) []Recommendation {
	x := insightInput{in: in, country: country, scenario: scenario}
	recommendations := make([]Recommendation, 0)
	for _, rule := range recommendationRules {
		if rule.applies(x) {
			recommendations = append(recommendations, rule.recommendation)
		}
	}
	return recommendations
}
