package reference

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a country or scenario id does not resolve.
var ErrNotFound = errors.New("reference: not found")

// TaxRates holds a country's tax profile. All values are percents.
type TaxRates struct {
	CorporateTax      float64  `json:"corporateTax" yaml:"corporate_tax"`
	PersonalIncomeMin float64  `json:"personalIncomeMin" yaml:"personal_income_min"`
	PersonalIncomeMax float64  `json:"personalIncomeMax" yaml:"personal_income_max"`
	CapitalGainsTax   float64  `json:"capitalGainsTax" yaml:"capital_gains_tax"`
	DividendTax       float64  `json:"dividendTax" yaml:"dividend_tax"`
	PayrollTax        *float64 `json:"payrollTax,omitempty" yaml:"payroll_tax"`
}

// OperatingCosts are the country's average operating-cost ratios.
type OperatingCosts struct {
	RentPerSqm       float64 `json:"rent" yaml:"rent"`
	UtilitiesPercent float64 `json:"utilities" yaml:"utilities"`
	InternetMonthly  float64 `json:"internet" yaml:"internet"`
	InsurancePercent float64 `json:"insurance" yaml:"insurance"`
}

// EconomicIndicators describes the macro environment of a country.
type EconomicIndicators struct {
	InflationRate    float64 `json:"inflationRate" yaml:"inflation_rate"`
	GDPGrowthRate    float64 `json:"gdpGrowthRate" yaml:"gdp_growth_rate"`
	UnemploymentRate float64 `json:"unemploymentRate" yaml:"unemployment_rate"`
	BusinessEaseRank int     `json:"businessEaseRank" yaml:"business_ease_rank"`
}

// Country is the tax and cost profile of a country.
type Country struct {
	ID                       string             `json:"id" yaml:"id"`
	Name                     string             `json:"name" yaml:"name"`
	Code                     string             `json:"code" yaml:"code"`
	Currency                 string             `json:"currency" yaml:"currency"`
	CurrencySymbol           string             `json:"currencySymbol" yaml:"currency_symbol"`
	TaxRates                 TaxRates           `json:"taxRates" yaml:"tax_rates"`
	VATRate                  *float64           `json:"vatRate,omitempty" yaml:"vat_rate"`
	FiscalYearEnd            string             `json:"fiscalYearEnd" yaml:"fiscal_year_end"`
	BusinessRegistrationCost float64            `json:"businessRegistrationCost" yaml:"business_registration_cost"`
	MinimumWage              *float64           `json:"minimumWage,omitempty" yaml:"minimum_wage"`
	OperatingCosts           OperatingCosts     `json:"averageOperatingCosts" yaml:"operating_costs"`
	Indicators               EconomicIndicators `json:"economicIndicators" yaml:"economic_indicators"`
	Active                   bool               `json:"active" yaml:"active"`
}

// DefaultInputs is the baseline a scenario compares user inputs against.
type DefaultInputs struct {
	MonthlyRevenue    float64  `json:"monthlyRevenue" yaml:"monthly_revenue"`
	GrossMargin       float64  `json:"grossMargin" yaml:"gross_margin"`
	MarketingBudget   float64  `json:"marketingBudget" yaml:"marketing_budget"`
	OperatingExpenses float64  `json:"operatingExpenses" yaml:"operating_expenses"`
	EmployeeCosts     *float64 `json:"employeeCosts,omitempty" yaml:"employee_costs"`
	CAC               *float64 `json:"cac,omitempty" yaml:"cac"`
	AverageOrderValue *float64 `json:"averageOrderValue,omitempty" yaml:"average_order_value"`
	ChurnRate         *float64 `json:"churnRate,omitempty" yaml:"churn_rate"`
}

// Assumptions carries the scenario's growth baseline and industry KPIs.
type Assumptions struct {
	GrowthRate         float64            `json:"growthRate" yaml:"growth_rate"`
	Seasonality        map[string]float64 `json:"seasonality,omitempty" yaml:"seasonality"`
	IndustryBenchmarks map[string]float64 `json:"industryBenchmarks" yaml:"industry_benchmarks"`
}

// Scenario is a business scenario profile within a business type.
type Scenario struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Description   string        `json:"description" yaml:"description"`
	DefaultInputs DefaultInputs `json:"defaultInputs" yaml:"default_inputs"`
	Assumptions   Assumptions   `json:"assumptions" yaml:"assumptions"`
}

// BusinessType groups related scenarios.
type BusinessType struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Category    string     `json:"category" yaml:"category"`
	Scenarios   []Scenario `json:"scenarios" yaml:"scenarios"`
}

// Provider resolves the reference records the calculation engine needs.
type Provider interface {
	CountryByID(ctx context.Context, id string) (Country, error)
	ScenarioByID(ctx context.Context, businessTypeID, scenarioID string) (Scenario, error)
}

// Source is a Provider that also lists and searches the reference data.
// Both Catalog and Store implement it.
type Source interface {
	Provider
	CountryByCode(ctx context.Context, code string) (Country, error)
	ListCountries(ctx context.Context) ([]Country, error)
	SearchCountries(ctx context.Context, query string) ([]Country, error)
	ListBusinessTypes(ctx context.Context) ([]BusinessType, error)
}

var (
	_ Source = (*Catalog)(nil)
	_ Source = (*Store)(nil)
)
