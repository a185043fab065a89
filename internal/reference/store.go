package reference

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Store serves reference data from the sqlite database populated by the seed.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const countryColumns = `
	id, name, code, currency, currency_symbol,
	corporate_tax, personal_income_min, personal_income_max, capital_gains_tax, dividend_tax, payroll_tax,
	vat_rate, fiscal_year_end, business_registration_cost, minimum_wage,
	rent_per_sqm, utilities_percent, internet_monthly, insurance_percent,
	inflation_rate, gdp_growth_rate, unemployment_rate, business_ease_rank,
	active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCountry(row rowScanner) (Country, error) {
	var c Country
	var payroll, vat, minWage sql.NullFloat64
	err := row.Scan(
		&c.ID, &c.Name, &c.Code, &c.Currency, &c.CurrencySymbol,
		&c.TaxRates.CorporateTax, &c.TaxRates.PersonalIncomeMin, &c.TaxRates.PersonalIncomeMax,
		&c.TaxRates.CapitalGainsTax, &c.TaxRates.DividendTax, &payroll,
		&vat, &c.FiscalYearEnd, &c.BusinessRegistrationCost, &minWage,
		&c.OperatingCosts.RentPerSqm, &c.OperatingCosts.UtilitiesPercent,
		&c.OperatingCosts.InternetMonthly, &c.OperatingCosts.InsurancePercent,
		&c.Indicators.InflationRate, &c.Indicators.GDPGrowthRate,
		&c.Indicators.UnemploymentRate, &c.Indicators.BusinessEaseRank,
		&c.Active,
	)
	if err != nil {
		return Country{}, err
	}
	c.TaxRates.PayrollTax = nullableFloat(payroll)
	c.VATRate = nullableFloat(vat)
	c.MinimumWage = nullableFloat(minWage)
	return c, nil
}

// CountryByID implements Provider.
func (s *Store) CountryByID(ctx context.Context, id string) (Country, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+countryColumns+` FROM countries WHERE id = ?`, id)
	c, err := scanCountry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Country{}, fmt.Errorf("country %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Country{}, fmt.Errorf("query country %q: %w", id, err)
	}
	return c, nil
}

// CountryByCode looks a country up by its ISO 3166-1 alpha-2 code, ignoring case.
func (s *Store) CountryByCode(ctx context.Context, code string) (Country, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+countryColumns+` FROM countries WHERE code = ? COLLATE NOCASE`, code)
	c, err := scanCountry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Country{}, fmt.Errorf("country code %q: %w", code, ErrNotFound)
	}
	if err != nil {
		return Country{}, fmt.Errorf("query country code %q: %w", code, err)
	}
	return c, nil
}

// ListCountries returns the active countries ordered by name.
func (s *Store) ListCountries(ctx context.Context) ([]Country, error) {
	return s.SearchCountries(ctx, "")
}

// SearchCountries matches active countries by name, code or currency,
// ignoring case, ordered by name. An empty query matches every active country.
func (s *Store) SearchCountries(ctx context.Context, query string) ([]Country, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+countryColumns+`
		FROM countries
		WHERE active
			AND (lower(name) LIKE ? ESCAPE '\'
				OR lower(code) LIKE ? ESCAPE '\'
				OR lower(currency) LIKE ? ESCAPE '\')
		ORDER BY name
	`, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("query countries: %w", err)
	}
	defer rows.Close()

	countries := make([]Country, 0)
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate countries: %w", err)
	}

	return countries, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

const scenarioColumns = `
	business_type_id, id, name, description,
	monthly_revenue, gross_margin, marketing_budget, operating_expenses,
	employee_costs, cac, average_order_value, churn_rate,
	growth_rate, seasonality_json, benchmarks_json`

func scanScenario(row rowScanner) (string, Scenario, error) {
	var businessTypeID string
	var s Scenario
	var employees, cac, aov, churn sql.NullFloat64
	var seasonalityJSON, benchmarksJSON string
	err := row.Scan(
		&businessTypeID, &s.ID, &s.Name, &s.Description,
		&s.DefaultInputs.MonthlyRevenue, &s.DefaultInputs.GrossMargin,
		&s.DefaultInputs.MarketingBudget, &s.DefaultInputs.OperatingExpenses,
		&employees, &cac, &aov, &churn,
		&s.Assumptions.GrowthRate, &seasonalityJSON, &benchmarksJSON,
	)
	if err != nil {
		return "", Scenario{}, err
	}
	s.DefaultInputs.EmployeeCosts = nullableFloat(employees)
	s.DefaultInputs.CAC = nullableFloat(cac)
	s.DefaultInputs.AverageOrderValue = nullableFloat(aov)
	s.DefaultInputs.ChurnRate = nullableFloat(churn)

	if err := json.Unmarshal([]byte(benchmarksJSON), &s.Assumptions.IndustryBenchmarks); err != nil {
		return "", Scenario{}, fmt.Errorf("decode benchmarks of scenario %q: %w", s.ID, err)
	}
	seasonality := map[string]float64{}
	if err := json.Unmarshal([]byte(seasonalityJSON), &seasonality); err != nil {
		return "", Scenario{}, fmt.Errorf("decode seasonality of scenario %q: %w", s.ID, err)
	}
	if len(seasonality) > 0 {
		s.Assumptions.Seasonality = seasonality
	}
	return businessTypeID, s, nil
}

// ScenarioByID implements Provider.
func (s *Store) ScenarioByID(ctx context.Context, businessTypeID, scenarioID string) (Scenario, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+scenarioColumns+`
		FROM scenarios
		WHERE business_type_id = ? AND id = ?
	`, businessTypeID, scenarioID)
	_, scenario, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Scenario{}, fmt.Errorf("scenario %q of business type %q: %w", scenarioID, businessTypeID, ErrNotFound)
	}
	if err != nil {
		return Scenario{}, fmt.Errorf("query scenario %q/%q: %w", businessTypeID, scenarioID, err)
	}
	return scenario, nil
}

// ListBusinessTypes returns every business type with its scenarios, in seed order.
func (s *Store) ListBusinessTypes(ctx context.Context) ([]BusinessType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, category
		FROM business_types
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query business types: %w", err)
	}
	defer rows.Close()

	types := make([]BusinessType, 0)
	index := make(map[string]int)
	for rows.Next() {
		var bt BusinessType
		if err := rows.Scan(&bt.ID, &bt.Name, &bt.Description, &bt.Category); err != nil {
			return nil, fmt.Errorf("scan business type: %w", err)
		}
		bt.Scenarios = make([]Scenario, 0)
		index[bt.ID] = len(types)
		types = append(types, bt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate business types: %w", err)
	}

	scenarioRows, err := s.db.QueryContext(ctx, `
		SELECT `+scenarioColumns+`
		FROM scenarios
		ORDER BY business_type_id, position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer scenarioRows.Close()

	for scenarioRows.Next() {
		businessTypeID, scenario, err := scanScenario(scenarioRows)
		if err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		i, ok := index[businessTypeID]
		if !ok {
			continue
		}
		types[i].Scenarios = append(types[i].Scenarios, scenario)
	}
	if err := scenarioRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", err)
	}

	return types, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
