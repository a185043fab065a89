package seed

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Simplici0/roicalc/internal/reference"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
	Skipped int
}

// Run loads the catalog into the reference tables. Missing rows are inserted,
// rows whose catalog values changed are updated and identical rows are skipped,
// so the catalog stays the source of truth across restarts.
func Run(db *sql.DB, catalog *reference.Catalog) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, country := range catalog.AllCountries() {
		if err := ensureCountry(tx, country, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}
	for i, bt := range catalog.BusinessTypes() {
		if err := ensureBusinessType(tx, bt, i, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
		for j, scenario := range bt.Scenarios {
			if err := ensureScenario(tx, bt.ID, scenario, j, &stats); err != nil {
				_ = tx.Rollback()
				return Stats{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

var (
	countryUpsert = upsertStatement("countries", []string{"id"}, []string{
		"name", "code", "currency", "currency_symbol",
		"corporate_tax", "personal_income_min", "personal_income_max", "capital_gains_tax", "dividend_tax", "payroll_tax",
		"vat_rate", "fiscal_year_end", "business_registration_cost", "minimum_wage",
		"rent_per_sqm", "utilities_percent", "internet_monthly", "insurance_percent",
		"inflation_rate", "gdp_growth_rate", "unemployment_rate", "business_ease_rank",
		"active",
	}, "updated_at = CURRENT_TIMESTAMP")

	businessTypeUpsert = upsertStatement("business_types", []string{"id"}, []string{
		"name", "description", "category", "position",
	}, "")

	scenarioUpsert = upsertStatement("scenarios", []string{"business_type_id", "id"}, []string{
		"name", "description", "position",
		"monthly_revenue", "gross_margin", "marketing_budget", "operating_expenses",
		"employee_costs", "cac", "average_order_value", "churn_rate",
		"growth_rate", "seasonality_json", "benchmarks_json",
	}, "")
)

// upsertStatement builds an INSERT that updates a conflicting row only when one
// of the value columns differs, so RowsAffected is 0 for unchanged rows.
func upsertStatement(table string, keys, values []string, extraSet string) string {
	columns := append(append([]string{}, keys...), values...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	sets := make([]string, 0, len(values)+1)
	changed := make([]string, 0, len(values))
	for _, col := range values {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", col, col))
		changed = append(changed, fmt.Sprintf("%s.%s IS NOT excluded.%s", table, col, col))
	}
	if extraSet != "" {
		sets = append(sets, extraSet)
	}

	return fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		ON CONFLICT(%s) DO UPDATE SET %s
		WHERE %s
	`, table, strings.Join(columns, ", "), placeholders,
		strings.Join(keys, ", "), strings.Join(sets, ", "), strings.Join(changed, " OR "))
}

func ensureCountry(tx *sql.Tx, c reference.Country, stats *Stats) error {
	exists, err := rowExists(tx, `SELECT EXISTS(SELECT 1 FROM countries WHERE id = ?)`, c.ID)
	if err != nil {
		return fmt.Errorf("check country %q: %w", c.ID, err)
	}

	result, err := tx.Exec(countryUpsert,
		c.ID, c.Name, c.Code, c.Currency, c.CurrencySymbol,
		c.TaxRates.CorporateTax, c.TaxRates.PersonalIncomeMin, c.TaxRates.PersonalIncomeMax,
		c.TaxRates.CapitalGainsTax, c.TaxRates.DividendTax, nullable(c.TaxRates.PayrollTax),
		nullable(c.VATRate), c.FiscalYearEnd, c.BusinessRegistrationCost, nullable(c.MinimumWage),
		c.OperatingCosts.RentPerSqm, c.OperatingCosts.UtilitiesPercent,
		c.OperatingCosts.InternetMonthly, c.OperatingCosts.InsurancePercent,
		c.Indicators.InflationRate, c.Indicators.GDPGrowthRate,
		c.Indicators.UnemploymentRate, c.Indicators.BusinessEaseRank,
		c.Active,
	)
	if err != nil {
		return fmt.Errorf("upsert country %q: %w", c.ID, err)
	}
	return count(result, exists, stats, "country "+c.ID)
}

func ensureBusinessType(tx *sql.Tx, bt reference.BusinessType, position int, stats *Stats) error {
	exists, err := rowExists(tx, `SELECT EXISTS(SELECT 1 FROM business_types WHERE id = ?)`, bt.ID)
	if err != nil {
		return fmt.Errorf("check business type %q: %w", bt.ID, err)
	}

	result, err := tx.Exec(businessTypeUpsert, bt.ID, bt.Name, bt.Description, bt.Category, position)
	if err != nil {
		return fmt.Errorf("upsert business type %q: %w", bt.ID, err)
	}
	return count(result, exists, stats, "business type "+bt.ID)
}

func ensureScenario(tx *sql.Tx, businessTypeID string, s reference.Scenario, position int, stats *Stats) error {
	benchmarks, err := json.Marshal(nonNilMap(s.Assumptions.IndustryBenchmarks))
	if err != nil {
		return fmt.Errorf("encode benchmarks of scenario %q: %w", s.ID, err)
	}
	seasonality, err := json.Marshal(nonNilMap(s.Assumptions.Seasonality))
	if err != nil {
		return fmt.Errorf("encode seasonality of scenario %q: %w", s.ID, err)
	}

	exists, err := rowExists(tx, `SELECT EXISTS(SELECT 1 FROM scenarios WHERE business_type_id = ? AND id = ?)`, businessTypeID, s.ID)
	if err != nil {
		return fmt.Errorf("check scenario %q/%q: %w", businessTypeID, s.ID, err)
	}

	d := s.DefaultInputs
	result, err := tx.Exec(scenarioUpsert,
		businessTypeID, s.ID, s.Name, s.Description, position,
		d.MonthlyRevenue, d.GrossMargin, d.MarketingBudget, d.OperatingExpenses,
		nullable(d.EmployeeCosts), nullable(d.CAC), nullable(d.AverageOrderValue), nullable(d.ChurnRate),
		s.Assumptions.GrowthRate, string(seasonality), string(benchmarks),
	)
	if err != nil {
		return fmt.Errorf("upsert scenario %q/%q: %w", businessTypeID, s.ID, err)
	}
	return count(result, exists, stats, "scenario "+businessTypeID+"/"+s.ID)
}

func rowExists(tx *sql.Tx, query string, args ...any) (bool, error) {
	var exists bool
	if err := tx.QueryRow(query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func count(result sql.Result, existed bool, stats *Stats, what string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", what, err)
	}
	switch {
	case affected == 0:
		stats.Skipped++
	case existed:
		stats.Updates++
	default:
		stats.Inserts++
	}
	return nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nonNilMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}
