package roi

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

const notAvailable = "N/A"

// Format renders the headline figures of r for display. Money is shown
// without decimals, percents with one decimal.
func Format(r Results, currencySymbol string) map[string]string {
	out := map[string]string{
		"roi":                   FormatPercent(r.ROI),
		"netProfit":             FormatMoney(r.NetProfit, currencySymbol),
		"grossProfit":           FormatMoney(r.GrossProfit, currencySymbol),
		"totalRevenue":          FormatMoney(r.TotalRevenue, currencySymbol),
		"totalCosts":            FormatMoney(r.TotalCosts, currencySymbol),
		"taxAmount":             FormatMoney(r.TaxAmount, currencySymbol),
		"afterTaxProfit":        FormatMoney(r.AfterTaxProfit, currencySymbol),
		"effectiveTaxRate":      FormatPercent(r.EffectiveTaxRate),
		"initialInvestment":     FormatMoney(r.InitialInvestment, currencySymbol),
		"monthlyNetCashFlow":    FormatMoney(r.MonthlyNetCashFlow, currencySymbol),
		"customerLifetimeValue": notAvailable,
		"paybackPeriod":         notAvailable,
		"customersNeeded":       notAvailable,
		"breakEvenMonth":        "Not within projection period",
	}

	if v := r.CustomerLifetimeValue; v != nil && *v != 0 {
		out["customerLifetimeValue"] = FormatMoney(*v, currencySymbol)
	}
	if v := r.PaybackPeriod; v != nil && *v != 0 && isFinite(*v) {
		out["paybackPeriod"] = strconv.FormatFloat(*v, 'f', 1, 64) + " months"
	}
	if v := r.CustomersNeeded; v != nil {
		out["customersNeeded"] = humanize.Comma(int64(*v))
	}
	if r.BreakEvenMonth != nil {
		out["breakEvenMonth"] = "Month " + strconv.Itoa(*r.BreakEvenMonth)
	}

	return out
}

// FormatMoney renders v as a whole amount with thousands separators.
func FormatMoney(v float64, currencySymbol string) string {
	if !isFinite(v) {
		return notAvailable
	}
	if v < 0 {
		return "-" + currencySymbol + humanize.FormatFloat("#,###.", -v)
	}
	return currencySymbol + humanize.FormatFloat("#,###.", v)
}

// FormatPercent renders a percent value with one decimal.
func FormatPercent(v float64) string {
	if !isFinite(v) {
		return notAvailable
	}
	return humanize.FormatFloat("#,###.#", v) + "%"
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
