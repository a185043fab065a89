package roi

import "math"

// Project forecasts in.ProjectionMonths months. Revenue and the baseline
// costs compound with the same monthly growth multiplier; month 1 is uncompounded.
func Project(in Inputs, baselineCosts, investment, corporateRate float64) []ProjectionRow {
	rows := make([]ProjectionRow, 0, max(in.ProjectionMonths, 0))
	growth := in.GrowthRate / 100
	cumulativeProfit := 0.0

	for month := 1; month <= in.ProjectionMonths; month++ {
		multiplier := math.Pow(1+growth, float64(month-1))
		revenue := in.MonthlyRevenue * multiplier
		costs := baselineCosts * multiplier

		profit := resolveProfit(revenue, in.GrossMargin, costs, corporateRate)
		cumulativeProfit += profit.AfterTax

		rows = append(rows, ProjectionRow{
			Month:         month,
			Revenue:       revenue,
			Costs:         costs + profit.Tax,
			NetProfit:     profit.AfterTax,
			CumulativeROI: cumulativeProfit / investment * 100,
		})
	}

	return rows
}

// BreakEvenMonth returns the first month whose cumulative ROI is not
// negative, or nil when the horizon never gets there.
func BreakEvenMonth(rows []ProjectionRow) *int {
	for _, row := range rows {
		if row.CumulativeROI >= 0 {
			month := row.Month
			return &month
		}
	}
	return nil
}
