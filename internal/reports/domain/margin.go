package reports

import "math"

// ProfitMargin returns net/income as a percent with one decimal. Zero
// income yields exactly 0 rather than dividing.
func ProfitMargin(netIncome, totalIncome float64) float64 {
	if totalIncome == 0 {
		return 0
	}
	return math.Round(netIncome/totalIncome*1000) / 10
}
