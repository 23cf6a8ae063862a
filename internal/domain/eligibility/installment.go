package eligibility

import "math"

// MonthlyInstallment returns the fixed monthly payment that amortizes
// principal over tenureMonths at annualRatePercent.
func MonthlyInstallment(principal, annualRatePercent float64, tenureMonths int) float64 {
	if tenureMonths <= 0 {
		return 0
	}
	n := float64(tenureMonths)
	if annualRatePercent == 0 {
		return principal / n
	}
	i := annualRatePercent / 1200
	growth := math.Pow(1+i, n)
	return principal * i * growth / (growth - 1)
}
