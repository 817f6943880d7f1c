package risk

import "math"

// Preview is the repayment breakdown shown to the user before confirmation.
type Preview struct {
	EMI           int64
	TotalPayment  int64
	TotalInterest int64
}

// EMI computes the monthly installment for a reducing-balance loan.
//
// One rounding rule everywhere: the final EMI is math.Round of the
// floating-point amortization result (ceil of P/n when the rate is zero).
// Preview, underwriting and the salary-slip check all go through here.
func EMI(principal int64, annualRatePercent float64, tenureMonths int) int64 {
	if principal <= 0 || tenureMonths <= 0 {
		return 0
	}

	monthlyRate := annualRatePercent / 100.0 / 12.0
	if monthlyRate <= 0 {
		return int64(math.Ceil(float64(principal) / float64(tenureMonths)))
	}

	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	emi := float64(principal) * monthlyRate * factor / (factor - 1)
	return int64(math.Round(emi))
}

// PreviewFor computes the full breakdown for an amount/tenure pair.
func PreviewFor(principal int64, annualRatePercent float64, tenureMonths int) Preview {
	emi := EMI(principal, annualRatePercent, tenureMonths)
	total := emi * int64(tenureMonths)
	return Preview{
		EMI:           emi,
		TotalPayment:  total,
		TotalInterest: total - principal,
	}
}
