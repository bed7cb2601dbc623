package domain

const (
	LoanModeInterestOnly = "interest_only"
	LoanModeAmortizing   = "amortizing"
)

// LoanTerms describes a single credit facility. AnnualRate is a fraction
// (0.12 means 12% per year). TenureMonths only applies to amortizing loans.
type LoanTerms struct {
	Principal    float64
	AnnualRate   float64
	Mode         string
	TenureMonths int
}

// LoanYearSummary holds the first-year totals of a loan schedule.
// MonthlyPayment is 0 for interest-only loans.
type LoanYearSummary struct {
	MonthlyPayment              float64
	InterestPaidYear            float64
	PrincipalRepaidYear         float64
	OutstandingBalanceAfterYear float64
}
