package service

import (
	"math"

	"roi-agent/domain"
)

// LoanScheduleService computes the fixed periodic payment of a loan and its
// first-year totals of interest, principal repaid and remaining balance.
type LoanScheduleService struct{}

func NewLoanScheduleService() *LoanScheduleService {
	return &LoanScheduleService{}
}

// ComputeLoanYear returns the first-year view of the loan described by
// terms. Degenerate inputs (principal <= 0, negative rate, missing tenure
// on an amortizing loan) yield the zero summary with the balance untouched;
// they are defined cases, not errors. Values stay unrounded — rounding is a
// display concern.
func (s *LoanScheduleService) ComputeLoanYear(terms domain.LoanTerms) domain.LoanYearSummary {
	if terms.Principal <= 0 || terms.AnnualRate < 0 ||
		(terms.Mode != domain.LoanModeInterestOnly && terms.TenureMonths <= 0) {
		return domain.LoanYearSummary{OutstandingBalanceAfterYear: terms.Principal}
	}

	if terms.Mode == domain.LoanModeInterestOnly {
		// Estilo CC/OD: solo se paga interés, el principal no baja
		return domain.LoanYearSummary{
			InterestPaidYear:            terms.Principal * terms.AnnualRate,
			OutstandingBalanceAfterYear: terms.Principal,
		}
	}

	monthlyRate := terms.AnnualRate / MonthsPerYear
	n := terms.TenureMonths

	var payment float64
	if monthlyRate > 0 {
		factor := math.Pow(1+monthlyRate, float64(n))
		payment = terms.Principal * monthlyRate * factor / (factor - 1)
	} else {
		// 0% de interés: cuota lineal
		payment = terms.Principal / float64(n)
	}

	outstanding := terms.Principal
	var interestYear, principalYear float64

	// Simular mes a mes hasta 12 meses o hasta saldar el préstamo
	for m := 1; m <= MonthsPerYear; m++ {
		if m > n || outstanding <= 0 {
			break
		}

		interest := outstanding * monthlyRate
		principal := payment - interest

		if principal > outstanding {
			principal = outstanding
			payment = interest + principal // última cuota ajustada
		}

		outstanding -= principal
		interestYear += interest
		principalYear += principal
	}

	return domain.LoanYearSummary{
		MonthlyPayment:              payment,
		InterestPaidYear:            interestYear,
		PrincipalRepaidYear:         principalYear,
		OutstandingBalanceAfterYear: outstanding,
	}
}
