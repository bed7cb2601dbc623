package domain

// SimulationInputs is the immutable snapshot a projection runs from.
// All fractions are already converted from percentages by the caller.
type SimulationInputs struct {
	StartingCapital     float64
	CycleLengthDays     int
	RoundCycles         bool
	GrossMarginFraction float64
	FixedCostPerCycle   float64
	AnnualFixedCost     float64
	Loan                LoanTerms
	TaxRateFraction     float64
}

// CycleRecord is one row of the compounding ledger. Each cycle's profit
// base is the previous cycle's ending capital.
type CycleRecord struct {
	CycleIndex             int
	StartingCapital        float64
	GrossProfit            float64
	FixedCostAllocated     float64
	AnnualFixedAllocated   float64
	LoanInterestAllocated  float64
	LoanPrincipalAllocated float64
	NetProfitBeforeTax     float64
	EndingCapital          float64
}

// YearSummary is the year-end view after the single tax pass.
type YearSummary struct {
	RawCycles              float64
	SimulatedCycles        float64
	EndingCapitalBeforeTax float64
	CumulativeProfit       float64
	TaxPaid                float64
	NetIncome              float64
	EndingCapitalAfterTax  float64
	ROIAfterTaxPercent     float64
}

type SimulationResult struct {
	Cycles  []CycleRecord
	Summary YearSummary
}
