package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roi-agent/domain"
	"roi-agent/repository"
)

type MockRunRepository struct {
	SaveCount  int
	ForceError bool
}

func (m *MockRunRepository) Save(
	inputs domain.SimulationInputs,
	summary domain.YearSummary,
) error {
	m.SaveCount++
	if m.ForceError {
		return errors.New("save error")
	}
	return nil
}

func newTestSimulationService() (*SimulationService, *MockRunRepository) {
	runs := &MockRunRepository{}
	return NewSimulationService(runs, repository.NewMockCache()), runs
}

func baseInputs() domain.SimulationInputs {
	return domain.SimulationInputs{
		StartingCapital:     1_000_000,
		CycleLengthDays:     45,
		RoundCycles:         true,
		GrossMarginFraction: 0.15,
		FixedCostPerCycle:   30_000,
		AnnualFixedCost:     600_000,
		Loan: domain.LoanTerms{
			Principal:  500_000,
			AnnualRate: 0.12,
			Mode:       domain.LoanModeInterestOnly,
		},
		TaxRateFraction: 0.30,
	}
}

func TestSimulateYear_CompoundingScenario(t *testing.T) {

	s, runs := newTestSimulationService()
	inputs := baseInputs()

	// Interés anual de solo-interés: 500000 * 12% = 60000
	loan := domain.LoanYearSummary{
		InterestPaidYear:            60_000,
		OutstandingBalanceAfterYear: 500_000,
	}

	result, err := s.SimulateYear(inputs, loan)
	require.NoError(t, err)

	// floor(365/45) = 8 ciclos completos
	require.Len(t, result.Cycles, 8)
	assert.InDelta(t, 8.0, result.Summary.SimulatedCycles, 1e-9)

	// Primer ciclo: markup = 0.15/0.85, costos 30000 + 75000 + 7500
	first := result.Cycles[0]
	markup := 0.15 / 0.85
	assert.InDelta(t, 1_000_000*markup, first.GrossProfit, 1e-6)
	assert.InDelta(t, 30_000.0, first.FixedCostAllocated, 1e-9)
	assert.InDelta(t, 75_000.0, first.AnnualFixedAllocated, 1e-9)
	assert.InDelta(t, 7_500.0, first.LoanInterestAllocated, 1e-9)
	assert.Equal(t, 0.0, first.LoanPrincipalAllocated)

	// El capital compone: cada ciclo arranca donde cerró el anterior
	for i, c := range result.Cycles {
		assert.InDelta(t, c.StartingCapital+c.NetProfitBeforeTax, c.EndingCapital, 1e-6)
		if i > 0 {
			assert.Equal(t, result.Cycles[i-1].EndingCapital, c.StartingCapital)
		}
	}

	summary := result.Summary
	assert.InDelta(t, summary.EndingCapitalBeforeTax-inputs.StartingCapital,
		summary.CumulativeProfit, 1e-6)
	assert.Greater(t, summary.CumulativeProfit, 0.0)
	assert.InDelta(t, summary.CumulativeProfit*0.30, summary.TaxPaid, 1e-6)
	assert.InDelta(t, summary.CumulativeProfit-summary.TaxPaid, summary.NetIncome, 1e-6)
	assert.InDelta(t, inputs.StartingCapital+summary.NetIncome,
		summary.EndingCapitalAfterTax, 1e-6)
	assert.InDelta(t, summary.NetIncome/inputs.StartingCapital*100,
		summary.ROIAfterTaxPercent, 1e-9)

	assert.Equal(t, 1, runs.SaveCount)
}

func TestSimulateYear_FractionalFinalCycle(t *testing.T) {

	s, _ := newTestSimulationService()
	inputs := baseInputs()
	inputs.RoundCycles = false

	result, err := s.SimulateYear(inputs, domain.LoanYearSummary{InterestPaidYear: 60_000})
	require.NoError(t, err)

	// 365/45 = 8.111...: 8 ciclos completos más uno fraccional
	require.Len(t, result.Cycles, 9)
	assert.InDelta(t, 365.0/45.0, result.Summary.SimulatedCycles, 1e-9)

	markup := 0.15 / 0.85
	fraction := 365.0/45.0 - 8.0
	last := result.Cycles[8]
	assert.InDelta(t, last.StartingCapital*markup*fraction, last.GrossProfit, 1e-6)
	assert.InDelta(t, inputs.FixedCostPerCycle*fraction, last.FixedCostAllocated, 1e-6)

	for i := 1; i < len(result.Cycles); i++ {
		assert.Equal(t, result.Cycles[i-1].EndingCapital, result.Cycles[i].StartingCapital)
	}
}

func TestSimulateYear_IntegerCycleCountWithoutRounding(t *testing.T) {

	s, _ := newTestSimulationService()
	inputs := baseInputs()
	inputs.CycleLengthDays = 73 // 365/73 = 5 exacto
	inputs.RoundCycles = false

	result, err := s.SimulateYear(inputs, domain.LoanYearSummary{})
	require.NoError(t, err)

	// Sin ajuste fraccional: el último ciclo es completo
	require.Len(t, result.Cycles, 5)
	markup := 0.15 / 0.85
	last := result.Cycles[4]
	assert.InDelta(t, last.StartingCapital*markup, last.GrossProfit, 1e-6)
}

func TestSimulateYear_SingleCycleBoundary(t *testing.T) {

	s, _ := newTestSimulationService()
	inputs := baseInputs()
	inputs.CycleLengthDays = 365

	result, err := s.SimulateYear(inputs, domain.LoanYearSummary{})
	require.NoError(t, err)

	require.Len(t, result.Cycles, 1)
	assert.InDelta(t, 1.0, result.Summary.SimulatedCycles, 1e-9)
}

func TestSimulateYear_ZeroCycles(t *testing.T) {

	s, runs := newTestSimulationService()
	inputs := baseInputs()
	inputs.CycleLengthDays = 366 // floor(365/366) = 0

	_, err := s.SimulateYear(inputs, domain.LoanYearSummary{})

	require.ErrorIs(t, err, ErrZeroCycles)
	assert.Equal(t, 0, runs.SaveCount)
}

func TestSimulateYear_InvalidCycleLength(t *testing.T) {

	s, _ := newTestSimulationService()
	inputs := baseInputs()
	inputs.CycleLengthDays = 0

	_, err := s.SimulateYear(inputs, domain.LoanYearSummary{})

	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSimulateYear_ZeroStartingCapital(t *testing.T) {

	s, _ := newTestSimulationService()
	inputs := baseInputs()
	inputs.StartingCapital = 0

	result, err := s.SimulateYear(inputs, domain.LoanYearSummary{InterestPaidYear: 60_000})

	// ROI definido como 0 por convención, nunca división por cero
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Summary.ROIAfterTaxPercent)
}

func TestSimulateYear_TaxAppliedOnceAtYearEnd(t *testing.T) {

	s, _ := newTestSimulationService()
	inputs := domain.SimulationInputs{
		StartingCapital:     100_000,
		CycleLengthDays:     365,
		RoundCycles:         true,
		GrossMarginFraction: 0.50, // markup = 1.0
		TaxRateFraction:     0.30,
	}

	result, err := s.SimulateYear(inputs, domain.LoanYearSummary{})
	require.NoError(t, err)

	summary := result.Summary
	assert.InDelta(t, 100_000.0, summary.CumulativeProfit, 1e-6)
	assert.InDelta(t, 30_000.0, summary.TaxPaid, 1e-6)
	assert.InDelta(t, 70_000.0, summary.NetIncome, 1e-6)
	assert.InDelta(t, 170_000.0, summary.EndingCapitalAfterTax, 1e-6)
	assert.InDelta(t, 70.0, summary.ROIAfterTaxPercent, 1e-6)
}

func TestSimulateYear_NoTaxRefundOnLoss(t *testing.T) {

	s, _ := newTestSimulationService()
	inputs := baseInputs()
	inputs.GrossMarginFraction = 0 // sin ganancia bruta, solo costos

	result, err := s.SimulateYear(inputs, domain.LoanYearSummary{InterestPaidYear: 60_000})
	require.NoError(t, err)

	summary := result.Summary
	require.Less(t, summary.CumulativeProfit, 0.0)
	assert.Equal(t, 0.0, summary.TaxPaid)
	assert.Equal(t, summary.CumulativeProfit, summary.NetIncome)
	assert.Less(t, summary.ROIAfterTaxPercent, 0.0)
}

// Un margen del 100% no tiene markup finito; el motor cae a markup 0 en vez
// de fallar. Entrada desaconsejada: se fija el comportamiento, no se avala.
func TestSimulateYear_MarginAtOneFallsBackToZeroMarkup(t *testing.T) {

	s, _ := newTestSimulationService()
	inputs := baseInputs()
	inputs.GrossMarginFraction = 1.0

	result, err := s.SimulateYear(inputs, domain.LoanYearSummary{})
	require.NoError(t, err)

	for _, c := range result.Cycles {
		assert.Equal(t, 0.0, c.GrossProfit)
	}
}

func TestSimulateYear_CachesByInputSnapshot(t *testing.T) {

	runs := &MockRunRepository{}
	s := NewSimulationService(runs, repository.NewMockCache())
	inputs := baseInputs()
	loan := domain.LoanYearSummary{InterestPaidYear: 60_000}

	first, err := s.SimulateYear(inputs, loan)
	require.NoError(t, err)

	second, err := s.SimulateYear(inputs, loan)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// El segundo resultado salió del cache: un solo run guardado
	assert.Equal(t, 1, runs.SaveCount)
}

func TestSimulateYear_SaveFailureIsNonCritical(t *testing.T) {

	runs := &MockRunRepository{ForceError: true}
	s := NewSimulationService(runs, repository.NewMockCache())

	_, err := s.SimulateYear(baseInputs(), domain.LoanYearSummary{})

	require.NoError(t, err)
	assert.Equal(t, 1, runs.SaveCount)
}

func TestMarkupFromMargin(t *testing.T) {

	assert.Equal(t, 0.0, MarkupFromMargin(0))
	assert.InDelta(t, 0.176470588, MarkupFromMargin(0.15), 1e-9)
	assert.InDelta(t, 1.0, MarkupFromMargin(0.5), 1e-9)
	assert.Equal(t, 0.0, MarkupFromMargin(1.0))
	assert.Equal(t, 0.0, MarkupFromMargin(1.2))
	assert.Equal(t, 0.0, MarkupFromMargin(-0.1))
}
