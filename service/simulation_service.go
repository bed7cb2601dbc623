package service

import (
	"encoding/json"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"roi-agent/domain"
	"roi-agent/repository"
)

// SimulationService runs the cycle-compounding projection. Results for
// identical input snapshots are served from the cache; every fresh run is
// appended to the run history.
type SimulationService struct {
	runs  repository.RunRepository
	cache repository.CacheRepository
}

func NewSimulationService(
	runs repository.RunRepository,
	cache repository.CacheRepository,
) *SimulationService {
	return &SimulationService{runs: runs, cache: cache}
}

// SimulateYear compounds capital cycle over cycle for one year and applies
// a single end-of-year tax pass. The loan summary is taken as computed by
// LoanScheduleService; its annual interest and principal figures are
// allocated evenly across the cycle count.
func (s *SimulationService) SimulateYear(
	inputs domain.SimulationInputs,
	loan domain.LoanYearSummary,
) (domain.SimulationResult, error) {

	if inputs.CycleLengthDays <= 0 {
		return domain.SimulationResult{}, fmt.Errorf(
			"%w: la duración del ciclo debe ser mayor a 0 días", ErrInvalidConfiguration)
	}

	rawCycles := DaysPerYear / float64(inputs.CycleLengthDays)
	cycles := rawCycles
	if inputs.RoundCycles {
		cycles = math.Floor(rawCycles)
	}
	if cycles <= 0 {
		return domain.SimulationResult{}, fmt.Errorf(
			"%w: aumente la duración del ciclo o desactive el redondeo", ErrZeroCycles)
	}

	key := cacheKey(inputs, loan)
	if key != "" {
		if raw, ok := s.cache.Get(key); ok {
			var cached domain.SimulationResult
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			log.Warn("discarding undecodable cached simulation result")
		}
	}

	result := runCycles(inputs, loan, rawCycles, cycles)

	if key != "" {
		if raw, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(key, string(raw)); err != nil {
				log.Warnf("failed to cache simulation result: %v", err)
			}
		}
	}

	// Guardar el run (no crítico si falla)
	if err := s.runs.Save(inputs, result.Summary); err != nil {
		log.Warnf("failed to save simulation run: %v", err)
	}

	return result, nil
}

// runCycles is the pure compounding loop. cycles is the real-valued cycle
// count that annual and loan costs are allocated over; it differs from the
// iteration count only when a fractional final cycle is simulated.
func runCycles(
	inputs domain.SimulationInputs,
	loan domain.LoanYearSummary,
	rawCycles, cycles float64,
) domain.SimulationResult {

	annualFixedPerCycle := inputs.AnnualFixedCost / cycles
	loanInterestPerCycle := loan.InterestPaidYear / cycles
	loanPrincipalPerCycle := loan.PrincipalRepaidYear / cycles

	markup := MarkupFromMargin(inputs.GrossMarginFraction)

	iterations := int(math.Ceil(cycles))
	records := make([]domain.CycleRecord, 0, iterations)
	capital := inputs.StartingCapital

	for i := 1; i <= iterations; i++ {
		fraction := 1.0
		if !inputs.RoundCycles && i == iterations {
			fraction = cycles - math.Floor(cycles)
			if fraction <= CycleFractionEpsilon {
				// conteo entero de ciclos: el último es completo
				fraction = 1.0
			}
		}

		grossProfit := capital * markup * fraction
		fixedThis := inputs.FixedCostPerCycle * fraction
		annualFixedThis := annualFixedPerCycle * fraction
		loanInterestThis := loanInterestPerCycle * fraction
		loanPrincipalThis := loanPrincipalPerCycle * fraction

		netProfit := grossProfit - fixedThis - annualFixedThis -
			loanInterestThis - loanPrincipalThis
		ending := capital + netProfit

		records = append(records, domain.CycleRecord{
			CycleIndex:             i,
			StartingCapital:        capital,
			GrossProfit:            grossProfit,
			FixedCostAllocated:     fixedThis,
			AnnualFixedAllocated:   annualFixedThis,
			LoanInterestAllocated:  loanInterestThis,
			LoanPrincipalAllocated: loanPrincipalThis,
			NetProfitBeforeTax:     netProfit,
			EndingCapital:          ending,
		})

		capital = ending
	}

	cumulativeProfit := capital - inputs.StartingCapital
	taxPaid := math.Max(cumulativeProfit, 0) * inputs.TaxRateFraction
	netIncome := cumulativeProfit - taxPaid

	roi := 0.0
	if inputs.StartingCapital > 0 {
		roi = netIncome / inputs.StartingCapital * 100.0
	}

	return domain.SimulationResult{
		Cycles: records,
		Summary: domain.YearSummary{
			RawCycles:              rawCycles,
			SimulatedCycles:        cycles,
			EndingCapitalBeforeTax: capital,
			CumulativeProfit:       cumulativeProfit,
			TaxPaid:                taxPaid,
			NetIncome:              netIncome,
			EndingCapitalAfterTax:  inputs.StartingCapital + netIncome,
			ROIAfterTaxPercent:     roi,
		},
	}
}

// MarkupFromMargin converts a margin on revenue to a markup on cost.
// A margin at or above 1 has no finite markup and falls back to 0; callers
// should treat such margins as a discouraged input, not a supported one.
func MarkupFromMargin(margin float64) float64 {
	if margin >= 0 && margin < 1 {
		return margin / (1 - margin)
	}
	return 0
}

func cacheKey(inputs domain.SimulationInputs, loan domain.LoanYearSummary) string {
	raw, err := json.Marshal(struct {
		Inputs domain.SimulationInputs
		Loan   domain.LoanYearSummary
	}{inputs, loan})
	if err != nil {
		return ""
	}
	return "simulation:" + string(raw)
}
