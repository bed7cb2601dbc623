package http

import (
	"errors"
	"fmt"
	"math"

	"roi-agent/domain"
	"roi-agent/service"
)

// Request payloads take percentages the way users type them; conversion to
// fractions happens here, before anything reaches the engine.

type loanScheduleRequest struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	LoanType          string  `json:"loan_type"`
	TenureMonths      int     `json:"tenure_months"`
}

type simulationRequest struct {
	StartingCapital    float64             `json:"starting_capital"`
	CycleLengthDays    int                 `json:"cycle_length_days"`
	RoundCycles        bool                `json:"round_cycles"`
	GrossMarginPercent float64             `json:"gross_margin_percent"`
	FixedCostPerCycle  float64             `json:"fixed_cost_per_cycle"`
	AnnualFixedCost    float64             `json:"annual_fixed_cost"`
	Loan               loanScheduleRequest `json:"loan"`
	TaxRatePercent     float64             `json:"tax_rate_percent"`
	Explain            bool                `json:"explain"`
}

var loanModes = map[string]bool{
	domain.LoanModeInterestOnly: true,
	domain.LoanModeAmortizing:   true,
}

func (req loanScheduleRequest) toTerms() (domain.LoanTerms, error) {
	if req.Principal < 0 {
		return domain.LoanTerms{}, errors.New("monto de préstamo inválido")
	}
	if req.Principal > service.MaxCapitalAmount {
		return domain.LoanTerms{}, fmt.Errorf(
			"monto de préstamo excede el máximo permitido de $%.2f", service.MaxCapitalAmount)
	}
	if req.AnnualRatePercent < 0 || req.AnnualRatePercent > service.MaxAnnualRatePct {
		return domain.LoanTerms{}, errors.New("tasa de interés inválida")
	}

	mode := req.LoanType
	if mode == "" {
		mode = domain.LoanModeInterestOnly
	}
	if !loanModes[mode] {
		return domain.LoanTerms{}, errors.New("tipo de préstamo inválido")
	}

	if mode == domain.LoanModeAmortizing {
		if req.TenureMonths <= 0 {
			return domain.LoanTerms{}, errors.New("plazo inválido para préstamo amortizable")
		}
		if req.TenureMonths > service.MaxTenureMonths {
			return domain.LoanTerms{}, fmt.Errorf(
				"plazo excede el máximo permitido de %d meses", service.MaxTenureMonths)
		}
	}

	return domain.LoanTerms{
		Principal:    req.Principal,
		AnnualRate:   req.AnnualRatePercent / 100.0,
		Mode:         mode,
		TenureMonths: req.TenureMonths,
	}, nil
}

func (req simulationRequest) toInputs() (domain.SimulationInputs, error) {
	if req.StartingCapital < 0 {
		return domain.SimulationInputs{}, errors.New("capital inicial inválido")
	}
	if req.StartingCapital > service.MaxCapitalAmount {
		return domain.SimulationInputs{}, fmt.Errorf(
			"capital inicial excede el máximo permitido de $%.2f", service.MaxCapitalAmount)
	}
	if req.CycleLengthDays <= 0 {
		return domain.SimulationInputs{}, errors.New("la duración del ciclo debe ser mayor a 0 días")
	}
	if req.CycleLengthDays > service.MaxCycleDays {
		return domain.SimulationInputs{}, fmt.Errorf(
			"la duración del ciclo excede el máximo de %d días", service.MaxCycleDays)
	}
	if req.GrossMarginPercent < 0 || req.GrossMarginPercent > 100 {
		return domain.SimulationInputs{}, errors.New("margen bruto inválido")
	}
	if req.FixedCostPerCycle < 0 || req.AnnualFixedCost < 0 {
		return domain.SimulationInputs{}, errors.New("costos fijos inválidos")
	}
	if req.TaxRatePercent < 0 || req.TaxRatePercent > service.MaxTaxRatePct {
		return domain.SimulationInputs{}, errors.New("tasa de impuestos inválida")
	}

	terms, err := req.Loan.toTerms()
	if err != nil {
		return domain.SimulationInputs{}, err
	}

	return domain.SimulationInputs{
		StartingCapital:     req.StartingCapital,
		CycleLengthDays:     req.CycleLengthDays,
		RoundCycles:         req.RoundCycles,
		GrossMarginFraction: req.GrossMarginPercent / 100.0,
		FixedCostPerCycle:   req.FixedCostPerCycle,
		AnnualFixedCost:     req.AnnualFixedCost,
		Loan:                terms,
		TaxRateFraction:     req.TaxRatePercent / 100.0,
	}, nil
}

// roundTo2Decimals redondea un float64 a 2 decimales (solo presentación)
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}
