package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"roi-agent/domain"
	"roi-agent/service"
)

type SimulationHandler struct {
	loans *service.LoanScheduleService
	sims  *service.SimulationService
	ai    *service.AIService
}

func NewSimulationHandler(
	loans *service.LoanScheduleService,
	sims *service.SimulationService,
	ai *service.AIService,
) *SimulationHandler {
	return &SimulationHandler{loans: loans, sims: sims, ai: ai}
}

type cycleRecordResponse struct {
	Cycle                int     `json:"cycle"`
	StartingCapital      float64 `json:"starting_capital"`
	GrossProfit          float64 `json:"gross_profit"`
	FixedCost            float64 `json:"fixed_cost"`
	AnnualFixedAllocated float64 `json:"annual_fixed_allocated"`
	LoanInterest         float64 `json:"loan_interest"`
	LoanPrincipal        float64 `json:"loan_principal"`
	NetProfitBeforeTax   float64 `json:"net_profit_before_tax"`
	EndingCapital        float64 `json:"ending_capital"`
}

type yearSummaryResponse struct {
	RawCycles              float64 `json:"raw_cycles"`
	SimulatedCycles        float64 `json:"simulated_cycles"`
	EndingCapitalBeforeTax float64 `json:"ending_capital_before_tax"`
	CumulativeProfit       float64 `json:"cumulative_profit"`
	TaxPaid                float64 `json:"tax_paid"`
	NetIncome              float64 `json:"net_income"`
	EndingCapitalAfterTax  float64 `json:"ending_capital_after_tax"`
	ROIAfterTaxPercent     float64 `json:"roi_after_tax_percent"`
	EndingCapitalDisplay   string  `json:"ending_capital_display"`
	NetIncomeDisplay       string  `json:"net_income_display"`
}

type simulationResponse struct {
	Loan        loanScheduleResponse  `json:"loan"`
	Cycles      []cycleRecordResponse `json:"cycles"`
	Summary     yearSummaryResponse   `json:"summary"`
	Explanation string                `json:"explanation,omitempty"`
}

func buildSimulationResponse(
	loan domain.LoanYearSummary,
	result domain.SimulationResult,
) simulationResponse {
	cycles := make([]cycleRecordResponse, len(result.Cycles))
	for i, c := range result.Cycles {
		cycles[i] = cycleRecordResponse{
			Cycle:                c.CycleIndex,
			StartingCapital:      roundTo2Decimals(c.StartingCapital),
			GrossProfit:          roundTo2Decimals(c.GrossProfit),
			FixedCost:            roundTo2Decimals(c.FixedCostAllocated),
			AnnualFixedAllocated: roundTo2Decimals(c.AnnualFixedAllocated),
			LoanInterest:         roundTo2Decimals(c.LoanInterestAllocated),
			LoanPrincipal:        roundTo2Decimals(c.LoanPrincipalAllocated),
			NetProfitBeforeTax:   roundTo2Decimals(c.NetProfitBeforeTax),
			EndingCapital:        roundTo2Decimals(c.EndingCapital),
		}
	}

	s := result.Summary
	return simulationResponse{
		Loan:   loanSummaryToResponse(loan),
		Cycles: cycles,
		Summary: yearSummaryResponse{
			RawCycles:              roundTo2Decimals(s.RawCycles),
			SimulatedCycles:        roundTo2Decimals(s.SimulatedCycles),
			EndingCapitalBeforeTax: roundTo2Decimals(s.EndingCapitalBeforeTax),
			CumulativeProfit:       roundTo2Decimals(s.CumulativeProfit),
			TaxPaid:                roundTo2Decimals(s.TaxPaid),
			NetIncome:              roundTo2Decimals(s.NetIncome),
			EndingCapitalAfterTax:  roundTo2Decimals(s.EndingCapitalAfterTax),
			ROIAfterTaxPercent:     roundTo2Decimals(s.ROIAfterTaxPercent),
			EndingCapitalDisplay:   humanize.CommafWithDigits(s.EndingCapitalAfterTax, 2),
			NetIncomeDisplay:       humanize.CommafWithDigits(s.NetIncome, 2),
		},
	}
}

func (h *SimulationHandler) RunSimulation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Validar Content-Type
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req simulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warnf("error decoding request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	inputs, err := req.toInputs()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loanSummary := h.loans.ComputeLoanYear(inputs.Loan)

	result, err := h.sims.SimulateYear(inputs, loanSummary)
	if err != nil {
		writeSimulationError(w, err)
		return
	}

	resp := buildSimulationResponse(loanSummary, result)
	if req.Explain {
		resp.Explanation = h.ai.GenerateROIExplanation(inputs, result.Summary)
	}

	// Codificar JSON en buffer primero para evitar escribir header si falla
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(resp); err != nil {
		log.Warnf("error encoding response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := buf.WriteTo(w); err != nil {
		log.Warnf("error writing response: %v", err)
	}
}

// writeSimulationError maps the simulator's error taxonomy onto HTTP
// statuses: zero cycles is a non-fatal warning, bad configuration a 400.
func writeSimulationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrZeroCycles):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"warning": err.Error()})
	case errors.Is(err, service.ErrInvalidConfiguration):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Warnf("simulation failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
