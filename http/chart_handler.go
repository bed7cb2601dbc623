package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	charts "github.com/vicanso/go-charts/v2"
	log "github.com/sirupsen/logrus"

	"roi-agent/service"
)

// ChartHandler renders the ending-capital trajectory of a simulation as a
// PNG line chart.
type ChartHandler struct {
	loans *service.LoanScheduleService
	sims  *service.SimulationService
}

func NewChartHandler(
	loans *service.LoanScheduleService,
	sims *service.SimulationService,
) *ChartHandler {
	return &ChartHandler{loans: loans, sims: sims}
}

func (h *ChartHandler) RenderGrowthChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req simulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
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

	values := make([]float64, len(result.Cycles))
	labels := make([]string, len(result.Cycles))
	for i, c := range result.Cycles {
		values[i] = roundTo2Decimals(c.EndingCapital)
		labels[i] = strconv.Itoa(c.CycleIndex)
	}

	painter, err := charts.LineRender([][]float64{values},
		charts.TitleTextOptionFunc("Capital Growth Over Cycles"),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		log.Warnf("chart render failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	img, err := painter.Bytes()
	if err != nil {
		log.Warnf("chart encoding failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(img); err != nil {
		log.Warnf("error writing chart response: %v", err)
	}
}
