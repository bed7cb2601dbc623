package http

import (
	"encoding/json"
	"net/http"

	"roi-agent/domain"
	"roi-agent/service"
)

type LoanHandler struct {
	service *service.LoanScheduleService
}

func NewLoanHandler(service *service.LoanScheduleService) *LoanHandler {
	return &LoanHandler{service: service}
}

type loanScheduleResponse struct {
	MonthlyPayment              float64 `json:"monthly_payment"`
	InterestPaidYear            float64 `json:"interest_paid_year"`
	PrincipalRepaidYear         float64 `json:"principal_repaid_year"`
	OutstandingBalanceAfterYear float64 `json:"outstanding_balance_after_year"`
}

func loanSummaryToResponse(s domain.LoanYearSummary) loanScheduleResponse {
	return loanScheduleResponse{
		MonthlyPayment:              roundTo2Decimals(s.MonthlyPayment),
		InterestPaidYear:            roundTo2Decimals(s.InterestPaidYear),
		PrincipalRepaidYear:         roundTo2Decimals(s.PrincipalRepaidYear),
		OutstandingBalanceAfterYear: roundTo2Decimals(s.OutstandingBalanceAfterYear),
	}
}

func (h *LoanHandler) ComputeSchedule(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loanScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	terms, err := req.toTerms()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary := h.service.ComputeLoanYear(terms)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loanSummaryToResponse(summary))
}
