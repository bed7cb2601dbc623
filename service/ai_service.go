package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"roi-agent/domain"
)

// AIService generates a plain-language reading of a projection. It is
// optional: without an API key it falls back to a static explanation.
type AIService struct {
	apiKey     string
	apiURL     string
	enabled    bool
	httpClient *http.Client
}

type OpenAIRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		apiKey:  apiKey,
		apiURL:  "https://api.openai.com/v1/chat/completions",
		enabled: apiKey != "",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GenerateROIExplanation genera una explicación del resultado de la
// proyección para el usuario final.
func (s *AIService) GenerateROIExplanation(
	inputs domain.SimulationInputs,
	summary domain.YearSummary,
) string {
	if !s.enabled {
		return s.generateFallbackExplanation(summary)
	}

	loanDesc := "sin préstamo"
	if inputs.Loan.Principal > 0 {
		if inputs.Loan.Mode == domain.LoanModeInterestOnly {
			loanDesc = fmt.Sprintf("préstamo de solo interés de $%.2f al %.2f%% anual",
				inputs.Loan.Principal, inputs.Loan.AnnualRate*100)
		} else {
			loanDesc = fmt.Sprintf("préstamo amortizable de $%.2f al %.2f%% anual a %d meses",
				inputs.Loan.Principal, inputs.Loan.AnnualRate*100, inputs.Loan.TenureMonths)
		}
	}

	prompt := fmt.Sprintf(`Eres un asesor de pequeñas empresas. Un negocio con capital inicial de $%.2f,
ciclo de conversión de efectivo de %d días (%.2f ciclos simulados en el año),
margen bruto de %.2f%%, costos fijos de $%.2f por ciclo y $%.2f anuales,
%s y tasa de impuestos de %.2f%% obtiene:

- Capital final después de impuestos: $%.2f
- Ingreso neto anual: $%.2f
- ROI anual después de impuestos: %.2f%%

Explica en 3-4 oraciones qué significa este resultado, qué palanca
(rotación del ciclo, margen, costos fijos o financiamiento) pesa más en él,
y un consejo práctico. Sé específico con los números.`,
		inputs.StartingCapital, inputs.CycleLengthDays, summary.SimulatedCycles,
		inputs.GrossMarginFraction*100, inputs.FixedCostPerCycle, inputs.AnnualFixedCost,
		loanDesc, inputs.TaxRateFraction*100,
		summary.EndingCapitalAfterTax, summary.NetIncome, summary.ROIAfterTaxPercent)

	explanation, err := s.callLLM(prompt)
	if err != nil {
		log.Warnf("AI explanation failed, using fallback: %v", err)
		return s.generateFallbackExplanation(summary)
	}

	return explanation
}

func (s *AIService) generateFallbackExplanation(summary domain.YearSummary) string {
	if summary.NetIncome >= 0 {
		return fmt.Sprintf(
			"La proyección de %.2f ciclos cierra el año con una ganancia neta de $%.2f después de impuestos, un ROI anual de %.2f%%. El capital compuesto termina en $%.2f.",
			summary.SimulatedCycles, summary.NetIncome,
			summary.ROIAfterTaxPercent, summary.EndingCapitalAfterTax)
	}
	return fmt.Sprintf(
		"La proyección de %.2f ciclos cierra el año con una pérdida de $%.2f; los costos fijos y del préstamo superan la ganancia bruta por ciclo. El capital termina en $%.2f.",
		summary.SimulatedCycles, -summary.NetIncome, summary.EndingCapitalAfterTax)
}

func (s *AIService) callLLM(prompt string) (string, error) {
	reqBody := OpenAIRequest{
		Model: "gpt-4o-mini",
		Messages: []Message{
			{
				Role:    "system",
				Content: "Eres un asesor financiero para pequeñas empresas. Explicas proyecciones de capital de trabajo en español claro, sin jerga, siempre citando los números concretos del resultado.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var openAIResp OpenAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return "", err
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	return openAIResp.Choices[0].Message.Content, nil
}
