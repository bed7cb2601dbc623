package service

const (
	MaxCapitalAmount = 1_000_000_000.0 // 1 billón
	MaxAnnualRatePct = 100.0           // 100% anual
	MaxTenureMonths  = 600             // 50 años
	MaxCycleDays     = 3650            // 10 años de ciclo, más que suficiente
	MaxTaxRatePct    = 100.0

	DaysPerYear   = 365.0
	MonthsPerYear = 12

	// Umbral para tratar un conteo de ciclos como entero; evita un último
	// ciclo de duración cero por ruido numérico
	CycleFractionEpsilon = 1e-9
)
