package repository

import "roi-agent/domain"

// RunRepository keeps an append-only history of simulation runs. Saving is
// non-critical: the engine result never depends on it.
type RunRepository interface {
	Save(inputs domain.SimulationInputs, summary domain.YearSummary) error
}
