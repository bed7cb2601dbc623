package repository

import "roi-agent/domain"

type runRecord struct {
	Inputs  domain.SimulationInputs
	Summary domain.YearSummary
}

// RunRepositoryMemory is an in-memory implementation of RunRepository.
type RunRepositoryMemory struct {
	data []runRecord
}

// NewRunRepositoryMemory creates a new in-memory run repository.
func NewRunRepositoryMemory() *RunRepositoryMemory {
	return &RunRepositoryMemory{
		data: []runRecord{},
	}
}

// Save stores the run in memory.
func (r *RunRepositoryMemory) Save(
	inputs domain.SimulationInputs,
	summary domain.YearSummary,
) error {
	r.data = append(r.data, runRecord{Inputs: inputs, Summary: summary})
	return nil
}

// Len returns the number of stored runs.
func (r *RunRepositoryMemory) Len() int {
	return len(r.data)
}
