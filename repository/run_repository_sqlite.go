package repository

import (
	"database/sql"
	"time"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"roi-agent/domain"
)

// RunRepositorySQLite persists simulation runs in a local SQLite file.
type RunRepositorySQLite struct {
	db *sql.DB
}

func NewRunRepositorySQLite(dsn string) (*RunRepositorySQLite, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &RunRepositorySQLite{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS simulation_runs(
		created_at INTEGER,
		starting_capital REAL, cycle_length_days INTEGER, round_cycles INTEGER,
		gross_margin REAL, fixed_cost_per_cycle REAL, annual_fixed_cost REAL,
		loan_principal REAL, loan_rate REAL, loan_mode TEXT, loan_tenure_months INTEGER,
		tax_rate REAL,
		simulated_cycles REAL, ending_capital_after_tax REAL,
		net_income REAL, roi_after_tax REAL
	)`)
	return err
}

func (r *RunRepositorySQLite) Save(
	inputs domain.SimulationInputs,
	summary domain.YearSummary,
) error {
	_, err := r.db.Exec(`INSERT INTO simulation_runs(
		created_at,
		starting_capital, cycle_length_days, round_cycles,
		gross_margin, fixed_cost_per_cycle, annual_fixed_cost,
		loan_principal, loan_rate, loan_mode, loan_tenure_months,
		tax_rate,
		simulated_cycles, ending_capital_after_tax, net_income, roi_after_tax
	) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(),
		inputs.StartingCapital, inputs.CycleLengthDays, inputs.RoundCycles,
		inputs.GrossMarginFraction, inputs.FixedCostPerCycle, inputs.AnnualFixedCost,
		inputs.Loan.Principal, inputs.Loan.AnnualRate, inputs.Loan.Mode, inputs.Loan.TenureMonths,
		inputs.TaxRateFraction,
		summary.SimulatedCycles, summary.EndingCapitalAfterTax,
		summary.NetIncome, summary.ROIAfterTaxPercent)
	return err
}

// Count returns the number of stored runs.
func (r *RunRepositorySQLite) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM simulation_runs`).Scan(&n)
	return n, err
}

func (r *RunRepositorySQLite) Close() error {
	return r.db.Close()
}
