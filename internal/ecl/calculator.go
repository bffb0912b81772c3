package ecl

import (
	"fmt"
	"math"
	"time"

	"github.com/FairviewRisk/provision/internal/collateral"
	"github.com/FairviewRisk/provision/internal/store"
)

// Clock supplies the current year so the remaining-life adjustment is
// deterministic in tests.
type Clock interface {
	CurrentYear() int
}

type systemClock struct{}

func (systemClock) CurrentYear() int { return time.Now().Year() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a Clock pinned to the given year.
func FixedClock(year int) Clock { return fixedClock(year) }

type fixedClock int

func (c fixedClock) CurrentYear() int { return int(c) }

// Result carries the per-record risk metrics.
type Result struct {
	EAD float64 `json:"ead"`
	LGD float64 `json:"lgd"`
	PD  float64 `json:"pd"`
	ECL int64   `json:"ecl"`
}

// Calculator computes EAD, LGD, PD and ECL for credit records against the
// fixed collateral table and the current risk-weight vector.
type Calculator struct {
	table *collateral.Table
	clock Clock
}

func NewCalculator(table *collateral.Table, clock Clock) *Calculator {
	if clock == nil {
		clock = SystemClock()
	}
	return &Calculator{table: table, clock: clock}
}

// EAD scales the credit value by the remaining fraction of the credit's
// life, rounded to 2 decimals. A matured credit has zero exposure left.
func (c *Calculator) EAD(rec *store.CreditRecord) (float64, error) {
	total := rec.MaturityYear - rec.OriginationYear
	if total <= 0 {
		return 0, fmt.Errorf("record %s: maturity year %d not after origination year %d",
			rec.ID, rec.MaturityYear, rec.OriginationYear)
	}
	remaining := rec.MaturityYear - c.clock.CurrentYear()
	if remaining <= 0 {
		return 0, nil
	}
	if remaining > total {
		remaining = total
	}
	return round2(rec.Value * float64(remaining) / float64(total)), nil
}

// LGD is the exposure left uncovered after liquidating collateral at the
// category's recovery rate, floored at zero.
func (c *Calculator) LGD(rec *store.CreditRecord) (float64, error) {
	ead, err := c.EAD(rec)
	if err != nil {
		return 0, err
	}
	rate, err := c.table.WeightedAverage(rec.CollateralCategory)
	if err != nil {
		return 0, err
	}
	lgd := ead - rec.CollateralValue*rate
	if lgd < 0 {
		return 0, nil
	}
	return round2(lgd), nil
}

// PD scales the stored risk score by the calibrated weight of the
// record's grade, expressed as a fraction of the 100-point budget.
func (c *Calculator) PD(rec *store.CreditRecord, weights []int) (float64, error) {
	slot := store.GradeSlot(rec.RiskGrade)
	if slot < 0 {
		return 0, fmt.Errorf("record %s: unknown risk grade %q", rec.ID, rec.RiskGrade)
	}
	if len(weights) != len(store.Grades) {
		return 0, fmt.Errorf("risk weight vector has %d entries, want %d", len(weights), len(store.Grades))
	}
	return round4(rec.RiskScore * float64(weights[slot]) / 100), nil
}

// Compute evaluates all four metrics for one record.
// ECL = EAD × (LGD/EAD) × PD, rounded to the nearest integer.
func (c *Calculator) Compute(rec *store.CreditRecord, weights []int) (*Result, error) {
	ead, err := c.EAD(rec)
	if err != nil {
		return nil, err
	}
	lgd, err := c.LGD(rec)
	if err != nil {
		return nil, err
	}
	pd, err := c.PD(rec, weights)
	if err != nil {
		return nil, err
	}

	res := &Result{EAD: ead, LGD: lgd, PD: pd}
	if ead > 0 {
		res.ECL = int64(math.Round(ead * (lgd / ead) * pd))
	}
	return res, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
