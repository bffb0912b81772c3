package portfolio

import (
	"math"

	"github.com/FairviewRisk/provision/internal/ecl"
	"github.com/FairviewRisk/provision/internal/store"
)

// GradeBreakdown aggregates the records of one risk grade.
type GradeBreakdown struct {
	Grade       string  `json:"grade"`
	RecordCount int     `json:"record_count"`
	Exposure    float64 `json:"exposure"`
	EAD         float64 `json:"ead"`
	ECL         int64   `json:"ecl"`
}

// Report is the portfolio-level view over all credit records.
type Report struct {
	RecordCount   int              `json:"record_count"`
	TotalExposure float64          `json:"total_exposure"`
	TotalEAD      float64          `json:"total_ead"`
	TotalLGD      float64          `json:"total_lgd"`
	TotalECL      int64            `json:"total_ecl"`
	AveragePD     float64          `json:"average_pd"`
	CoverageRatio float64          `json:"coverage_ratio"`
	Grades        []GradeBreakdown `json:"grades"`
	Skipped       int              `json:"skipped,omitempty"`
}

// Build aggregates per-record results into a portfolio report. Records
// that cannot be evaluated (bad grade, bad life span) are counted in
// Skipped rather than failing the whole report.
func Build(calc *ecl.Calculator, records []*store.CreditRecord, weights []int) *Report {
	report := &Report{}
	byGrade := make(map[string]*GradeBreakdown, len(store.Grades))
	for _, g := range store.Grades {
		byGrade[g] = &GradeBreakdown{Grade: g}
	}

	var pdTotal float64
	for _, rec := range records {
		res, err := calc.Compute(rec, weights)
		if err != nil {
			report.Skipped++
			continue
		}

		report.RecordCount++
		report.TotalExposure += rec.Value
		report.TotalEAD += res.EAD
		report.TotalLGD += res.LGD
		report.TotalECL += res.ECL
		pdTotal += res.PD

		gb := byGrade[rec.RiskGrade]
		gb.RecordCount++
		gb.Exposure += rec.Value
		gb.EAD += res.EAD
		gb.ECL += res.ECL
	}

	if report.RecordCount > 0 {
		report.AveragePD = round4(pdTotal / float64(report.RecordCount))
	}
	if report.TotalExposure > 0 {
		report.CoverageRatio = round4(float64(report.TotalECL) / report.TotalExposure)
	}
	report.TotalExposure = round2(report.TotalExposure)
	report.TotalEAD = round2(report.TotalEAD)
	report.TotalLGD = round2(report.TotalLGD)

	for _, g := range store.Grades {
		gb := byGrade[g]
		gb.Exposure = round2(gb.Exposure)
		gb.EAD = round2(gb.EAD)
		report.Grades = append(report.Grades, *gb)
	}
	return report
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
