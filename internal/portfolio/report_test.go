package portfolio

import (
	"math"
	"testing"

	"github.com/FairviewRisk/provision/internal/collateral"
	"github.com/FairviewRisk/provision/internal/ecl"
	"github.com/FairviewRisk/provision/internal/store"
)

var testWeights = []int{30, 25, 20, 15, 10}

func testCalculator(t *testing.T) *ecl.Calculator {
	t.Helper()
	table, err := collateral.NewTable(map[string][]float64{
		"A": {0.90, 0.85, 0.80, 0.75},
		"B": {0.70, 0.65, 0.60, 0.55},
	}, []float64{0.40, 0.30, 0.20, 0.10})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	return ecl.NewCalculator(table, ecl.FixedClock(2026))
}

func TestBuildEmptyPortfolio(t *testing.T) {
	report := Build(testCalculator(t), nil, testWeights)
	if report.RecordCount != 0 {
		t.Errorf("record count = %d, want 0", report.RecordCount)
	}
	if report.AveragePD != 0 || report.CoverageRatio != 0 {
		t.Errorf("empty portfolio should have zero ratios, got %+v", report)
	}
	if len(report.Grades) != len(store.Grades) {
		t.Errorf("grade breakdown has %d entries, want %d", len(report.Grades), len(store.Grades))
	}
}

func TestBuildAggregates(t *testing.T) {
	records := []*store.CreditRecord{
		{
			Borrower: "acme", Value: 100000,
			OriginationYear: 2020, MaturityYear: 2030,
			RiskGrade: "C", RiskScore: 0.40,
			CollateralCategory: "A", CollateralValue: 40000,
		},
		{
			Borrower: "globex", Value: 50000,
			OriginationYear: 2024, MaturityYear: 2028,
			RiskGrade: "A", RiskScore: 0.10,
			CollateralCategory: "B", CollateralValue: 10000,
		},
	}

	report := Build(testCalculator(t), records, testWeights)

	if report.RecordCount != 2 {
		t.Fatalf("record count = %d, want 2", report.RecordCount)
	}
	if report.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", report.Skipped)
	}
	if math.Abs(report.TotalExposure-150000) > 0.001 {
		t.Errorf("total exposure = %f, want 150000", report.TotalExposure)
	}

	// acme: EAD 40000, LGD 6000, PD 0.08, ECL 480
	// globex: EAD 25000, LGD 25000-10000*0.65=18500, PD 0.10*0.30=0.03, ECL 555
	if math.Abs(report.TotalEAD-65000) > 0.001 {
		t.Errorf("total EAD = %f, want 65000", report.TotalEAD)
	}
	if report.TotalECL != 1035 {
		t.Errorf("total ECL = %d, want 1035", report.TotalECL)
	}
	if math.Abs(report.AveragePD-0.055) > 0.0001 {
		t.Errorf("average PD = %f, want 0.055", report.AveragePD)
	}
	if math.Abs(report.CoverageRatio-0.0069) > 0.0001 {
		t.Errorf("coverage ratio = %f, want 0.0069", report.CoverageRatio)
	}

	for _, gb := range report.Grades {
		switch gb.Grade {
		case "A":
			if gb.RecordCount != 1 || gb.ECL != 555 {
				t.Errorf("grade A breakdown = %+v", gb)
			}
		case "C":
			if gb.RecordCount != 1 || gb.ECL != 480 {
				t.Errorf("grade C breakdown = %+v", gb)
			}
		default:
			if gb.RecordCount != 0 {
				t.Errorf("grade %s should be empty, got %+v", gb.Grade, gb)
			}
		}
	}
}

func TestBuildSkipsBadRecords(t *testing.T) {
	records := []*store.CreditRecord{
		{
			Borrower: "acme", Value: 100000,
			OriginationYear: 2020, MaturityYear: 2030,
			RiskGrade: "C", RiskScore: 0.40,
			CollateralCategory: "A", CollateralValue: 40000,
		},
		{
			Borrower: "broken", Value: 1000,
			OriginationYear: 2030, MaturityYear: 2030,
			RiskGrade: "C", RiskScore: 0.40,
			CollateralCategory: "A",
		},
		{
			Borrower: "badgrade", Value: 1000,
			OriginationYear: 2020, MaturityYear: 2030,
			RiskGrade: "Z", RiskScore: 0.40,
			CollateralCategory: "A",
		},
	}

	report := Build(testCalculator(t), records, testWeights)
	if report.RecordCount != 1 {
		t.Errorf("record count = %d, want 1", report.RecordCount)
	}
	if report.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", report.Skipped)
	}
}
