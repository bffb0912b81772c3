package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Grades lists the five risk grades in weight-slot order: the weight at
// index i applies to records carrying Grades[i].
var Grades = [5]string{"A", "B", "C", "D", "E"}

// GradeSlot returns the weight-vector index for a risk grade, or -1 for
// an unknown grade.
func GradeSlot(grade string) int {
	for i, g := range Grades {
		if g == grade {
			return i
		}
	}
	return -1
}

// CreditRecord is one credit exposure in the portfolio.
type CreditRecord struct {
	ID       uuid.UUID `json:"id"`
	Borrower string    `json:"borrower"`

	// Exposure
	Value           float64 `json:"value"`
	OriginationYear int     `json:"origination_year"`
	MaturityYear    int     `json:"maturity_year"`

	// Risk inputs
	RiskGrade string  `json:"risk_grade"`
	RiskScore float64 `json:"risk_score"`

	// Collateral
	CollateralCategory string  `json:"collateral_category"`
	CollateralValue    float64 `json:"collateral_value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RecordFilter struct {
	Grade    string
	Category string
	Borrower string
	Limit    int
	Offset   int
}

// RiskWeights is the persisted 5-slot percentage-point allocation.
type RiskWeights struct {
	Weights   []int     `json:"weights"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is one persisted portfolio revaluation result.
type Snapshot struct {
	ID            uuid.UUID `json:"id"`
	RecordCount   int       `json:"record_count"`
	TotalExposure float64   `json:"total_exposure"`
	TotalEAD      float64   `json:"total_ead"`
	TotalECL      int64     `json:"total_ecl"`
	AveragePD     float64   `json:"average_pd"`
	CoverageRatio float64   `json:"coverage_ratio"`
	CreatedAt     time.Time `json:"created_at"`
}

type Store interface {
	CreateCreditRecord(ctx context.Context, rec *CreditRecord) error
	GetCreditRecord(ctx context.Context, id uuid.UUID) (*CreditRecord, error)
	ListCreditRecords(ctx context.Context, filter RecordFilter) ([]*CreditRecord, error)
	UpdateCreditRecord(ctx context.Context, rec *CreditRecord) error

	GetRiskWeights(ctx context.Context) (*RiskWeights, error)
	SaveRiskWeights(ctx context.Context, w *RiskWeights) error

	SaveSnapshot(ctx context.Context, s *Snapshot) error
	ListSnapshots(ctx context.Context, limit int) ([]*Snapshot, error)

	Close() error
}
