package events

import "time"

type WeightsUpdatedEvent struct {
	Weights   []int     `json:"weights"`
	PivotSlot int       `json:"pivot_slot"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type RecordCreatedEvent struct {
	RecordID  string  `json:"record_id"`
	Borrower  string  `json:"borrower"`
	Value     float64 `json:"value"`
	RiskGrade string  `json:"risk_grade"`
}

type RecordUpdatedEvent struct {
	RecordID  string  `json:"record_id"`
	Borrower  string  `json:"borrower"`
	Value     float64 `json:"value"`
	RiskGrade string  `json:"risk_grade"`
}

type SnapshotEvent struct {
	RecordCount   int       `json:"record_count"`
	TotalExposure float64   `json:"total_exposure"`
	TotalECL      int64     `json:"total_ecl"`
	AveragePD     float64   `json:"average_pd"`
	CoverageRatio float64   `json:"coverage_ratio"`
	Timestamp     time.Time `json:"timestamp"`
}
