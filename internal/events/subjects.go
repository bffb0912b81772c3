package events

const (
	SubjectWeightsUpdated    = "risk.weights.updated"
	SubjectPortfolioSnapshot = "risk.portfolio.snapshot"

	StreamName   = "PROVISION_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectRecordCreated(recordID string) string { return "risk.record." + recordID + ".created" }
func SubjectRecordUpdated(recordID string) string { return "risk.record." + recordID + ".updated" }
