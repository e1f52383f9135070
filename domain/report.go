package domain

// NarrativePlaceholder replaces the narrative when the generator is
// unavailable or failed; the report is still emitted.
const NarrativePlaceholder = "narrative unavailable"

// IntelligenceReport is the immutable per-document aggregation result.
type IntelligenceReport struct {
	Document  Document        `json:"document"`
	Entities  EntitySet       `json:"entities"`
	Scores    ScoreSet        `json:"scores"`
	Anomalies []AnomalyRecord `json:"anomalies"`
	Narrative string          `json:"narrative,omitempty"`
}
