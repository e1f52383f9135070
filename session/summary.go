package session

import "docintel/domain"

// Summary holds the session-level counters consumed by renderers and
// exporters. It is a projection over the emitted reports; recomputing it
// from the same reports always yields the same values.
type Summary struct {
	Documents       int                        `json:"documents"`
	Degraded        int                        `json:"degraded"`
	Anomalies       map[domain.AnomalyKind]int `json:"anomalies"`
	MeanBehavioural float64                    `json:"mean_behavioural"`
	MeanFraudRisk   float64                    `json:"mean_fraud_risk"`
}

// Summarize projects the counters from an ordered report collection.
func Summarize(reports []domain.IntelligenceReport) Summary {
	summary := Summary{
		Documents: len(reports),
		Anomalies: make(map[domain.AnomalyKind]int),
	}
	if len(reports) == 0 {
		return summary
	}

	behavioural, fraud := 0, 0
	for _, report := range reports {
		if report.Document.Method == domain.MethodNone {
			summary.Degraded++
		}
		for _, record := range report.Anomalies {
			summary.Anomalies[record.Kind]++
		}
		behavioural += report.Scores.Behavioural
		fraud += report.Scores.FraudRisk
	}
	summary.MeanBehavioural = float64(behavioural) / float64(len(reports))
	summary.MeanFraudRisk = float64(fraud) / float64(len(reports))
	return summary
}

// Summary computes the counters for this session's reports.
func (s *Session) Summary() Summary {
	return Summarize(s.Reports())
}
