package session

import "docintel/domain"

// aggregate assembles the immutable per-document report. Pure assembly:
// inputs are never mutated, the report simply owns references to them.
func aggregate(
	doc domain.Document,
	entities domain.EntitySet,
	scores domain.ScoreSet,
	anomalies []domain.AnomalyRecord,
	narrative string,
) domain.IntelligenceReport {
	return domain.IntelligenceReport{
		Document:  doc,
		Entities:  entities,
		Scores:    scores,
		Anomalies: anomalies,
		Narrative: narrative,
	}
}
