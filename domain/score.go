package domain

// AudioFeatures are the raw scalars supplied by the audio collaborator.
type AudioFeatures struct {
	RMS    float64 `json:"rms"`
	Tempo  float64 `json:"tempo"`
	StdDev float64 `json:"stddev"`
}

// ScoreSet is a pure function of one document's text and audio features.
// VocalTone and Stress are nil for non-audio documents.
type ScoreSet struct {
	Behavioural int  `json:"behavioural"`
	FraudRisk   int  `json:"fraud_risk"`
	VocalTone   *int `json:"vocal_tone,omitempty"`
	Stress      *int `json:"stress,omitempty"`
}
