// Package pipeline carries the messages exchanged between the extraction
// worker pool and the sequential indexing gate.
package pipeline

import "docintel/domain"

// Job is one submitted document awaiting extraction. Position is the
// 0-based submission slot; the indexing gate consumes results strictly
// by position, never by completion order.
type Job struct {
	Position int
	Filename string
	Data     []byte
	Hint     domain.MediaType
}

// Result is the extraction outcome for one job. Degraded marks a
// document whose collaborator call failed: its text is empty and its
// method is MethodNone, but the document still flows through scoring,
// indexing and reporting.
type Result struct {
	Position int
	Media    domain.MediaType
	Text     string
	Method   domain.ExtractionMethod
	// Features is nil for non-audio documents and for audio documents
	// whose feature computation failed.
	Features *domain.AudioFeatures
	Degraded bool
}
