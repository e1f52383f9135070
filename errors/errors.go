package errors

import "fmt"

var (
	ErrWorkerPanic  = fmt.Errorf("worker panic")
	ErrEmptyLexicon = fmt.Errorf("no lexicon words have been provided")

	// Degradation class: a single document's collaborator failed.
	// The batch continues, the document is degraded instead.
	ErrExtraction         = fmt.Errorf("text extraction failed")
	ErrFeatureComputation = fmt.Errorf("audio feature computation failed")
	ErrNarrative          = fmt.Errorf("narrative generation failed")
	ErrUnsupportedMedia   = fmt.Errorf("unsupported media type")

	// Contract-violation class: caller bugs, treated as fatal.
	ErrOutOfOrderIndex  = fmt.Errorf("document indexed out of submission order")
	ErrSessionFinalized = fmt.Errorf("session is already finalized")
)
