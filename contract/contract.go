//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"docintel/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// initialization or lifecycle events, avoiding the need for manual naming
// in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// TextExtractor is the OCR/ASR/text-layer boundary. Failures are consumed
// as document-scoped degradations, never as batch failures.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, media domain.MediaType) (string, domain.ExtractionMethod, error)
}

// AudioFeatureProvider computes raw signal scalars for audio documents.
type AudioFeatureProvider interface {
	Analyze(ctx context.Context, data []byte) (domain.AudioFeatures, error)
}

// NarrativeGenerator produces a best-effort free-text summary.
type NarrativeGenerator interface {
	Generate(ctx context.Context, text string) (string, error)
}

// ReportSink receives finalized reports in processing order. Renderers,
// exporters and stores implement this.
type ReportSink interface {
	Consume(ctx context.Context, sessionID string, report domain.IntelligenceReport) error
}
