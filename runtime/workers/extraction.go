package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docintel/contract"
	"docintel/domain"
	"docintel/domain/pipeline"
	"docintel/errors"
)

// Ensure *ExtractionWorker implements the contract.Worker interface at
// compile time.
var _ contract.Worker = (*ExtractionWorker)(nil)

// ExtractionWorker drains the job channel and runs the blocking
// collaborator calls (OCR/ASR/text layer, audio features) for one
// document at a time. Extraction has no ordering dependency between
// documents, so several workers run in parallel; ordering is restored
// downstream by the indexing gate.
type ExtractionWorker struct {
	log     *slog.Logger
	text    contract.TextExtractor
	audio   contract.AudioFeatureProvider
	timeout time.Duration
	jobs    <-chan pipeline.Job
	results chan<- pipeline.Result
}

func NewExtractionWorker(
	log *slog.Logger,
	text contract.TextExtractor,
	audio contract.AudioFeatureProvider,
	timeout time.Duration,
	jobs <-chan pipeline.Job,
	results chan<- pipeline.Result,
) *ExtractionWorker {
	return &ExtractionWorker{
		log:     log,
		text:    text,
		audio:   audio,
		timeout: timeout,
		jobs:    jobs,
		results: results,
	}
}

func (w *ExtractionWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job, ok := <-w.jobs:
			if !ok {
				return nil
			}
			result := w.process(ctx, job)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case w.results <- result:
			}
		}
	}
}

// process never fails the batch: any collaborator error or panic
// degrades this single document and the result is emitted regardless.
// Losing a result would stall the receive loop waiting for the batch.
func (w *ExtractionWorker) process(ctx context.Context, job pipeline.Job) pipeline.Result {
	result := pipeline.Result{
		Position: job.Position,
		Media:    domain.DetectMedia(job.Data, job.Hint),
		Method:   domain.MethodNone,
	}

	callCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	text, method, err := w.extractText(callCtx, job.Data, result.Media)
	if err != nil {
		w.log.Warn("Extraction degraded to empty text",
			"file", job.Filename, "media", result.Media, "error", err)
		result.Degraded = true
	} else {
		result.Text = text
		result.Method = method
	}

	// Feature computation is an independent collaborator: a failed
	// transcription does not prevent it from running.
	if result.Media == domain.MediaAudio && w.audio != nil {
		featCtx, featCancel := context.WithTimeout(ctx, w.timeout)
		defer featCancel()

		features, err := w.analyze(featCtx, job.Data)
		if err != nil {
			w.log.Warn("Audio feature computation failed, scores degrade to 0",
				"file", job.Filename, "error", err)
		} else {
			result.Features = &features
		}
	}
	return result
}

// extractText shields the pipeline from a panicking collaborator by
// converting the panic into an extraction error. Supervisor restarts
// stay reserved for worker infrastructure failures.
func (w *ExtractionWorker) extractText(ctx context.Context, data []byte, media domain.MediaType) (text string, method domain.ExtractionMethod, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, method = "", domain.MethodNone
			err = fmt.Errorf("%w: collaborator panic: %v", errors.ErrExtraction, r)
		}
	}()
	return w.text.Extract(ctx, data, media)
}

func (w *ExtractionWorker) analyze(ctx context.Context, data []byte) (features domain.AudioFeatures, err error) {
	defer func() {
		if r := recover(); r != nil {
			features = domain.AudioFeatures{}
			err = fmt.Errorf("%w: collaborator panic: %v", errors.ErrFeatureComputation, r)
		}
	}()
	return w.audio.Analyze(ctx, data)
}
