// Package session owns one processing session: the submitted documents,
// the anomaly index and the ordered report collection. Extraction runs on
// a supervised worker pool; indexing happens behind a single sequential
// gate keyed by submission order, never by completion order.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"

	"docintel/anomaly"
	"docintel/contract"
	"docintel/domain"
	"docintel/domain/pipeline"
	"docintel/errors"
	"docintel/extraction"
	"docintel/runtime/workers"
	"docintel/scoring"
)

// Collaborators are the external boundary services. Text is required;
// the others degrade per the error taxonomy when absent or failing.
type Collaborators struct {
	Text      contract.TextExtractor
	Audio     contract.AudioFeatureProvider
	Narrative contract.NarrativeGenerator
	Sinks     []contract.ReportSink
}

type Options struct {
	Workers          int
	ExtractTimeout   time.Duration
	NarrativeTimeout time.Duration
	RestartInterval  time.Duration
	MonitorInterval  time.Duration
	// Lexicons default to the scoring package defaults when nil.
	Uncertainty []string
	Fraud       []string
}

func (o *Options) applyDefaults() {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.ExtractTimeout <= 0 {
		o.ExtractTimeout = 30 * time.Second
	}
	if o.NarrativeTimeout <= 0 {
		o.NarrativeTimeout = 20 * time.Second
	}
	if o.RestartInterval <= 0 {
		o.RestartInterval = 200 * time.Millisecond
	}
	if o.Uncertainty == nil {
		o.Uncertainty = scoring.DefaultUncertaintyLexicon
	}
	if o.Fraud == nil {
		o.Fraud = scoring.DefaultFraudLexicon
	}
}

type submission struct {
	filename string
	data     []byte
	hint     domain.MediaType
}

// Session is safe for concurrent Submit calls while open. Finalize runs
// exactly once; afterwards the session is sealed and both Submit and a
// second Finalize return ErrSessionFinalized.
type Session struct {
	id     string
	log    *slog.Logger
	opts   Options
	collab Collaborators

	extractor *extraction.Extractor
	scorer    *scoring.Scorer
	index     *anomaly.Index

	mu        sync.Mutex
	pending   []submission
	finalized bool
	reports   []domain.IntelligenceReport
}

func NewSession(log *slog.Logger, collab Collaborators, opts Options) (*Session, error) {
	if collab.Text == nil {
		return nil, fmt.Errorf("session requires a text extractor")
	}
	opts.applyDefaults()

	scorer, err := scoring.NewScorer(opts.Uncertainty, opts.Fraud)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	return &Session{
		id:        id,
		log:       log.With("session", id),
		opts:      opts,
		collab:    collab,
		extractor: extraction.NewExtractor(),
		scorer:    scorer,
		index:     anomaly.NewIndex(log),
	}, nil
}

func (s *Session) ID() string {
	return s.id
}

// Submit queues a document for processing and returns the DocumentID it
// will carry, assigned monotonically in submission order.
func (s *Session) Submit(filename string, data []byte, hint domain.MediaType) (domain.DocumentID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return 0, errors.ErrSessionFinalized
	}
	s.pending = append(s.pending, submission{filename: filename, data: data, hint: hint})
	return domain.DocumentID(len(s.pending)), nil
}

// Finalize processes every submitted document and returns the reports in
// submission order. Extraction runs concurrently; scoring, indexing and
// aggregation run sequentially behind the ordered gate.
func (s *Session) Finalize(ctx context.Context) ([]domain.IntelligenceReport, error) {
	s.mu.Lock()
	if s.finalized {
		s.mu.Unlock()
		return nil, errors.ErrSessionFinalized
	}
	s.finalized = true
	batch := s.pending
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil, nil
	}

	results, err := s.extractAll(ctx, batch)
	if err != nil {
		return nil, err
	}

	reports := make([]domain.IntelligenceReport, 0, len(batch))
	for position, sub := range batch {
		report, err := s.processOne(ctx, sub, results[position])
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
		s.dispatch(ctx, report)
	}

	// Published in one locked write; Reports and Summary may be polled
	// from other goroutines while the batch is still running.
	s.mu.Lock()
	s.reports = reports
	s.mu.Unlock()

	s.log.Info("Session finalized",
		"documents", len(reports), "indexed", s.index.Len())
	return reports, nil
}

// extractAll fans the batch out to the worker pool and collects results
// into per-position slots, restoring submission order regardless of
// which extraction finished first.
func (s *Session) extractAll(ctx context.Context, batch []submission) ([]pipeline.Result, error) {
	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan pipeline.Job, len(batch))
	resultChan := make(chan pipeline.Result, len(batch))

	poolSize := s.opts.Workers
	if poolSize > len(batch) {
		poolSize = len(batch)
	}

	var processed atomic.Int64
	supervisor := workers.NewSupervisor(s.log, s.opts.RestartInterval)
	for range poolSize {
		supervisor.Add(workers.NewExtractionWorker(
			s.log, s.collab.Text, s.collab.Audio,
			s.opts.ExtractTimeout, jobs, resultChan,
		))
	}
	if s.opts.MonitorInterval > 0 {
		supervisor.Add(workers.NewMonitorWorker(
			s.log, s.opts.MonitorInterval, &processed, len(batch),
		))
	}

	supervisorDone := make(chan struct{})
	go func() {
		supervisor.Run(poolCtx)
		close(supervisorDone)
	}()

	for position, sub := range batch {
		jobs <- pipeline.Job{
			Position: position,
			Filename: sub.filename,
			Data:     sub.data,
			Hint:     sub.hint,
		}
	}
	close(jobs)

	results := make([]pipeline.Result, len(batch))
	for received := 0; received < len(batch); received++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-resultChan:
			results[result.Position] = result
			processed.Add(1)
		}
	}

	cancel()
	<-supervisorDone
	return results, nil
}

// processOne is the sequential gate body: build the immutable document,
// extract entities, score, query-then-update the index, aggregate.
func (s *Session) processOne(ctx context.Context, sub submission, result pipeline.Result) (domain.IntelligenceReport, error) {
	docID := domain.DocumentID(result.Position + 1)
	doc := domain.Document{
		ID:       docID,
		Filename: sub.filename,
		Media:    result.Media,
		Text:     result.Text,
		Method:   result.Method,
		Language: detectLanguage(result.Text),
	}

	entities := s.extractor.Extract(doc.Text)

	scores := s.scorer.ScoreText(doc.Text)
	if doc.Media == domain.MediaAudio {
		tone, stress := 0, 0
		if result.Features != nil {
			tone, stress = s.scorer.ScoreAudio(*result.Features)
		}
		scores.VocalTone = &tone
		scores.Stress = &stress
	}

	anomalies, err := s.index.IndexAndCheck(docID, entities)
	if err != nil {
		// Contract violation, not a document failure: abort loudly.
		return domain.IntelligenceReport{}, fmt.Errorf("indexing document %d: %w", docID, err)
	}

	narrative := s.generateNarrative(ctx, doc)
	return aggregate(doc, entities, scores, anomalies, narrative), nil
}

// generateNarrative is best-effort: an unavailable or failing generator
// degrades to the fixed placeholder, never fails the document.
func (s *Session) generateNarrative(ctx context.Context, doc domain.Document) string {
	if s.collab.Narrative == nil || doc.Text == "" {
		return domain.NarrativePlaceholder
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.NarrativeTimeout)
	defer cancel()

	narrative, err := s.collab.Narrative.Generate(callCtx, doc.Text)
	if err != nil {
		s.log.Warn("Narrative degraded to placeholder",
			"document", doc.ID, "error", err)
		return domain.NarrativePlaceholder
	}
	return narrative
}

func (s *Session) dispatch(ctx context.Context, report domain.IntelligenceReport) {
	for _, sink := range s.collab.Sinks {
		if err := sink.Consume(ctx, s.id, report); err != nil {
			s.log.Error("Report sink failed", "document", report.Document.ID, "error", err)
		}
	}
}

// Reports returns the session report collection in processing order;
// empty until Finalize completes.
func (s *Session) Reports() []domain.IntelligenceReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports
}

// IndexedCount exposes the index length; after Finalize it always
// equals len(Reports()).
func (s *Session) IndexedCount() int {
	return s.index.Len()
}

func detectLanguage(text string) string {
	if text == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	return info.Lang.Iso6391()
}
