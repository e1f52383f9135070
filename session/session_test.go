package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docintel/contract"
	"docintel/domain"
	"docintel/errors"
)

type fakeExtractor struct {
	// failFor degrades specific payloads, panicFor crashes on them;
	// delays slow specific ones down to shuffle completion order.
	failFor  map[string]bool
	panicFor map[string]bool
	delays   map[string]time.Duration
}

func (f *fakeExtractor) Extract(_ context.Context, data []byte, _ domain.MediaType) (string, domain.ExtractionMethod, error) {
	text := string(data)
	if f.delays != nil {
		time.Sleep(f.delays[text])
	}
	if f.panicFor != nil && f.panicFor[text] {
		panic("corrupt decoder state")
	}
	if f.failFor != nil && f.failFor[text] {
		return "", domain.MethodNone, fmt.Errorf("%w: simulated outage", errors.ErrExtraction)
	}
	return text, domain.MethodNative, nil
}

type fakeNarrative struct {
	fail bool
}

func (f *fakeNarrative) Generate(_ context.Context, text string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("%w: model unavailable", errors.ErrNarrative)
	}
	return "summary of: " + text, nil
}

type recordingSink struct {
	mu      sync.Mutex
	session string
	reports []domain.IntelligenceReport
}

func (s *recordingSink) Consume(_ context.Context, sessionID string, report domain.IntelligenceReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sessionID
	s.reports = append(s.reports, report)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, collab Collaborators, opts Options) *Session {
	t.Helper()
	if collab.Text == nil {
		collab.Text = &fakeExtractor{}
	}
	sess, err := NewSession(testLogger(), collab, opts)
	require.NoError(t, err)
	return sess
}

func TestNewSession_RequiresTextExtractor(t *testing.T) {
	_, err := NewSession(testLogger(), Collaborators{}, Options{})
	require.Error(t, err)
}

func TestSession_FullPipeline(t *testing.T) {
	req := require.New(t)
	sink := &recordingSink{}
	sess := newTestSession(t, Collaborators{Sinks: []contract.ReportSink{sink}}, Options{Workers: 2})

	docs := []string{
		"Paid £100 to John Smith on 12/05/2024",
		"Received £100 from Jane Doe, probably a scam",
		"Nothing remarkable here",
	}
	for i, text := range docs {
		id, err := sess.Submit(fmt.Sprintf("doc%d.txt", i+1), []byte(text), domain.MediaText)
		req.NoError(err)
		req.Equal(domain.DocumentID(i+1), id)
	}

	reports, err := sess.Finalize(context.Background())
	req.NoError(err)
	req.Len(reports, 3)
	req.Equal(len(reports), sess.IndexedCount())

	// Reports come back in submission order regardless of worker timing.
	for i, report := range reports {
		req.Equal(domain.DocumentID(i+1), report.Document.ID)
		req.Equal(fmt.Sprintf("doc%d.txt", i+1), report.Document.Filename)
		req.Equal(docs[i], report.Document.Text)
	}

	// Document 1 is the baseline: no anomalies.
	req.Empty(reports[0].Anomalies)
	req.Equal(100, reports[0].Scores.Behavioural)
	req.Equal(0, reports[0].Scores.FraudRisk)

	// Document 2 repeats £100 and introduces Jane Doe.
	req.Len(reports[1].Anomalies, 2)
	req.Equal(domain.AnomalyRepeatedAmount, reports[1].Anomalies[0].Kind)
	req.Equal("£100", reports[1].Anomalies[0].Value)
	req.Equal([]domain.DocumentID{1}, reports[1].Anomalies[0].ReferenceIDs)
	req.Equal(domain.AnomalyNewName, reports[1].Anomalies[1].Kind)
	req.Equal("Jane Doe", reports[1].Anomalies[1].Value)

	// "scam" is a fraud keyword; "probably" is not in the hedge lexicon.
	req.Equal(100, reports[1].Scores.Behavioural)
	req.Equal(20, reports[1].Scores.FraudRisk)

	// No narrative generator configured.
	for _, report := range reports {
		req.Equal(domain.NarrativePlaceholder, report.Narrative)
		req.Nil(report.Scores.VocalTone)
		req.Nil(report.Scores.Stress)
	}

	// Every report reached the sink, in order.
	req.Equal(sess.ID(), sink.session)
	req.Equal(reports, sink.reports)
}

func TestSession_SealedAfterFinalize(t *testing.T) {
	req := require.New(t)
	sess := newTestSession(t, Collaborators{}, Options{})

	_, err := sess.Submit("a.txt", []byte("first"), domain.MediaText)
	req.NoError(err)

	_, err = sess.Finalize(context.Background())
	req.NoError(err)

	_, err = sess.Submit("b.txt", []byte("late"), domain.MediaText)
	req.ErrorIs(err, errors.ErrSessionFinalized)

	_, err = sess.Finalize(context.Background())
	req.ErrorIs(err, errors.ErrSessionFinalized)
}

func TestSession_EmptyFinalize(t *testing.T) {
	req := require.New(t)
	sess := newTestSession(t, Collaborators{}, Options{})

	reports, err := sess.Finalize(context.Background())
	req.NoError(err)
	req.Empty(reports)
	req.Zero(sess.IndexedCount())
}

func TestSession_DegradationIsolatesDocument(t *testing.T) {
	req := require.New(t)
	text := &fakeExtractor{failFor: map[string]bool{"broken payload": true}}
	sess := newTestSession(t, Collaborators{Text: text}, Options{Workers: 2})

	_, err := sess.Submit("ok1.txt", []byte("Paid £75 to Alice Brown"), domain.MediaText)
	req.NoError(err)
	_, err = sess.Submit("bad.txt", []byte("broken payload"), domain.MediaText)
	req.NoError(err)
	_, err = sess.Submit("ok2.txt", []byte("Refund of £75 issued"), domain.MediaText)
	req.NoError(err)

	reports, err := sess.Finalize(context.Background())
	req.NoError(err)
	req.Len(reports, 3)

	// The degraded document still occupies its slot with empty text.
	degraded := reports[1]
	req.Equal(domain.DocumentID(2), degraded.Document.ID)
	req.Empty(degraded.Document.Text)
	req.Equal(domain.MethodNone, degraded.Document.Method)
	req.True(degraded.Entities.IsEmpty())
	req.Equal(domain.NarrativePlaceholder, degraded.Narrative)

	// Its siblings are untouched and still correlate across it.
	req.Len(reports[2].Anomalies, 1)
	req.Equal(domain.AnomalyRepeatedAmount, reports[2].Anomalies[0].Kind)
	req.Equal([]domain.DocumentID{1}, reports[2].Anomalies[0].ReferenceIDs)

	summary := sess.Summary()
	req.Equal(3, summary.Documents)
	req.Equal(1, summary.Degraded)
}

func TestSession_PanickingExtractorDoesNotStallFinalize(t *testing.T) {
	req := require.New(t)
	text := &fakeExtractor{panicFor: map[string]bool{"haunted payload": true}}
	sess := newTestSession(t, Collaborators{Text: text}, Options{Workers: 2})

	_, err := sess.Submit("good.txt", []byte("Paid £40 to Alice Brown"), domain.MediaText)
	req.NoError(err)
	_, err = sess.Submit("bad.txt", []byte("haunted payload"), domain.MediaText)
	req.NoError(err)

	// The batch must complete well before the deadline: a panicking
	// collaborator degrades its document instead of losing the result.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	reports, err := sess.Finalize(ctx)
	req.NoError(err)
	req.Len(reports, 2)

	req.Equal("Paid £40 to Alice Brown", reports[0].Document.Text)
	req.Empty(reports[1].Document.Text)
	req.Equal(domain.MethodNone, reports[1].Document.Method)
	req.Equal(1, sess.Summary().Degraded)
}

func TestSession_ReportsSafeWhileFinalizing(t *testing.T) {
	req := require.New(t)
	text := &fakeExtractor{delays: map[string]time.Duration{
		"slow body": 100 * time.Millisecond,
	}}
	sess := newTestSession(t, Collaborators{Text: text}, Options{Workers: 1})

	_, err := sess.Submit("slow.txt", []byte("slow body"), domain.MediaText)
	req.NoError(err)

	// Poll the read side while Finalize runs; the report collection is
	// only published once, under the lock.
	stop := make(chan struct{})
	polled := make(chan struct{})
	go func() {
		defer close(polled)
		for {
			select {
			case <-stop:
				return
			default:
				_ = sess.Reports()
				_ = sess.Summary()
			}
		}
	}()

	reports, err := sess.Finalize(context.Background())
	close(stop)
	<-polled

	req.NoError(err)
	req.Len(reports, 1)
	req.Equal(reports, sess.Reports())
	req.Equal(1, sess.Summary().Documents)
}

func TestSession_OrderIndependentOfCompletionOrder(t *testing.T) {
	req := require.New(t)

	// The first submitted document finishes last.
	text := &fakeExtractor{delays: map[string]time.Duration{
		"Invoice for £300 from Acme Holdings Ltd": 150 * time.Millisecond,
		"Reminder about £300":                     10 * time.Millisecond,
	}}
	sess := newTestSession(t, Collaborators{Text: text}, Options{Workers: 4})

	_, err := sess.Submit("slow.txt", []byte("Invoice for £300 from Acme Holdings Ltd"), domain.MediaText)
	req.NoError(err)
	_, err = sess.Submit("fast.txt", []byte("Reminder about £300"), domain.MediaText)
	req.NoError(err)

	reports, err := sess.Finalize(context.Background())
	req.NoError(err)
	req.Len(reports, 2)
	req.Equal("slow.txt", reports[0].Document.Filename)
	req.Equal("fast.txt", reports[1].Document.Filename)

	// Submission order decides who flags the repeat: the fast document
	// came second, so it carries the anomaly.
	req.Empty(reports[0].Anomalies)
	req.Len(reports[1].Anomalies, 1)
	req.Equal(domain.AnomalyRepeatedAmount, reports[1].Anomalies[0].Kind)
}

func TestSession_NarrativeGeneration(t *testing.T) {
	req := require.New(t)

	t.Run("Generator output used", func(t *testing.T) {
		sess := newTestSession(t, Collaborators{Narrative: &fakeNarrative{}}, Options{})
		_, err := sess.Submit("a.txt", []byte("wire transfer confirmed"), domain.MediaText)
		req.NoError(err)

		reports, err := sess.Finalize(context.Background())
		req.NoError(err)
		req.Equal("summary of: wire transfer confirmed", reports[0].Narrative)
	})

	t.Run("Generator failure degrades to placeholder", func(t *testing.T) {
		sess := newTestSession(t, Collaborators{Narrative: &fakeNarrative{fail: true}}, Options{})
		_, err := sess.Submit("a.txt", []byte("wire transfer confirmed"), domain.MediaText)
		req.NoError(err)

		reports, err := sess.Finalize(context.Background())
		req.NoError(err)
		req.Equal(domain.NarrativePlaceholder, reports[0].Narrative)
	})

	t.Run("Empty text skips the generator", func(t *testing.T) {
		text := &fakeExtractor{failFor: map[string]bool{"x": true}}
		sess := newTestSession(t, Collaborators{Text: text, Narrative: &fakeNarrative{}}, Options{})
		_, err := sess.Submit("a.bin", []byte("x"), domain.MediaText)
		req.NoError(err)

		reports, err := sess.Finalize(context.Background())
		req.NoError(err)
		req.Equal(domain.NarrativePlaceholder, reports[0].Narrative)
	})
}

func TestSession_Deterministic(t *testing.T) {
	req := require.New(t)

	run := func() []domain.IntelligenceReport {
		sess := newTestSession(t, Collaborators{}, Options{Workers: 3})
		batch := []string{
			"Paid £100 and £100 again to John Smith",
			"maybe it was £100, says Jane Doe",
			"definitely fake, fraud even, £200",
		}
		for i, text := range batch {
			_, err := sess.Submit(fmt.Sprintf("d%d.txt", i), []byte(text), domain.MediaText)
			req.NoError(err)
		}
		reports, err := sess.Finalize(context.Background())
		req.NoError(err)
		return reports
	}

	first := run()
	second := run()
	req.Equal(first, second)
}

func TestSummarize(t *testing.T) {
	req := require.New(t)

	req.Equal(Summary{Anomalies: map[domain.AnomalyKind]int{}}, Summarize(nil))

	reports := []domain.IntelligenceReport{
		{
			Document: domain.Document{ID: 1, Method: domain.MethodNative},
			Scores:   domain.ScoreSet{Behavioural: 100, FraudRisk: 0},
		},
		{
			Document: domain.Document{ID: 2, Method: domain.MethodNone},
			Scores:   domain.ScoreSet{Behavioural: 80, FraudRisk: 40},
			Anomalies: []domain.AnomalyRecord{
				{Kind: domain.AnomalyNewName, Value: "Jane Doe", DocumentID: 2},
				{Kind: domain.AnomalyRepeatedAmount, Value: "£10", DocumentID: 2},
			},
		},
	}

	summary := Summarize(reports)
	req.Equal(2, summary.Documents)
	req.Equal(1, summary.Degraded)
	req.Equal(1, summary.Anomalies[domain.AnomalyNewName])
	req.Equal(1, summary.Anomalies[domain.AnomalyRepeatedAmount])
	req.InDelta(90.0, summary.MeanBehavioural, 1e-9)
	req.InDelta(20.0, summary.MeanFraudRisk, 1e-9)
}
