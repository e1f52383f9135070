// Package anomaly implements the session-scoped cross-document index.
// The index is append-only and strictly ordered: anomalies for document N
// are a function of documents 1..N-1 only, and records already emitted
// are never revisited when later documents arrive.
package anomaly

import (
	"log/slog"

	"github.com/samber/lo"

	"docintel/domain"
	"docintel/errors"
)

type entry struct {
	id       domain.DocumentID
	entities domain.EntitySet
}

// Index is owned by exactly one session. It is not safe for concurrent
// use; the session pipeline feeds it through a single sequential writer.
type Index struct {
	log     *slog.Logger
	entries []entry
}

func NewIndex(log *slog.Logger) *Index {
	return &Index{log: log}
}

// Len reports how many documents have been indexed so far.
func (i *Index) Len() int {
	return len(i.entries)
}

// IndexAndCheck evaluates one document against everything indexed before
// it, then appends it. It must be called exactly once per document, in
// submission order: id must be exactly one past the last indexed id.
// Violations are contract errors, not runtime failures.
func (i *Index) IndexAndCheck(id domain.DocumentID, entities domain.EntitySet) ([]domain.AnomalyRecord, error) {
	if id != domain.DocumentID(len(i.entries)+1) {
		return nil, errors.ErrOutOfOrderIndex
	}

	var records []domain.AnomalyRecord
	records = append(records, i.intraDocumentDuplicates(id, entities)...)
	records = append(records, i.crossDocumentAmounts(id, entities)...)
	records = append(records, i.newNames(id, entities)...)

	// Append after the checks so a document is never compared against
	// itself and results depend only on the state before this call.
	i.entries = append(i.entries, entry{id: id, entities: entities})

	if len(records) > 0 {
		i.log.Debug("anomalies emitted", "document", id, "count", len(records))
	}
	return records, nil
}

// intraDocumentDuplicates emits one record per amount value repeated
// inside the same document; a third occurrence does not re-trigger.
func (i *Index) intraDocumentDuplicates(id domain.DocumentID, entities domain.EntitySet) []domain.AnomalyRecord {
	counts := make(map[string]int, len(entities.Amounts))
	for _, v := range entities.Amounts {
		counts[v]++
	}

	var records []domain.AnomalyRecord
	reported := make(map[string]struct{})
	for _, v := range entities.Amounts {
		if counts[v] < 2 {
			continue
		}
		if _, done := reported[v]; done {
			continue
		}
		reported[v] = struct{}{}
		records = append(records, domain.AnomalyRecord{
			Kind:       domain.AnomalyDuplicateAmount,
			Value:      v,
			DocumentID: id,
		})
	}
	return records
}

// crossDocumentAmounts compares the document's amounts against every
// prior entry. One record per distinct value, referencing each prior
// document where it appeared.
func (i *Index) crossDocumentAmounts(id domain.DocumentID, entities domain.EntitySet) []domain.AnomalyRecord {
	var records []domain.AnomalyRecord
	checked := make(map[string]struct{})
	for _, v := range entities.Amounts {
		if _, done := checked[v]; done {
			continue
		}
		checked[v] = struct{}{}

		var refs []domain.DocumentID
		for _, prior := range i.entries {
			if lo.Contains(prior.entities.Amounts, v) {
				refs = append(refs, prior.id)
			}
		}
		if len(refs) == 0 {
			continue
		}
		records = append(records, domain.AnomalyRecord{
			Kind:         domain.AnomalyRepeatedAmount,
			Value:        v,
			DocumentID:   id,
			ReferenceIDs: refs,
		})
	}
	return records
}

// newNames compares against the session baseline: the first document
// ever indexed, never the cumulative index. A name introduced in
// document 2 and repeated in document 3 is therefore flagged for both.
// The baseline document itself never produces this kind.
func (i *Index) newNames(id domain.DocumentID, entities domain.EntitySet) []domain.AnomalyRecord {
	if len(i.entries) == 0 {
		return nil
	}
	baseline := i.entries[0]

	var records []domain.AnomalyRecord
	seen := make(map[string]struct{})
	for _, name := range entities.Names {
		if _, done := seen[name]; done {
			continue
		}
		seen[name] = struct{}{}
		if lo.Contains(baseline.entities.Names, name) {
			continue
		}
		records = append(records, domain.AnomalyRecord{
			Kind:         domain.AnomalyNewName,
			Value:        name,
			DocumentID:   id,
			ReferenceIDs: []domain.DocumentID{baseline.id},
		})
	}
	return records
}
