//go:generate go run go.uber.org/mock/mockgen -source=report.go -destination=../mocks/mock_report_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"docintel/contract"
	"docintel/domain"
)

type IReportRepository interface {
	Store(sessionID string, report domain.IntelligenceReport) error
	ListBySession(sessionID string) ([]domain.IntelligenceReport, error)
}

var _ contract.ReportSink = (*ReportRepository)(nil)

// ReportRepository persists finalized reports in BadgerDB. The key is
// "report:{session}:{doc id, zero padded}" so a prefix scan returns a
// session's reports in processing order without sorting.
type ReportRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewReportRepository(db *badger.DB, log *slog.Logger) *ReportRepository {
	return &ReportRepository{db: db, log: log}
}

func reportKey(sessionID string, docID domain.DocumentID) []byte {
	return []byte(fmt.Sprintf("report:%s:%06d", sessionID, docID))
}

func (r *ReportRepository) Store(sessionID string, report domain.IntelligenceReport) error {
	value, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reportKey(sessionID, report.Document.ID), value)
	})
}

// ListBySession retrieves every stored report of one session, ordered by
// document id thanks to the padded key.
func (r *ReportRepository) ListBySession(sessionID string) ([]domain.IntelligenceReport, error) {
	var reports []domain.IntelligenceReport
	prefix := []byte(fmt.Sprintf("report:%s:", sessionID))

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var report domain.IntelligenceReport
				if err := json.Unmarshal(v, &report); err != nil {
					return err
				}
				reports = append(reports, report)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// Consume implements contract.ReportSink so the repository can sit
// directly on the session's sink list.
func (r *ReportRepository) Consume(_ context.Context, sessionID string, report domain.IntelligenceReport) error {
	return r.Store(sessionID, report)
}
