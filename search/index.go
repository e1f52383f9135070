// Package search maintains a full-text index over each session's
// extracted document text, so investigators can locate which uploaded
// document mentioned a term.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/blugelabs/bluge"

	"docintel/contract"
	"docintel/domain"
)

var _ contract.ReportSink = (*Index)(nil)

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func Open(path string, log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	return &Index{writer: writer, log: log}, nil
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// Consume indexes one finalized report. Documents whose extraction
// degraded to empty text are skipped: there is nothing to search.
func (i *Index) Consume(_ context.Context, sessionID string, report domain.IntelligenceReport) error {
	if report.Document.Text == "" {
		return nil
	}

	docKey := fmt.Sprintf("%s:%06d", sessionID, report.Document.ID)
	doc := bluge.NewDocument(docKey).
		AddField(bluge.NewKeywordField("session", sessionID)).
		AddField(bluge.NewTextField("content", report.Document.Text)).
		AddField(bluge.NewKeywordField("filename", report.Document.Filename).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Hit is one matching document within the searched session.
type Hit struct {
	DocumentID domain.DocumentID
	Filename   string
}

// Search runs a match query over the extracted text of one session.
func (i *Index) Search(ctx context.Context, sessionID, terms string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Debug("Error while closing bluge reader", "error", err)
		}
	}()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(sessionID).SetField("session")).
		AddMust(bluge.NewMatchQuery(terms).SetField("content"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		hit := Hit{}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.DocumentID = parseDocID(string(value))
			case "filename":
				hit.Filename = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func parseDocID(key string) domain.DocumentID {
	idx := strings.LastIndexByte(key, ':')
	if idx < 0 {
		return 0
	}
	id, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return 0
	}
	return domain.DocumentID(id)
}
