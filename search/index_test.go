package search

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"docintel/domain"
)

func setupIndex(t *testing.T) *Index {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	index, err := Open(t.TempDir(), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func reportWithText(id domain.DocumentID, filename, text string) domain.IntelligenceReport {
	return domain.IntelligenceReport{
		Document: domain.Document{
			ID:       id,
			Filename: filename,
			Media:    domain.MediaText,
			Text:     text,
			Method:   domain.MethodNative,
		},
	}
}

func TestIndex_ConsumeAndSearch(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := setupIndex(t)
	sessionID := uuid.NewString()

	req.NoError(index.Consume(ctx, sessionID, reportWithText(1, "invoice.txt", "Paid £100 to John Smith for consulting")))
	req.NoError(index.Consume(ctx, sessionID, reportWithText(2, "memo.txt", "Quarterly budget review scheduled")))

	hits, err := index.Search(ctx, sessionID, "consulting", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(domain.DocumentID(1), hits[0].DocumentID)
	req.Equal("invoice.txt", hits[0].Filename)

	hits, err = index.Search(ctx, sessionID, "budget", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(domain.DocumentID(2), hits[0].DocumentID)

	hits, err = index.Search(ctx, sessionID, "nonexistent", 10)
	req.NoError(err)
	req.Empty(hits)
}

func TestIndex_SessionScoping(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := setupIndex(t)

	first := uuid.NewString()
	second := uuid.NewString()
	req.NoError(index.Consume(ctx, first, reportWithText(1, "a.txt", "the shipment arrived early")))
	req.NoError(index.Consume(ctx, second, reportWithText(1, "b.txt", "the shipment arrived late")))

	hits, err := index.Search(ctx, first, "shipment", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("a.txt", hits[0].Filename)
}

func TestIndex_SkipsEmptyText(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := setupIndex(t)
	sessionID := uuid.NewString()

	// A degraded document has no text to index.
	req.NoError(index.Consume(ctx, sessionID, reportWithText(1, "scan.png", "")))
	req.NoError(index.Consume(ctx, sessionID, reportWithText(2, "note.txt", "wire transfer confirmed")))

	hits, err := index.Search(ctx, sessionID, "transfer", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(domain.DocumentID(2), hits[0].DocumentID)
}
