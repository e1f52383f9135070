package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"docintel/audiofeat"
	"docintel/contract"
	"docintel/domain"
	"docintel/internal"
	"docintel/narrative"
	"docintel/repositories"
	"docintel/search"
	"docintel/session"
	"docintel/textract"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and centralizes error reporting so the
// defers (database cleanup) always execute before the process exits.
func run() error {
	searchTerm := flag.String("search", "", "After processing, search the session's extracted text")
	flag.Parse()
	files := flag.Args()
	if len(files) == 0 {
		return fmt.Errorf("usage: docintel [-search term] file [file...]")
	}

	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log := buildLogger(config.LogLevel)

	// 2. Storage (BadgerDB + Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	searchIndex, err := search.Open(config.BlugeFilepath, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("Closing Bluge...")
		_ = searchIndex.Close()
	}()

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Collaborators
	collaborators, err := buildCollaborators(ctx, config, db, searchIndex, log)
	if err != nil {
		return err
	}

	// 5. Session
	sess, err := session.NewSession(log, collaborators, session.Options{
		Workers:          config.NumberOfWorkers,
		ExtractTimeout:   config.ExtractTimeout,
		NarrativeTimeout: config.NarrativeTimeout,
		RestartInterval:  config.RestartInterval,
		MonitorInterval:  config.MonitorInterval,
	})
	if err != nil {
		return err
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			// Document-scoped failure: siblings still get processed.
			log.Error("Could not read file, skipping", "path", path, "error", err)
			continue
		}
		if _, err := sess.Submit(filepath.Base(path), data, hintFromFilename(path)); err != nil {
			return err
		}
	}

	reports, err := sess.Finalize(ctx)
	if err != nil {
		return err
	}

	renderReports(reports)
	renderSummary(sess.Summary())

	if *searchTerm != "" {
		hits, err := searchIndex.Search(ctx, sess.ID(), *searchTerm, 10)
		if err != nil {
			return err
		}
		renderHits(*searchTerm, hits)
	}

	if config.DebugPort > 0 {
		internal.StartDebugServer(db, config.DebugPort, reportMapper, func() map[string]any {
			return map[string]any{"session": sess.ID(), "documents": len(reports)}
		})
		log.Info("Inspector running, Ctrl+C to exit",
			"url", fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))
		<-ctx.Done()
	}

	log.Info("Program stopped cleanly")
	return nil
}

// hintFromFilename provides the media hint for content sniffing; the
// sniffer still has the last word on well-formed payloads.
func hintFromFilename(path string) domain.MediaType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".csv":
		return domain.MediaText
	case ".pdf":
		return domain.MediaPDF
	case ".png", ".jpg", ".jpeg", ".gif", ".tiff":
		return domain.MediaImage
	case ".wav", ".mp3", ".aiff", ".flac", ".ogg":
		return domain.MediaAudio
	default:
		return domain.MediaUnknown
	}
}

func buildCollaborators(
	ctx context.Context,
	config internal.Config,
	db *badger.DB,
	searchIndex *search.Index,
	log *slog.Logger,
) (session.Collaborators, error) {
	var remote contract.TextExtractor
	if config.ExtractionServiceURL != "" {
		remote = textract.NewRemoteClient(config.ExtractionServiceURL)
	} else {
		log.Warn("No extraction service configured, non-text media degrades to empty text")
	}

	var generator contract.NarrativeGenerator
	if config.NarrativeEnabled() {
		var err error
		generator, err = narrative.NewGenerator(ctx, narrative.Config{
			BaseURL:  config.NarrativeBaseURL,
			APIKey:   config.NarrativeAPIKey,
			Model:    config.NarrativeModel,
			MaxChars: config.NarrativeMaxChars,
			RPM:      config.NarrativeRPM,
		})
		if err != nil {
			return session.Collaborators{}, err
		}
	}

	return session.Collaborators{
		Text:      textract.NewRouter(remote),
		Audio:     audiofeat.NewWAVAnalyzer(),
		Narrative: generator,
		Sinks: []contract.ReportSink{
			repositories.NewReportRepository(db, log),
			searchIndex,
		},
	}, nil
}
