package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"

	"docintel/domain"
)

// Standalone reader over a report database, usable while the engine is
// not running. Open read-only so a live process keeps its lock.
func main() {
	dbPath := flag.String("db", "/tmp/docintel/badger", "Path to badger DB")
	prefix := flag.String("prefix", "report:", "Prefix to scan")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Media", "Method", "Entities", "Scores", "Anomalies", "Narrative"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var report domain.IntelligenceReport
				if err := json.Unmarshal(v, &report); err != nil {
					// Log and keep scanning instead of stopping the whole dump
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				scores := fmt.Sprintf("behavioural:%d fraud:%d",
					report.Scores.Behavioural, report.Scores.FraudRisk)
				if report.Scores.VocalTone != nil {
					scores += fmt.Sprintf(" tone:%d", *report.Scores.VocalTone)
				}
				if report.Scores.Stress != nil {
					scores += fmt.Sprintf(" stress:%d", *report.Scores.Stress)
				}

				var anomalies []string
				for _, a := range report.Anomalies {
					anomalies = append(anomalies, fmt.Sprintf("%s(%s)", a.Kind, a.Value))
				}

				narrative := report.Narrative
				if len(narrative) > 60 {
					narrative = narrative[:60] + "..."
				}

				table.Append([]string{
					string(item.Key()),
					string(report.Document.Media),
					string(report.Document.Method),
					fmt.Sprintf("%d", report.Entities.Total()),
					scores,
					strings.Join(anomalies, " "),
					narrative,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}
