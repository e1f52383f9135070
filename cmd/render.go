package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"docintel/domain"
	"docintel/internal"
	"docintel/search"
	"docintel/session"
)

func buildLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func renderReports(reports []domain.IntelligenceReport) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Filename", "Media", "Method", "Entities", "Behavioural", "Fraud", "Anomalies"})
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

	for _, report := range reports {
		table.Append([]string{
			fmt.Sprintf("%d", report.Document.ID),
			report.Document.Filename,
			string(report.Document.Media),
			string(report.Document.Method),
			fmt.Sprintf("%d", report.Entities.Total()),
			fmt.Sprintf("%d", report.Scores.Behavioural),
			fmt.Sprintf("%d", report.Scores.FraudRisk),
			describeAnomalies(report.Anomalies),
		})
	}
	table.Render()
}

func describeAnomalies(anomalies []domain.AnomalyRecord) string {
	if len(anomalies) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(anomalies))
	for _, a := range anomalies {
		parts = append(parts, fmt.Sprintf("%s(%s)", a.Kind, a.Value))
	}
	return strings.Join(parts, " ")
}

func renderSummary(summary session.Summary) {
	header := color.New(color.BgBlack, color.FgGreen).Render("  ====== Session summary ======")
	fmt.Println(header)
	fmt.Printf("Documents:        %d (%d degraded)\n", summary.Documents, summary.Degraded)
	fmt.Printf("Mean behavioural: %.1f\n", summary.MeanBehavioural)
	fmt.Printf("Mean fraud risk:  %.1f\n", summary.MeanFraudRisk)
	for kind, count := range summary.Anomalies {
		fmt.Printf("%-24s %d\n", kind, count)
	}
}

func renderHits(term string, hits []search.Hit) {
	header := color.New(color.BgBlack, color.FgYellow).Render(fmt.Sprintf("  ====== Matches for %q ======", term))
	fmt.Println(header)
	if len(hits) == 0 {
		fmt.Println("No document matched")
		return
	}
	for _, hit := range hits {
		fmt.Printf("#%d %s\n", hit.DocumentID, hit.Filename)
	}
}

// reportMapper feeds the debug inspector with a condensed view of each
// stored report.
func reportMapper(key string, val []byte) internal.InspectRow {
	row := internal.InspectRow{Key: key}
	parts := strings.Split(key, ":")
	if len(parts) == 3 {
		row.Session = parts[1]
		row.Document = strings.TrimLeft(parts[2], "0")
	}

	var report domain.IntelligenceReport
	if err := json.Unmarshal(val, &report); err != nil {
		row.Detail = fmt.Sprintf("unreadable: %v", err)
		return row
	}

	row.Media = string(report.Document.Media)
	row.Detail = report.Narrative
	row.Scores = fmt.Sprintf("behavioural:%d fraud:%d", report.Scores.Behavioural, report.Scores.FraudRisk)
	if report.Scores.VocalTone != nil && report.Scores.Stress != nil {
		row.Scores += fmt.Sprintf(" tone:%d stress:%d", *report.Scores.VocalTone, *report.Scores.Stress)
	}
	return row
}
