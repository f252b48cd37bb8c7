// package formatter provides functions to export swipe history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/sift/internal/models"
	"github.com/desertthunder/sift/internal/shared"
)

// HistorySummary aggregates a slice of swipe records for the metadata sidecar.
type HistorySummary struct {
	Total      int       `json:"total"`
	Loved      int       `json:"loved"`
	Passed     int       `json:"passed"`
	ExportedAt time.Time `json:"exported_at"`
}

// Summarize counts outcomes across the given records.
func Summarize(records []*models.SwipeRecord) HistorySummary {
	summary := HistorySummary{Total: len(records), ExportedAt: time.Now().UTC()}
	for _, record := range records {
		if record.Liked() {
			summary.Loved++
		} else {
			summary.Passed++
		}
	}
	return summary
}

// ExportToCSV converts swipe history to CSV format with columns: Track ID, Title, Artist, Album, Direction, Rating, Label, Swiped At
func ExportToCSV(records []*models.SwipeRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Track ID", "Title", "Artist", "Album", "Direction", "Rating", "Label", "Swiped At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.TrackID(),
			record.Title(),
			record.Artist(),
			record.Album(),
			string(record.Direction()),
			strconv.FormatFloat(record.Rating(), 'f', 1, 64),
			record.Label(),
			record.CreatedAt().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts swipe history to Markdown format
func ExportToMarkdown(records []*models.SwipeRecord, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Swipe History"
	}

	summary := Summarize(records)

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Swipes**: %d\n", summary.Total))
	buf.WriteString(fmt.Sprintf("**Loved**: %d\n", summary.Loved))
	buf.WriteString(fmt.Sprintf("**Passed**: %d\n\n", summary.Passed))

	buf.WriteString("## Tracks\n\n")
	for i, record := range records {
		verdict := "loved"
		if !record.Liked() {
			verdict = "passed"
		}
		albumPart := ""
		if record.Album() != "" {
			albumPart = fmt.Sprintf(" (%s)", record.Album())
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, record.Artist(), record.Title(), albumPart, verdict))
	}

	return buf.Bytes(), nil
}

// ExportToText converts swipe history to plain text format
func ExportToText(records []*models.SwipeRecord, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Swipe History"
	}

	summary := Summarize(records)

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Swipes: %d (loved %d, passed %d)\n\n", summary.Total, summary.Loved, summary.Passed))

	for i, record := range records {
		marker := "+"
		if !record.Liked() {
			marker = "-"
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s - %s\n", i+1, marker, record.Artist(), record.Title()))
	}

	return buf.Bytes(), nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	HistoryFile string
	SummaryFile string
}

// WriteCSVExport exports swipe history to CSV format with an accompanying summary JSON file.
//
// Defaults to "history" as the base filename & creates {base}_swipes.csv and {base}_summary.json
func WriteCSVExport(records []*models.SwipeRecord, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "history"
	}

	csvData, err := ExportToCSV(records)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	historyFile := baseFilepath + "_swipes.csv"
	if err := os.WriteFile(historyFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryJSON, err := shared.MarshalJSON(Summarize(records), true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{
		HistoryFile: historyFile,
		SummaryFile: summaryFile,
	}, nil
}

// WriteMarkdownExport exports swipe history to a Markdown file.
//
// Defaults to history.md as the filename.
func WriteMarkdownExport(records []*models.SwipeRecord, title, filepath string) (string, error) {
	if filepath == "" {
		filepath = "history.md"
	}

	mdData, err := ExportToMarkdown(records, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports swipe history to plain text format.
//
// Defaults to history.txt as the filename.
func WriteTextExport(records []*models.SwipeRecord, title, filepath string) (string, error) {
	if filepath == "" {
		filepath = "history.txt"
	}

	textData, err := ExportToText(records, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
