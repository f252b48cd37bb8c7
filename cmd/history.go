package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/sift/internal/formatter"
	"github.com/desertthunder/sift/internal/shared"
	"github.com/urfave/cli/v3"
)

// historyCriteria builds repository list criteria from command flags.
func historyCriteria(cmd *cli.Command) map[string]any {
	criteria := map[string]any{}
	if cmd.Bool("liked") {
		criteria["liked"] = true
	}
	if session := cmd.String("session"); session != "" {
		criteria["session_id"] = session
	}
	return criteria
}

// HistoryList lists recorded swipes from the local database.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repo.List(historyCriteria(cmd))
	if err != nil {
		return fmt.Errorf("failed to list swipe history: %w", err)
	}

	if useJSON {
		type swipeRow struct {
			TrackID   string    `json:"track_id"`
			Title     string    `json:"title"`
			Artist    string    `json:"artist"`
			Album     string    `json:"album,omitempty"`
			Direction string    `json:"direction"`
			Rating    float64   `json:"rating"`
			Label     string    `json:"label"`
			SessionID string    `json:"session_id,omitempty"`
			SwipedAt  time.Time `json:"swiped_at"`
		}

		rows := make([]swipeRow, len(records))
		for i, record := range records {
			rows[i] = swipeRow{
				TrackID:   record.TrackID(),
				Title:     record.Title(),
				Artist:    record.Artist(),
				Album:     record.Album(),
				Direction: string(record.Direction()),
				Rating:    record.Rating(),
				Label:     record.Label(),
				SessionID: record.SessionID(),
				SwipedAt:  record.CreatedAt(),
			}
		}
		return r.writeJSON(rows, pretty)
	}

	summary := formatter.Summarize(records)
	r.writePlain("Found %d swipes (loved %d, passed %d):\n\n", summary.Total, summary.Loved, summary.Passed)

	for i, record := range records {
		verdict := "loved"
		if !record.Liked() {
			verdict = "passed"
		}
		r.writePlain("%d. %s - %s\n", i+1, record.Artist(), record.Title())
		if record.Album() != "" {
			r.writePlain("   Album: %s\n", record.Album())
		}
		r.writePlain("   Verdict: %s (%.1f)\n", verdict, record.Rating())
		r.writePlain("   Swiped: %s\n\n", record.CreatedAt().Format(time.RFC822))
	}

	return nil
}

// HistoryExport writes swipe history to a file in the requested format.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	output := cmd.String("output")

	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repo.List(historyCriteria(cmd))
	if err != nil {
		return fmt.Errorf("failed to list swipe history: %w", err)
	}

	if len(records) == 0 {
		return r.writePlain("No swipes to export\n")
	}

	title := "Swipe History"
	if cmd.Bool("liked") {
		title = "Loved Tracks"
	}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(records, strings.TrimSuffix(output, ".csv"))
		if err != nil {
			return err
		}
		r.writePlain("✓ History exported\n")
		r.writePlain("  Swipes: %s\n", result.HistoryFile)
		r.writePlain("  Summary: %s\n", result.SummaryFile)
		return nil

	case "markdown", "md":
		written, err := formatter.WriteMarkdownExport(records, title, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ History exported to %s\n", written)

	case "text", "txt":
		written, err := formatter.WriteTextExport(records, title, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ History exported to %s\n", written)

	default:
		return fmt.Errorf("%w: unknown format %q (expected csv, markdown, or text)", shared.ErrInvalidFlag, format)
	}
}
