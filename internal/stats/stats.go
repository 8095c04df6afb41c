// Package stats contains transfer history summaries and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/datamover/internal/model"
)

const sparkChars = " .:-=+*#%@"

// FormatSize renders megabytes with SI units, e.g. "8.2 GB".
func FormatSize(mb float64) string {
	if mb <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(math.Round(mb * 1e6)))
}

// FormatETA renders seconds as a short duration, e.g. "1m05s" or "9s".
func FormatETA(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
}

// Summarize aggregates transfer records.
func Summarize(records []model.TransferRecord) model.HistorySummary {
	var sum model.HistorySummary
	sum.Transfers = len(records)
	for _, r := range records {
		switch r.Status {
		case model.StatusCompleted:
			sum.Completed++
			sum.CompletedSizeMB += r.SizeMB
		case model.StatusFailed:
			sum.Failed++
		}
		if r.SizeMB > sum.LargestSizeMB {
			sum.LargestSizeMB = r.SizeMB
		}
	}
	if sum.Transfers > 0 {
		sum.SuccessRate = float64(sum.Completed) / float64(sum.Transfers)
	}
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for transfers.
func RenderSummary(w io.Writer, records []model.TransferRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "You have no transfer history yet. Completed transfers will appear here.")
		return err
	}
	sum := Summarize(records)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Transfers: %d (%d completed, %d failed)\n", sum.Transfers, sum.Completed, sum.Failed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Data moved: %s\n", FormatSize(sum.CompletedSizeMB)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Success rate: %.1f%%\n", sum.SuccessRate*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// HistoryRows formats records as table cells: ID, Date, From, To, Data, Status.
func HistoryRows(records []model.TransferRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Ref,
			r.Date.Local().Format("2006-01-02"),
			r.SourceDevice,
			r.DestinationDevice,
			FormatSize(r.SizeMB),
			string(r.Status),
		})
	}
	return rows
}

// HistoryHeaders are the column titles matching HistoryRows.
var HistoryHeaders = []string{"ID", "Date", "From", "To", "Data", "Status"}

// RenderHistory prints the history table. When width > 0 the device columns
// are truncated so each line fits.
func RenderHistory(w io.Writer, records []model.TransferRecord, width int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No transfers found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Transfer History"); err != nil {
		return err
	}
	rows := HistoryRows(records)
	rightAlign := map[int]bool{4: true}
	lines := formatTable(HistoryHeaders, rows, rightAlign)
	if width > 0 {
		lines = fitTable(HistoryHeaders, rows, rightAlign, width, []int{2, 3})
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
