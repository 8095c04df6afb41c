package stats

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Category", "Size", "Items"}
	rows := [][]string{
		{"Contacts", "5 MB", "584"},
		{"Calendar Events", "2 MB", "210"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Category        Size Items" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Contacts        5 MB   584" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Calendar Events 2 MB   210" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFitTableTruncatesShrinkableColumns(t *testing.T) {
	headers := []string{"Name", "Size"}
	rows := [][]string{{"Samsung Galaxy S24", "8.2 GB"}}
	lines := fitTable(headers, rows, map[int]bool{1: true}, 15, []int{0})
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != "Samsu... 8.2 GB" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > 15 {
			t.Fatalf("line too wide (%d): %q", w, line)
		}
	}
}
