package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	widths := columnWidths(headers, rows)
	if len(widths) == 0 {
		return nil
	}
	return renderTable(headers, rows, widths, rightAlignCols)
}

// fitTable shrinks the shrinkable columns evenly until a line fits in maxWidth.
func fitTable(headers []string, rows [][]string, rightAlignCols map[int]bool, maxWidth int, shrinkable []int) []string {
	widths := columnWidths(headers, rows)
	if len(widths) == 0 {
		return nil
	}
	const minCol = 4
	for lineWidth(widths) > maxWidth {
		widest := -1
		for _, col := range shrinkable {
			if col < len(widths) && widths[col] > minCol && (widest == -1 || widths[col] > widths[widest]) {
				widest = col
			}
		}
		if widest == -1 {
			break
		}
		widths[widest]--
	}
	clipped := make([][]string, len(rows))
	for i, row := range rows {
		clipped[i] = make([]string, len(row))
		for j, cell := range row {
			if j < len(widths) {
				cell = runewidth.Truncate(cell, widths[j], "...")
			}
			clipped[i][j] = cell
		}
	}
	clippedHeaders := make([]string, len(headers))
	for i, h := range headers {
		clippedHeaders[i] = runewidth.Truncate(h, widths[i], "...")
	}
	return renderTable(clippedHeaders, clipped, widths, rightAlignCols)
}

func columnWidths(headers []string, rows [][]string) []int {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}
	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func lineWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w
	}
	if len(widths) > 1 {
		total += len(widths) - 1
	}
	return total
}

func renderTable(headers []string, rows [][]string, widths []int, rightAlignCols map[int]bool) []string {
	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
