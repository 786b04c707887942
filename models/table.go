package models

import "strings"

// Table is an uploaded file read into memory: one header row and string cells
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of a column, matched case-insensitively after trimming, or -1
func (t *Table) Index(column string) int {
	want := strings.ToLower(strings.TrimSpace(column))
	for i, h := range t.Headers {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

// Has reports whether the table carries a column
func (t *Table) Has(column string) bool {
	return t.Index(column) >= 0
}

// Value returns the cell at row for column, or "" when the column or cell is absent
func (t *Table) Value(row int, column string) string {
	idx := t.Index(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	cells := t.Rows[row]
	if idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
