package ingest

import (
	"strings"

	"subsdesk/models"
)

// Concat stacks tables into one. Headers are merged in first-seen order and
// every row is realigned on the merged header; cells a table lacks stay empty.
func Concat(tables ...*models.Table) *models.Table {
	out := &models.Table{}
	seen := map[string]int{}
	var names []string

	for _, t := range tables {
		if t == nil {
			continue
		}
		names = append(names, t.Name)
		for _, h := range t.Headers {
			key := headerKey(h)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = len(out.Headers)
			out.Headers = append(out.Headers, h)
		}
	}
	out.Name = strings.Join(names, " + ")

	for _, t := range tables {
		if t == nil {
			continue
		}
		positions := make([]int, len(t.Headers))
		for i, h := range t.Headers {
			positions[i] = seen[headerKey(h)]
		}
		for _, rec := range t.Rows {
			row := make([]string, len(out.Headers))
			for i, cell := range rec {
				if i < len(positions) {
					row[positions[i]] = cell
				}
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// RequireColumns fails with a MissingColumnError naming every absent column
func RequireColumns(t *models.Table, columns ...string) error {
	var missing []string
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &models.MissingColumnError{Table: t.Name, Columns: missing}
	}
	return nil
}

// FindColumn returns the actual header of the first alias present in the table
func FindColumn(t *models.Table, aliases ...string) (string, bool) {
	for _, a := range aliases {
		if idx := t.Index(a); idx >= 0 {
			return t.Headers[idx], true
		}
	}
	return "", false
}

func headerKey(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
