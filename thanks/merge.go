package thanks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"subsdesk/ingest"
	"subsdesk/models"
)

const (
	ColumnReference = "Reference"
	ColumnFirstName = "Prénom"
	ColumnLastName  = "Nom"

	ColumnOrder   = "Commande"
	ColumnRemove  = "A supprimer des pages Remerciements"
	ColumnDisplay = "A faire apparaitre sur les pages Remerciements"
)

// Change is one row of the name-change table
type Change struct {
	Display string
	Remove  bool
}

// Result is the outcome of a merge
type Result struct {
	Names    []string
	Replaced int
	Removed  int
}

// Merge applies the change table to the thank-you list and returns the
// deduplicated names sorted by family name
func Merge(list, changes *models.Table) (*Result, error) {
	if err := ingest.RequireColumns(list, ColumnReference, ColumnFirstName, ColumnLastName); err != nil {
		return nil, err
	}
	if err := ingest.RequireColumns(changes, ColumnOrder, ColumnRemove, ColumnDisplay); err != nil {
		return nil, err
	}

	byOrder := Changes(changes)
	result := &Result{}
	var names []string

	for row := 0; row < list.Len(); row++ {
		ref := OrderReference(list.Value(row, ColumnReference))
		change, ok := byOrder[ref]
		switch {
		case ok && change.Display != "":
			names = append(names, change.Display)
			result.Replaced++
		case ok && change.Remove:
			result.Removed++
		default:
			name := strings.TrimSpace(fmt.Sprintf("%s %s",
				strings.TrimSpace(list.Value(row, ColumnFirstName)),
				strings.TrimSpace(list.Value(row, ColumnLastName))))
			if name != "" {
				names = append(names, name)
			}
		}
	}

	result.Names = SortByFamilyName(names)
	return result, nil
}

// Changes indexes the change table by cleaned order reference. Later rows win.
func Changes(t *models.Table) map[string]Change {
	out := map[string]Change{}
	for row := 0; row < t.Len(); row++ {
		ref := OrderReference(t.Value(row, ColumnOrder))
		if ref == "" {
			continue
		}
		out[ref] = Change{
			Display: strings.TrimSpace(t.Value(row, ColumnDisplay)),
			Remove:  isFlagged(t.Value(row, ColumnRemove)),
		}
	}
	return out
}

// OrderReference strips the "#" prefix order numbers carry in the change table
func OrderReference(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "#", ""))
}

func isFlagged(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "non", "no", "0", "false", "faux":
		return false
	}
	return true
}

// SortByFamilyName trims and deduplicates names, ordering them by their last
// word uppercased and then by the full name
func SortByFamilyName(names []string) []string {
	cleaned := lo.Uniq(lo.FilterMap(names, func(n string, _ int) (string, bool) {
		n = strings.Join(strings.Fields(n), " ")
		return n, n != ""
	}))
	sort.SliceStable(cleaned, func(i, j int) bool {
		ki, kj := familyKey(cleaned[i]), familyKey(cleaned[j])
		if ki != kj {
			return ki < kj
		}
		return cleaned[i] < cleaned[j]
	})
	return cleaned
}

func familyKey(name string) string {
	fields := strings.Fields(name)
	return strings.ToUpper(fields[len(fields)-1])
}
