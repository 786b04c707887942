package thanks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subsdesk/models"
)

func listTable() *models.Table {
	return &models.Table{
		Name:    "remerciements.xlsx",
		Headers: []string{"Reference", "Prénom", "Nom"},
		Rows: [][]string{
			{"1001", "Marie", "Curie"},
			{"1002", "Jean", "Dupont"},
			{"1003", "Paul", "Anonyme"},
			{"1004", "Alice", "Martin"},
			{"1005", "Alice", "Martin"},
			{"1006", " ", ""},
		},
	}
}

func changesTable() *models.Table {
	return &models.Table{
		Name:    "changements.xlsx",
		Headers: []string{"Commande", "A supprimer des pages Remerciements", "A faire apparaitre sur les pages Remerciements"},
		Rows: [][]string{
			{"#1002", "", "La famille Dupont"},
			{"#1003", "oui", ""},
			{"#1004", "non", ""},
		},
	}
}

func TestMerge(t *testing.T) {
	result, err := Merge(listTable(), changesTable())
	require.NoError(t, err)

	assert.Equal(t, []string{"Marie Curie", "La famille Dupont", "Alice Martin"}, result.Names)
	assert.Equal(t, 1, result.Replaced)
	assert.Equal(t, 1, result.Removed)
}

func TestMerge_MissingColumns(t *testing.T) {
	t.Run("thank-you list", func(t *testing.T) {
		list := &models.Table{Name: "l.xlsx", Headers: []string{"Reference", "Nom"}}
		_, err := Merge(list, changesTable())
		var missing *models.MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"Prénom"}, missing.Columns)
	})

	t.Run("change table", func(t *testing.T) {
		changes := &models.Table{Name: "c.xlsx", Headers: []string{"Commande"}}
		_, err := Merge(listTable(), changes)
		var missing *models.MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Len(t, missing.Columns, 2)
	})
}

func TestSortByFamilyName(t *testing.T) {
	names := []string{"  Zoé  Abel ", "Bob Zed", "Anne abel", "Bob Zed", ""}
	assert.Equal(t, []string{"Anne abel", "Zoé Abel", "Bob Zed"}, SortByFamilyName(names))
}

func TestOrderReference(t *testing.T) {
	assert.Equal(t, "1002", OrderReference(" #1002 "))
	assert.Equal(t, "1002", OrderReference("1002"))
}
