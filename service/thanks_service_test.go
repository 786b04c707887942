package service

import (
	"archive/zip"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subsdesk/events"
	"subsdesk/models"
)

const thanksListCSV = `Reference,Prénom,Nom
1001,Marie,Curie
1002,Jean,Dupont
1003,Paul,Anonyme
`

const thanksChangesCSV = `Commande,A supprimer des pages Remerciements,A faire apparaitre sur les pages Remerciements
#1002,,La famille Dupont
#1003,oui,
`

func TestThanksService_Merge(t *testing.T) {
	svc := NewThanksService(frozenClock, nil)
	list := InputFile{Name: "liste.csv", Data: []byte(thanksListCSV)}
	changes := InputFile{Name: "changements.csv", Data: []byte(thanksChangesCSV)}

	result, err := svc.Merge(context.Background(), list, changes, "Remerciements_N12", "tester")
	require.NoError(t, err)

	assert.Equal(t, []string{"Marie Curie", "La famille Dupont"}, result.Merge.Names)
	assert.Equal(t, 1, result.Merge.Replaced)
	assert.Equal(t, 1, result.Merge.Removed)
	assert.Equal(t, "Remerciements_N12.docx", result.Artifact.Name)

	zr, err := zip.NewReader(bytesReader(result.Artifact.Data), int64(len(result.Artifact.Data)))
	require.NoError(t, err)
	var body string
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		body = string(data)
	}
	assert.Contains(t, body, "Marie Curie, La famille Dupont")
}

func TestThanksService_RecordsRunWithInjectedClock(t *testing.T) {
	bus := events.NewBus()
	completed := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeRunCompleted, func(ctx context.Context, event events.Event) {
		completed <- event
	})
	svc := NewThanksService(frozenClock, bus)
	list := InputFile{Name: "liste.csv", Data: []byte(thanksListCSV)}
	changes := InputFile{Name: "changements.csv", Data: []byte(thanksChangesCSV)}

	_, err := svc.Merge(context.Background(), list, changes, "merci", "tester")
	require.NoError(t, err)

	select {
	case ev := <-completed:
		run := ev.(events.RunCompletedEvent)
		assert.Equal(t, ToolThanks, run.Tool)
		assert.Equal(t, frozenNow, run.CompletedAt)
		assert.Equal(t, []string{"merci.docx"}, run.Artifacts)
	case <-frozenTimeout():
		t.Fatal("run completed event not delivered")
	}
}

func TestThanksService_Failures(t *testing.T) {
	svc := NewThanksService(frozenClock, nil)
	ctx := context.Background()
	list := InputFile{Name: "liste.csv", Data: []byte(thanksListCSV)}
	changes := InputFile{Name: "changements.csv", Data: []byte(thanksChangesCSV)}

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.Merge(ctx, list, changes, "   ", "tester")
		assert.ErrorIs(t, err, models.ErrEmptyOutputName)
	})

	t.Run("list without first names", func(t *testing.T) {
		bad := InputFile{Name: "liste.csv", Data: []byte("Reference,Nom\n1001,Curie\n")}
		_, err := svc.Merge(ctx, bad, changes, "x", "tester")
		var missing *models.MissingColumnError
		assert.ErrorAs(t, err, &missing)
	})
}
