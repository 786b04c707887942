package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/abo.csv":
			_, _ = w.Write([]byte("ID\n1\n"))
		case "/big.csv":
			_, _ = w.Write(make([]byte, 64))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(time.Second, 32)
	ctx := context.Background()

	t.Run("downloads in order", func(t *testing.T) {
		files, err := fetcher.Fetch(ctx, []*discordgo.MessageAttachment{
			{Filename: "abo.csv", URL: server.URL + "/abo.csv", Size: 5},
		})
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "abo.csv", files[0].Name)
		assert.Equal(t, "ID\n1\n", string(files[0].Data))
	})

	t.Run("declared size over the limit", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, []*discordgo.MessageAttachment{
			{Filename: "big.csv", URL: server.URL + "/big.csv", Size: 64},
		})
		var botErr *BotError
		require.ErrorAs(t, err, &botErr)
		assert.Contains(t, botErr.UserMessage, "big.csv")
	})

	t.Run("body over the limit", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, []*discordgo.MessageAttachment{
			{Filename: "big.csv", URL: server.URL + "/big.csv", Size: 1},
		})
		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, []*discordgo.MessageAttachment{
			{Filename: "x.csv", URL: server.URL + "/x.csv", Size: 1},
		})
		assert.ErrorContains(t, err, "unexpected status 404")
	})
}
