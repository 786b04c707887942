package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"subsdesk/service"
)

// AttachmentFetcher downloads slash command uploads
type AttachmentFetcher interface {
	Fetch(ctx context.Context, attachments []*discordgo.MessageAttachment) ([]service.InputFile, error)
}

// HTTPFetcher downloads attachments from the Discord CDN
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher creates a fetcher limited to maxBytes per file
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch downloads every attachment, in order
func (f *HTTPFetcher) Fetch(ctx context.Context, attachments []*discordgo.MessageAttachment) ([]service.InputFile, error) {
	files := make([]service.InputFile, 0, len(attachments))
	for _, att := range attachments {
		if int64(att.Size) > f.maxBytes {
			return nil, NewUserError(
				fmt.Sprintf("%s dépasse la taille maximale (%d Mo).", att.Filename, f.maxBytes>>20),
				"attachment too large")
		}

		data, err := f.download(ctx, att.URL)
		if err != nil {
			return nil, NewSystemError(err, fmt.Sprintf("failed to download attachment %s", att.Filename))
		}

		log.WithFields(log.Fields{
			"file":  att.Filename,
			"bytes": len(data),
		}).Debug("Attachment downloaded")
		files = append(files, service.InputFile{Name: att.Filename, Data: data})
	}
	return files, nil
}

func (f *HTTPFetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("attachment larger than %d bytes", f.maxBytes)
	}
	return data, nil
}
