package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"subsdesk/ingest"
	"subsdesk/models"
)

func bytesReader(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}

func frozenTimeout() <-chan time.Time {
	return time.After(2 * time.Second)
}

func tableOf(t *testing.T, name, content string) *models.Table {
	t.Helper()
	tbl, err := ingest.Read(name, bytes.NewReader([]byte(content)))
	require.NoError(t, err)
	return tbl
}
