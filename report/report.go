package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned for output formats other than xlsx and csv
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects the encoding of bucket files
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeCSV  = "text/csv"
)

// ParseFormat accepts "xlsx", "csv" or blank, which means xlsx
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, raw)
	}
}

// Artifact is a rendered file ready to be attached to a reply
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

var unsafeNameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// SanitizeName trims a user supplied file name and replaces characters that
// are not allowed in attachment names. A name made only of such characters is empty.
func SanitizeName(raw string) string {
	name := unsafeNameChars.Replace(strings.TrimSpace(raw))
	if strings.Trim(name, "_ ") == "" {
		return ""
	}
	return name
}
