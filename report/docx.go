package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomutex/godocx"

	"subsdesk/models"
)

const ThanksHeading = "Remerciements"

// RenderThanks writes a Word document with the thank-you heading and one
// paragraph listing the names separated by commas
func RenderThanks(name string, names []string) (Artifact, error) {
	base := SanitizeName(strings.TrimSuffix(strings.TrimSpace(name), ".docx"))
	if base == "" {
		return Artifact{}, models.ErrEmptyOutputName
	}

	data, err := buildDocx(ThanksHeading, strings.Join(names, ", "))
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to render %s.docx: %w", base, err)
	}
	return Artifact{Name: base + ".docx", ContentType: ContentTypeDOCX, Data: data}, nil
}

func buildDocx(heading, body string) ([]byte, error) {
	document, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if _, err := document.AddHeading(heading, 0); err != nil {
		return nil, fmt.Errorf("failed to add heading: %w", err)
	}
	document.AddParagraph(body)

	var buf bytes.Buffer
	if err := document.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return buf.Bytes(), nil
}
