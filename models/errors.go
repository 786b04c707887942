package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyOutputName is returned when a file is requested without a name
var ErrEmptyOutputName = errors.New("output file name is required")

// MissingColumnError aborts a run when required columns are absent
type MissingColumnError struct {
	Table   string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Columns, ", "))
	}
	return fmt.Sprintf("%s: missing required column(s): %s", e.Table, strings.Join(e.Columns, ", "))
}

// UnsupportedFormatError is returned for files that are neither CSV nor XLSX
type UnsupportedFormatError struct {
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s (expected .csv or .xlsx)", e.Name)
}

// DuplicateIdentifierError is returned when the same ID appears twice in a batch
type DuplicateIdentifierError struct {
	IDs []string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate identifier(s): %s", strings.Join(e.IDs, ", "))
}

// MissingIdentifierError lists the file lines that have no ID
type MissingIdentifierError struct {
	Lines []int
}

func (e *MissingIdentifierError) Error() string {
	lines := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = fmt.Sprintf("%d", l)
	}
	return fmt.Sprintf("missing identifier on line(s): %s", strings.Join(lines, ", "))
}

// ExternalCallError wraps a failed call to an optional collaborator
type ExternalCallError struct {
	Collaborator string
	Attempts     int
	Err          error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Collaborator, e.Attempts, e.Err)
}

func (e *ExternalCallError) Unwrap() error {
	return e.Err
}

// UnparseableDate records a date cell that matched none of the known formats.
// It is reported, never fatal: the record keeps a nil date.
type UnparseableDate struct {
	RecordID string
	Field    string
	Value    string
}
