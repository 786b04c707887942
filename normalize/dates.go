package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Layouts carrying a UTC offset. Results are converted to the naive zone.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02T15:04:05-0700",
}

// Layouts without offset, taken as already naive. Day-first is tried before
// month-first, so 03/04/2025 reads as the 3rd of April.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// Excel serials outside this range are not dates (1900-01-01 .. 9999-12-31)
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseDate parses a date cell against the known layouts and returns its naive value:
// wall clock in zone, stored with time.UTC, truncated to the second.
func ParseDate(raw string, zone *time.Location) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	if zone == nil {
		zone = time.UTC
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Naive(t.In(zone)), true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Naive(t), true
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return Naive(t), true
		}
	}
	return time.Time{}, false
}

// Naive drops the location of t, keeping its wall clock, truncated to the second
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
