package service

import (
	"strconv"
	"strings"
	"time"
)

// Excel serials count days from 1900-01-01 (serial 1), but the format also
// believes 1900 was a leap year. Subtracting two days (one for the epoch's
// zero-indexing, one for the phantom 1900-02-29) is the same as adding the
// serial to 1899-12-30.
var excelSerialBase = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ExcelSerialToDate converts a numeric Excel date serial into an ISO calendar
// date using the 2-day correction. Receipt imports use this rule for every
// date column. Empty or non-numeric input reports ok=false instead of an
// error: an absent date must not fail the row.
func ExcelSerialToDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", false
	}
	days := int(serial)
	return excelSerialBase.AddDate(0, 0, days).Format("2006-01-02"), true
}

// ExcelSerialToDateLegacy is the 1-day-correction variant used by the older
// vacation module: serials at or below 60 (before the phantom 1900-02-29) are
// offset from 1899-12-31, later serials get the extra leap-day correction.
// Kept separate on purpose; the two rules disagree on serials up to 60 and the
// receipt importer must not pick it up.
func ExcelSerialToDateLegacy(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", false
	}
	days := int(serial)
	base := time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)
	if days > 60 {
		base = base.AddDate(0, 0, -1)
	}
	return base.AddDate(0, 0, days).Format("2006-01-02"), true
}
