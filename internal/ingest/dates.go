package ingest

import (
	"math"
	"time"
)

// Spreadsheet serial dates count days from the 1899-12-30 epoch; 25569 is
// the offset between that epoch and 1970-01-01.
const serialEpochOffsetDays = 25569.0

// SerialToTime converts a spreadsheet day-serial number to a UTC time.
// Serial 44927 is 2023-01-01, serial 45292 is 2024-01-01.
func SerialToTime(serial float64) time.Time {
	ms := int64(math.Round((serial - serialEpochOffsetDays) * 86400.0 * 1000.0))
	return time.UnixMilli(ms).UTC()
}

// LooksLikeDateSerial reports whether a numeric cell is plausibly a date
// serial. The range covers roughly 1954 through 2064; anything outside is
// treated as an ordinary number.
func LooksLikeDateSerial(n float64) bool {
	return n > 20000 && n < 60000
}

// FormatDisplayValue converts a raw cell value into a presentation value.
// Ambiguous numbers in the date-serial range render as dates, time values
// render as dates, nil renders as an empty string, and every other scalar
// passes through unchanged.
func FormatDisplayValue(value any) any {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format("2006/01/02")
	case float64:
		if LooksLikeDateSerial(v) {
			return SerialToTime(v).Format("2006/01/02")
		}
		return v
	case int:
		if LooksLikeDateSerial(float64(v)) {
			return SerialToTime(float64(v)).Format("2006/01/02")
		}
		return v
	case int64:
		if LooksLikeDateSerial(float64(v)) {
			return SerialToTime(float64(v)).Format("2006/01/02")
		}
		return v
	default:
		return value
	}
}
