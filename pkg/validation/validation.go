package validation

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// ISOLayout matches the wire format of date fields: UTC, millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// DateLayout is the editable form of a date field.
const DateLayout = "2006-01-02"

var (
	ErrNotANumber = errors.New("not a number")
	ErrBadDate    = errors.New("unparseable date")
)

// Field is one labelled form value.
type Field struct {
	Label string
	Value string
}

// Missing returns the labels of blank fields in declaration order.
func Missing(fields ...Field) []string {
	var out []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			out = append(out, f.Label)
		}
	}
	return out
}

func ParseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotANumber
	}
	return v, nil
}

func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// FormatCoordinate renders a coordinate the way it is pre-filled into a form field.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	// zone-less timestamps, as some servers serialize them
	"2006-01-02T15:04:05.999999999",
}

// ParseDate accepts a bare date (taken as UTC midnight) or a timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadDate
}

func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// Today renders now's UTC calendar date, the default of every date field.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameName compares two user names ignoring case and surrounding whitespace.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
