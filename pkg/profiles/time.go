package profiles

import (
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/clubmerge/pkg/constants"
)

// inputLayouts are tried in order when parsing record timestamps.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	constants.TimeFormatDate,
}

// ParseTime parses a record timestamp. Timestamps with an offset are
// converted to UTC; timestamps without one are read as UTC.
func ParseTime(s string) (utc.Time, error) {
	var firstErr error
	for _, layout := range inputLayouts {
		t, err := utc.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return utc.Time{}, firstErr
}

// FormatTime formats a timestamp the way merged records carry it.
func FormatTime(t utc.Time) string {
	return t.Time.UTC().Format(constants.TimeFormatRecord)
}

// TimePtr returns a pointer to t in UTC.
func TimePtr(t time.Time) *utc.Time {
	u := utc.New(t)
	return &u
}

// MustParseTime is ParseTime for literals known to be valid. It panics on error.
func MustParseTime(s string) utc.Time {
	t, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}
