package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// maxTimestamp bounds accepted datetime filters to 2100-01-01 UTC.
// Values past this are almost always a unit mistake (millis for seconds).
const maxTimestamp = 4102444800

// datetimeLayouts are tried in order for non-numeric datetime input.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseID parses a positive integer identifier.
func ParseID(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid id %d: must be positive", n)
	}
	return n, nil
}

// ParseIDList parses a comma-separated list of identifiers.
// Empty input yields nil.
func ParseIDList(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := ParseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseList splits a comma-separated list into trimmed non-empty strings.
func ParseList(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// ParseTimestamp parses a datetime filter value into epoch seconds.
// Accepts raw epoch seconds or an ISO-8601 datetime (date-only allowed,
// no zone means UTC). Rejects values outside 1970..2100.
func ParseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty datetime")
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return checkTimestamp(ts)
	}
	for _, layout := range datetimeLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return checkTimestamp(t.Unix())
		}
	}
	return 0, fmt.Errorf("invalid datetime %q: use epoch seconds or ISO-8601", s)
}

func checkTimestamp(ts int64) (int64, error) {
	if ts < 0 || ts > maxTimestamp {
		return 0, fmt.Errorf("datetime %d out of range (1970..2100)", ts)
	}
	return ts, nil
}

// ParseKeyValue splits a "key=value" argument.
func ParseKeyValue(s string) (string, string, error) {
	key, value, found := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", fmt.Errorf("invalid parameter %q: expected key=value", s)
	}
	return key, value, nil
}
