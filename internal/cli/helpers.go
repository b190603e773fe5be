package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"railctl/internal/parse"
	"railctl/internal/testrail"
)

// idArg parses a positional numeric id argument.
func idArg(what, arg string) (int, error) {
	id, err := parse.ParseID(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}

// setIDFilter adds a numeric query filter when the flag was set.
func setIDFilter(params url.Values, key string, id int) {
	if id > 0 {
		params.Set(key, strconv.Itoa(id))
	}
}

// setIDListFilter parses a comma-separated id list flag into a query
// filter, normalizing spacing around the commas.
func setIDListFilter(params url.Values, key, value string) error {
	if value == "" {
		return nil
	}
	ids, err := parse.ParseIDList(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	params.Set(key, strings.Join(parts, ","))
	return nil
}

// setTimeFilter parses a datetime flag (ISO-8601 or epoch seconds) into
// an epoch-seconds query filter.
func setTimeFilter(params url.Values, key, value string) error {
	if value == "" {
		return nil
	}
	ts, err := parse.ParseTimestamp(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	params.Set(key, strconv.FormatInt(ts, 10))
	return nil
}

// applyFieldFlags merges repeated key=value flags into a payload.
func applyFieldFlags(payload testrail.Fields, pairs []string) error {
	for _, pair := range pairs {
		key, value, err := parse.ParseKeyValue(pair)
		if err != nil {
			return err
		}
		payload[key] = fieldValue(value)
	}
	return nil
}

// fieldValue keeps values that parse as JSON in their wire shape so
// numeric, boolean and list fields come through typed; anything else is
// sent as a plain string.
func fieldValue(value string) testrail.Value {
	trimmed := strings.TrimSpace(value)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return testrail.Raw([]byte(trimmed))
	}
	return testrail.String(value)
}
