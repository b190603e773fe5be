package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents an output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatRaw   Format = "raw"
)

// ParseFormat validates an --output flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatYAML, FormatRaw:
		return Format(s), nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (table, json, yaml, raw)", s)
	}
}

// Options for rendering
type Options struct {
	Format    Format
	Porcelain bool
	Fields    []string
}

// Renderer handles output rendering
type Renderer struct {
	writer io.Writer
	opts   Options
}

// NewRenderer creates a new renderer
func NewRenderer(writer io.Writer, opts Options) *Renderer {
	return &Renderer{
		writer: writer,
		opts:   opts,
	}
}

// Render writes v in the configured format. Tables and the --fields
// filter operate on the JSON shape of v: a slice becomes one row per
// element, a single object becomes a field/value listing.
func (r *Renderer) Render(v any) error {
	switch r.opts.Format {
	case FormatJSON:
		return r.renderJSON(v)
	case FormatYAML:
		return r.renderYAML(v)
	case FormatRaw:
		return r.renderRawValue(v)
	case FormatTable, "":
		return r.renderTableValue(v)
	default:
		return fmt.Errorf("unknown output format %q", r.opts.Format)
	}
}

// RenderRaw writes pre-encoded response bytes untouched, ensuring a
// trailing newline.
func (r *Renderer) RenderRaw(data []byte) error {
	if _, err := r.writer.Write(data); err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		if _, err := io.WriteString(r.writer, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderJSON(v any) error {
	v, err := r.filtered(v)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(r.writer)
	if !r.opts.Porcelain {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

func (r *Renderer) renderYAML(v any) error {
	v, err := r.filtered(v)
	if err != nil {
		return err
	}
	// Round-trip through JSON so yaml keys match the wire field names
	// instead of Go struct names.
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return err
	}
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(yamlNumbers(tree))
}

// yamlNumbers converts json.Number leaves to Go numbers so the yaml
// encoder emits them unquoted.
func yamlNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		for key, item := range val {
			val[key] = yamlNumbers(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = yamlNumbers(item)
		}
		return val
	default:
		return v
	}
}

func (r *Renderer) renderRawValue(v any) error {
	switch data := v.(type) {
	case []byte:
		return r.RenderRaw(data)
	case json.RawMessage:
		return r.RenderRaw(data)
	case string:
		return r.RenderRaw([]byte(data))
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return r.RenderRaw(encoded)
	}
}

func (r *Renderer) renderTableValue(v any) error {
	list, objects, err := decodeObjects(v)
	if err != nil {
		// Not an object shape (plain string, number, ...): print as-is.
		return r.renderRawValue(v)
	}

	if !list {
		if len(objects) == 0 {
			return nil
		}
		return r.renderFieldListing(objects[0])
	}

	if len(objects) == 0 {
		return nil
	}
	headers := r.columns(objects[0])
	rows := make([][]string, len(objects))
	for i, obj := range objects {
		row := make([]string, len(headers))
		for j, key := range headers {
			row[j] = displayValue(obj.values[key])
		}
		rows[i] = row
	}
	return r.RenderTable(headers, rows)
}

// columns picks the table columns: the --fields filter verbatim when
// set, else the first object's keys in document order.
func (r *Renderer) columns(first object) []string {
	if len(r.opts.Fields) > 0 {
		return r.opts.Fields
	}
	return first.keys
}

// renderFieldListing prints one object as aligned field/value lines.
func (r *Renderer) renderFieldListing(obj object) error {
	keys := r.columns(obj)
	if len(keys) == 0 {
		return nil
	}
	if r.opts.Porcelain {
		for _, key := range keys {
			fmt.Fprintf(r.writer, "%s\t%s\n", key, displayValue(obj.values[key]))
		}
		return nil
	}
	width := 0
	for _, key := range keys {
		if len(key) > width {
			width = len(key)
		}
	}
	for _, key := range keys {
		fmt.Fprintf(r.writer, "%-*s  %s\n", width, key, displayValue(obj.values[key]))
	}
	return nil
}

// RenderTable renders data as a formatted table
func (r *Renderer) RenderTable(headers []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	// Render header
	if !r.opts.Porcelain {
		r.renderTableRow(headers, widths)
		r.renderTableSeparator(widths)
	} else {
		// Porcelain mode: just tab-separated
		fmt.Fprintln(r.writer, strings.Join(headers, "\t"))
	}

	// Render rows
	for _, row := range rows {
		if r.opts.Porcelain {
			fmt.Fprintln(r.writer, strings.Join(row, "\t"))
		} else {
			r.renderTableRow(row, widths)
		}
	}

	return nil
}

func (r *Renderer) renderTableRow(cells []string, widths []int) {
	for i, cell := range cells {
		if i < len(widths) {
			fmt.Fprintf(r.writer, "%-*s", widths[i], cell)
			if i < len(cells)-1 {
				fmt.Fprint(r.writer, "  ")
			}
		}
	}
	fmt.Fprintln(r.writer)
}

func (r *Renderer) renderTableSeparator(widths []int) {
	for i, width := range widths {
		fmt.Fprint(r.writer, strings.Repeat("-", width))
		if i < len(widths)-1 {
			fmt.Fprint(r.writer, "  ")
		}
	}
	fmt.Fprintln(r.writer)
}

// filtered applies the --fields filter by rebuilding objects with only
// the requested keys. Without a filter, v passes through untouched.
func (r *Renderer) filtered(v any) (any, error) {
	if len(r.opts.Fields) == 0 {
		return v, nil
	}
	list, objects, err := decodeObjects(v)
	if err != nil {
		return v, nil
	}
	pick := func(obj object) map[string]any {
		m := make(map[string]any, len(r.opts.Fields))
		for _, key := range r.opts.Fields {
			if val, ok := obj.values[key]; ok {
				m[key] = val
			}
		}
		return m
	}
	if !list {
		if len(objects) == 0 {
			return v, nil
		}
		return pick(objects[0]), nil
	}
	out := make([]map[string]any, len(objects))
	for i, obj := range objects {
		out[i] = pick(obj)
	}
	return out, nil
}

// object is one decoded JSON object with its keys in document order.
type object struct {
	keys   []string
	values map[string]any
}

// decodeObjects flattens v through its JSON encoding into objects.
// Returns whether v was a list. Non-object shapes yield an error.
func decodeObjects(v any) (bool, []object, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return false, nil, fmt.Errorf("empty value")
	}
	switch trimmed[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return false, nil, err
		}
		objects := make([]object, 0, len(raws))
		for _, raw := range raws {
			obj, err := decodeObject(raw)
			if err != nil {
				return true, nil, err
			}
			objects = append(objects, obj)
		}
		return true, objects, nil
	case '{':
		obj, err := decodeObject(trimmed)
		if err != nil {
			return false, nil, err
		}
		return false, []object{obj}, nil
	default:
		return false, nil, fmt.Errorf("not an object")
	}
}

func decodeObject(data []byte) (object, error) {
	keys, err := objectKeys(data)
	if err != nil {
		return object{}, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	values := map[string]any{}
	if err := dec.Decode(&values); err != nil {
		return object{}, err
	}
	return object{keys: keys, values: values}, nil
}

// objectKeys returns the top-level keys of a JSON object in document
// order. Decoding into a map would scramble table columns.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("not an object")
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("malformed object key")
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// displayValue renders one cell for table output: strings bare, scalars
// compact, composites as canonical JSON.
func displayValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(encoded)
	}
}
