package movie

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

const SummaryKey = "summary"

type Query struct {
	Title    string
	Language Language
}

// Details is the shape requested from the service when the lookup asks for a
// strict JSON schema.
type Details struct {
	Title    string `json:"title" jsonschema:"description=The official movie title"`
	Year     int    `json:"year" jsonschema:"description=Release year"`
	Genre    string `json:"genre" jsonschema:"description=Main genre(s)"`
	Director string `json:"director" jsonschema:"description=Director name(s)"`
	Summary  string `json:"summary" jsonschema:"description=A brief plot summary (2-3 sentences)"`
}

// Data is the result of a movie lookup. It is either structured key-value
// data or the raw response text when the response could not be parsed.
type Data struct {
	fields map[string]string
	raw    string
}

func Structured(fields map[string]string) Data {
	if fields == nil {
		return Data{fields: map[string]string{}}
	}
	return Data{fields: maps.Clone(fields)}
}

func Unstructured(raw string) Data {
	return Data{raw: raw}
}

// ParseData parses raw as a JSON object. Anything else, including valid JSON
// that is not an object, yields Unstructured(raw).
func ParseData(raw string) Data {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return Unstructured(raw)
	}

	fields := make(map[string]string, len(obj))
	for key, value := range obj {
		fields[key] = stringify(value)
	}
	return Data{fields: fields}
}

func (d Data) IsStructured() bool {
	return d.fields != nil
}

// Summary returns the summary field. Unstructured data always reports its raw
// text.
func (d Data) Summary() (string, bool) {
	if !d.IsStructured() {
		return d.raw, true
	}
	s, ok := d.fields[SummaryKey]
	return s, ok
}

func (d Data) Field(key string) (string, bool) {
	if key == SummaryKey {
		return d.Summary()
	}
	s, ok := d.fields[key]
	return s, ok
}

// Keys returns the structured field names in sorted order.
func (d Data) Keys() []string {
	return slices.Sorted(maps.Keys(d.fields))
}

func (d Data) Raw() string {
	return d.raw
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// Actionized holds the rewritten title and summary.
type Actionized struct {
	Title   string
	Summary string
}
