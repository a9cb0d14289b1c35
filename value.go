// Payload values.
//
// Payloads are untyped JSON trees. Everything that enters the engine is
// normalised with a JSON round trip so only map[string]any, []any, string,
// float64, bool and nil are ever stored. This makes validation and
// equality independent of the Go types the caller used (int vs float64,
// []string vs []any) and gives the engine its own copy of the data.
package nosqlite

import (
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
)

// normalize returns a deep copy of v built from decoded JSON types.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeMap normalises each value of m. It returns nil for an empty map.
func normalizeMap(m map[string]any) (map[string]any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		nv, err := normalize(v)
		if err != nil {
			return nil, err
		}
		out[k] = nv
	}
	return out, nil
}

// lookup resolves a dot-separated path through nested objects. A path
// segment that hits a non-object value ends the lookup unsuccessfully.
func lookup(data any, path string) (any, bool) {
	cur := data
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// equal reports deep structural equality of two normalised values.
func equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// fieldEquals reports whether the value at path in data equals want.
func fieldEquals(data any, path string, want any) bool {
	got, ok := lookup(data, path)
	return ok && equal(got, want)
}

// render formats a normalised value for error details.
func render(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "?"
	}
	return string(data)
}
