// Find: equality filtering with an optional inclusion projection.
//
// The filter is a map of field paths to expected values; a document
// matches when every entry is equal (deep structural equality). An empty
// filter matches everything. The projection names the top-level fields to
// keep; a field is kept when its projection value is true or a non-zero
// number. An empty projection returns the full payload.
//
// Results are copies of the matching documents: id and timestamps as
// stored, Data projected.
//
//	c.Find(map[string]any{"age": 30}, map[string]any{"name": 1})
//	// [{"id": "...", "data": {"name": "John Doe"}, ...}]
package nosqlite

// Find returns copies of the matching documents in insertion order. A
// filter or projection that cannot be represented as JSON fails with
// DocumentInvalid.
func (c *Collection) Find(filter, projection map[string]any) ([]*Document, error) {
	want, err := normalizeMap(filter)
	if err != nil {
		return nil, c.fail(KindDocumentInvalid, "filter is not valid JSON: %v", err)
	}
	proj, err := normalizeMap(projection)
	if err != nil {
		return nil, c.fail(KindDocumentInvalid, "projection is not valid JSON: %v", err)
	}
	keep := included(proj)

	out := []*Document{}
	for _, d := range c.Documents {
		if !matches(d.Data, want) {
			continue
		}
		cp, err := normalize(d.Data)
		if err != nil {
			continue
		}
		out = append(out, &Document{
			ID:        d.ID,
			Data:      project(cp, keep),
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return out, nil
}

// matches reports whether data satisfies every filter entry.
func matches(data any, filter map[string]any) bool {
	for path, want := range filter {
		if !fieldEquals(data, path, want) {
			return false
		}
	}
	return true
}

// included returns the projected field names, or nil for no projection.
// The projection must already be normalised.
func included(projection map[string]any) []string {
	var keys []string
	for k, v := range projection {
		if truthy(v) {
			keys = append(keys, k)
		}
	}
	return keys
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	}
	return false
}

// project keeps only the given top-level fields of an object payload.
// Non-object payloads and a nil key list pass through unchanged.
func project(data any, keys []string) any {
	obj, ok := data.(map[string]any)
	if !ok || keys == nil {
		return data
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			out[k] = v
		}
	}
	return out
}
