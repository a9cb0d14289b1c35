// Schema validation.
//
// A schema is an object whose values are either type names or nested
// schemas:
//
//	{"title": "string", "meta": {"tags": "array", "published": "boolean"}}
//
// Validation is open: every key in the schema must be present in the
// document with a matching type, and keys the schema does not mention are
// ignored. An empty schema accepts any object.
package nosqlite

import "strings"

// Validate reports whether doc satisfies schema.
func Validate(doc, schema map[string]any) bool {
	for key, expected := range schema {
		actual, ok := doc[key]
		if !ok {
			return false
		}
		switch exp := expected.(type) {
		case string:
			if !typeMatches(exp, actual) {
				return false
			}
		case map[string]any:
			sub, ok := actual.(map[string]any)
			if !ok || !Validate(sub, exp) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// typeMatches checks a value against a case-insensitive type name.
// Unknown type names never match.
func typeMatches(expected string, v any) bool {
	switch strings.ToLower(expected) {
	case "string":
		_, ok := v.(string)
		return ok
	case "number":
		return isNumber(v)
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	default:
		return false
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// validPayload checks a normalised payload against a collection schema. It
// returns the kind of failure, or 0 when the payload is acceptable.
func validPayload(payload, schema any) (Kind, string) {
	doc, ok := payload.(map[string]any)
	if !ok {
		return KindDocumentInvalid, "document must be a JSON object"
	}
	s, ok := schema.(map[string]any)
	if !ok {
		return KindInvalidCollectionStructure, "collection structure is not a JSON object"
	}
	if !Validate(doc, s) {
		return KindDocumentInvalid, "document does not match the collection's structure"
	}
	return 0, ""
}
