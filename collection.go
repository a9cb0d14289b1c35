// Collections and their document operations.
//
// Documents are kept in insertion order in a plain slice. Every lookup by
// field is a linear scan; there is no index. Single-target operations
// (the ...ByID variants and Get) stop at the first match, while the
// field-based write operations (Replace, Patch, Delete) apply to every
// matching document.
//
// Writes that replace a payload are validated against the schema.
// Patches set one top-level field and deliberately skip validation.
// A failed operation leaves the collection exactly as it was: bulk writes
// check every target before changing any of them.
package nosqlite

import (
	"fmt"
	"slices"
	"strings"
)

// Collection is a named, schema-bound set of documents.
type Collection struct {
	Name      string      `json:"name"`
	Structure any         `json:"structure"`
	Documents []*Document `json:"documents"`
	CreatedAt int64       `json:"created_at"` // Unix seconds

	diag *Diagnostics
}

// newCollection builds an empty collection. The schema is not checked
// here; Catalog.Add does that.
func newCollection(name string, structure any, diag *Diagnostics) *Collection {
	return &Collection{
		Name:      name,
		Structure: structure,
		Documents: []*Document{},
		CreatedAt: now(),
		diag:      diag,
	}
}

// fail reports a new error through the diagnostics channel.
func (c *Collection) fail(kind Kind, format string, args ...any) error {
	return c.diag.Report(errorf(kind, format, args...))
}

// Insert validates payload and appends it as a new document.
func (c *Collection) Insert(payload any) error {
	data, err := normalize(payload)
	if err != nil {
		return c.fail(KindDocumentInvalid, "document is not valid JSON: %v", err)
	}
	if kind, msg := validPayload(data, c.Structure); kind != 0 {
		return c.fail(kind, "%s", msg)
	}
	c.Documents = append(c.Documents, newDocument(data))
	return nil
}

// ReplaceByID overwrites the payload of the document with the given id.
func (c *Collection) ReplaceByID(id string, payload any) error {
	i := c.indexOf(id)
	if i < 0 {
		return c.fail(KindDocumentNotFound, "no document with id %q", id)
	}
	data, err := normalize(payload)
	if err != nil {
		return c.fail(KindDocumentInvalid, "document is not valid JSON: %v", err)
	}
	if schema, ok := c.Structure.(map[string]any); ok {
		doc, ok := data.(map[string]any)
		if !ok || !Validate(doc, schema) {
			return c.fail(KindDocumentInvalid, "new data does not match the collection's structure")
		}
	}
	c.Documents[i].set(data)
	return nil
}

// Replace overwrites the payload of every document whose value at field
// equals value. The payload replaces the data entirely; it is not merged.
// The payload is checked before the match, so an invalid payload is
// DocumentInvalid even when nothing matches.
func (c *Collection) Replace(field string, value, payload any) error {
	data, err := normalize(payload)
	if err != nil {
		return c.fail(KindDocumentInvalid, "new data is not valid JSON: %v", err)
	}
	doc, ok := data.(map[string]any)
	if !ok {
		return c.fail(KindDocumentInvalid, "new data must be a JSON object")
	}
	if schema, ok := c.Structure.(map[string]any); ok && !Validate(doc, schema) {
		return c.fail(KindDocumentInvalid, "new data does not match the collection's structure")
	}
	matches, err := c.matching(field, value)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return c.fail(KindDocumentNotFound, "no document found where '%s' == %s", field, render(value))
	}
	for n, i := range matches {
		if n == 0 {
			c.Documents[i].set(data)
			continue
		}
		// Each document owns its payload.
		cp, _ := normalize(data)
		c.Documents[i].set(cp)
	}
	return nil
}

// PatchByID sets target at the top level of one document's payload.
func (c *Collection) PatchByID(id, target string, value any) error {
	i := c.indexOf(id)
	if i < 0 {
		return c.fail(KindDocumentNotFound, "no document with id %q", id)
	}
	return c.patch([]int{i}, target, value)
}

// Patch sets target at the top level of every document whose value at
// field equals value.
func (c *Collection) Patch(field string, value any, target string, v any) error {
	matches, err := c.matching(field, value)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return c.fail(KindDocumentNotFound, "no document found where '%s' == %s", field, render(value))
	}
	return c.patch(matches, target, v)
}

func (c *Collection) patch(indices []int, target string, value any) error {
	v, err := normalize(value)
	if err != nil {
		return c.fail(KindDocumentInvalid, "field value is not valid JSON: %v", err)
	}
	for _, i := range indices {
		if _, ok := c.Documents[i].Data.(map[string]any); !ok {
			return c.fail(KindDocumentInvalid, "document data is not a JSON object")
		}
	}
	for n, i := range indices {
		if n > 0 {
			v, _ = normalize(value)
		}
		c.Documents[i].Data.(map[string]any)[target] = v
		c.Documents[i].touch()
	}
	return nil
}

// DeleteByID removes the document with the given id.
func (c *Collection) DeleteByID(id string) error {
	i := c.indexOf(id)
	if i < 0 {
		return c.fail(KindDocumentNotFound, "no document with id %q", id)
	}
	c.Documents = slices.Delete(c.Documents, i, i+1)
	return nil
}

// Delete removes every document whose value at field equals value.
func (c *Collection) Delete(field string, value any) error {
	want, err := normalize(value)
	if err != nil {
		return c.fail(KindDocumentInvalid, "match value is not valid JSON: %v", err)
	}
	before := len(c.Documents)
	c.Documents = slices.DeleteFunc(c.Documents, func(d *Document) bool {
		return fieldEquals(d.Data, field, want)
	})
	if len(c.Documents) == before {
		return c.fail(KindDocumentNotFound, "no document found where '%s' == %s", field, render(want))
	}
	return nil
}

// GetByID returns the document with the given id.
func (c *Collection) GetByID(id string) (*Document, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return c.Documents[i], true
}

// Get returns the first document whose value at field equals value.
func (c *Collection) Get(field string, value any) (*Document, bool) {
	want, err := normalize(value)
	if err != nil {
		return nil, false
	}
	for _, d := range c.Documents {
		if fieldEquals(d.Data, field, want) {
			return d, true
		}
	}
	return nil, false
}

// List returns all documents in insertion order. The slice is a copy;
// the documents are not and must be treated as read-only.
func (c *Collection) List() []*Document {
	return slices.Clone(c.Documents)
}

// Count returns the number of documents.
func (c *Collection) Count() int {
	return len(c.Documents)
}

func (c *Collection) indexOf(id string) int {
	return slices.IndexFunc(c.Documents, func(d *Document) bool {
		return d.ID == id
	})
}

// matching returns the indices of every document whose value at field
// equals value.
func (c *Collection) matching(field string, value any) ([]int, error) {
	want, err := normalize(value)
	if err != nil {
		return nil, c.fail(KindDocumentInvalid, "match value is not valid JSON: %v", err)
	}
	var out []int
	for i, d := range c.Documents {
		if fieldEquals(d.Data, field, want) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (c *Collection) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Collection '%s'\n", c.Name)
	if s, ok := c.Structure.(map[string]any); !ok || len(s) > 0 {
		fmt.Fprintf(&b, "  Required Structure: %s\n", render(c.Structure))
	}
	fmt.Fprintf(&b, "  %d document(s)\n", len(c.Documents))
	return b.String()
}
