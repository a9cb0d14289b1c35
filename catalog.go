// Catalog: the ordered registry of collections.
//
// The catalog is the unit of persistence. It encodes as
//
//	{"collections": [{"name": ..., "structure": ..., "documents": [...], "created_at": ...}]}
//
// and is always saved and loaded whole. Collections are kept in insertion
// order with a name index beside them; the index is rebuilt after any
// removal and after decoding.
package nosqlite

import (
	"fmt"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
)

// Catalog holds every collection of a store.
type Catalog struct {
	Collections []*Collection `json:"collections"`

	index map[string]int
	diag  *Diagnostics
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Collections: []*Collection{},
		index:       map[string]int{},
	}
}

// attach wires the diagnostics channel into the catalog and every
// collection it holds.
func (c *Catalog) attach(diag *Diagnostics) {
	c.diag = diag
	for _, col := range c.Collections {
		col.diag = diag
	}
}

func (c *Catalog) reindex() {
	c.index = make(map[string]int, len(c.Collections))
	for i, col := range c.Collections {
		c.index[col.Name] = i
	}
}

// position returns the index of the named collection. The name index is
// rebuilt first when it is missing or out of step with Collections, as in
// a zero Catalog or one whose Collections were assigned directly.
func (c *Catalog) position(name string) (int, bool) {
	if c.index == nil || len(c.index) != len(c.Collections) {
		c.reindex()
	}
	i, ok := c.index[name]
	return i, ok
}

// Add creates an empty collection. The schema must be a JSON object.
func (c *Catalog) Add(name string, schema any) error {
	if _, ok := c.position(name); ok {
		return c.diag.Report(errorf(KindCollectionAlreadyExists, "collection '%s' already exists", name))
	}
	if name == "" {
		return c.diag.Report(ErrEmptyName)
	}
	s, err := normalize(schema)
	if err != nil {
		return c.diag.Report(errorf(KindInvalidCollectionStructure, "structure is not valid JSON: %v", err))
	}
	if _, ok := s.(map[string]any); !ok {
		return c.diag.Report(errorf(KindInvalidCollectionStructure, "structure of '%s' must be a JSON object", name))
	}
	c.index[name] = len(c.Collections)
	c.Collections = append(c.Collections, newCollection(name, s, c.diag))
	return nil
}

// Remove drops a collection and all of its documents.
func (c *Catalog) Remove(name string) error {
	i, ok := c.position(name)
	if !ok {
		return c.diag.Report(errorf(KindCollectionNotFound, "collection '%s' not found", name))
	}
	c.Collections = slices.Delete(c.Collections, i, i+1)
	c.reindex()
	return nil
}

// Get looks up a collection by exact name.
func (c *Catalog) Get(name string) (*Collection, bool) {
	i, ok := c.position(name)
	if !ok {
		return nil, false
	}
	return c.Collections[i], true
}

// Collection is Get with a reported CollectionNotFound error.
func (c *Catalog) Collection(name string) (*Collection, error) {
	col, ok := c.Get(name)
	if !ok {
		return nil, c.diag.Report(errorf(KindCollectionNotFound, "collection '%s' not found", name))
	}
	return col, nil
}

// List returns all collections in insertion order.
func (c *Catalog) List() []*Collection {
	return slices.Clone(c.Collections)
}

// Names returns the collection names in insertion order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Collections))
	for i, col := range c.Collections {
		names[i] = col.Name
	}
	return names
}

// encode returns the canonical serialisation: two-space indented JSON.
func (c *Catalog) encode() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, wrap(KindSerializationError, err)
	}
	return data, nil
}

// decodeCatalog parses a serialised catalog. Duplicate collection names
// are rejected.
func decodeCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, wrap(KindDeserializationError, err)
	}
	if c.Collections == nil {
		c.Collections = []*Collection{}
	}
	seen := make(map[string]bool, len(c.Collections))
	for _, col := range c.Collections {
		if col == nil {
			return nil, errorf(KindDeserializationError, "null collection entry")
		}
		if seen[col.Name] {
			return nil, errorf(KindInvalidDatabaseFormat, "duplicate collection '%s'", col.Name)
		}
		seen[col.Name] = true
		if col.Documents == nil {
			col.Documents = []*Document{}
		}
		if slices.Contains(col.Documents, nil) {
			return nil, errorf(KindDeserializationError, "null document in collection '%s'", col.Name)
		}
	}
	c.reindex()
	return &c, nil
}

func (c *Catalog) String() string {
	if len(c.Collections) == 0 {
		return "No collections.\n"
	}
	var b strings.Builder
	for _, col := range c.Collections {
		fmt.Fprint(&b, col)
	}
	return b.String()
}
