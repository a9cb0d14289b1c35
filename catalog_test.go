package nosqlite

import (
	"errors"
	"reflect"
	"testing"
)

func TestCatalogAdd(t *testing.T) {
	c := NewCatalog()
	if err := c.Add("users", map[string]any{"name": "string"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	col, ok := c.Get("users")
	if !ok {
		t.Fatal("collection not found after Add")
	}
	if col.Count() != 0 || col.CreatedAt == 0 {
		t.Errorf("new collection = %+v", col)
	}
}

func TestCatalogZeroValue(t *testing.T) {
	var c Catalog
	if _, ok := c.Get("x"); ok {
		t.Error("zero catalog found a collection")
	}
	if err := c.Add("x", map[string]any{}); err != nil {
		t.Fatalf("Add on zero catalog: %v", err)
	}
	if err := c.Add("x", map[string]any{}); !errors.Is(err, ErrCollectionAlreadyExists) {
		t.Errorf("second Add = %v, want CollectionAlreadyExists", err)
	}
	if err := c.Remove("x"); err != nil {
		t.Errorf("Remove: %v", err)
	}
}

func TestCatalogAssignedCollections(t *testing.T) {
	c := NewCatalog()
	c.Collections = []*Collection{newCollection("a", map[string]any{}, nil)}
	if _, ok := c.Get("a"); !ok {
		t.Error("Get missed a directly assigned collection")
	}
}

func TestCatalogAddDuplicate(t *testing.T) {
	// A taken name fails regardless of the second schema, even one that
	// would itself be invalid.
	schemas := []any{map[string]any{}, map[string]any{"x": "number"}, "not an object"}
	for _, s := range schemas {
		c := NewCatalog()
		c.Add("x", map[string]any{})
		if err := c.Add("x", s); !errors.Is(err, ErrCollectionAlreadyExists) {
			t.Errorf("Add(x, %v) = %v, want CollectionAlreadyExists", s, err)
		}
	}
}

func TestCatalogAddInvalid(t *testing.T) {
	c := NewCatalog()
	if err := c.Add("", map[string]any{}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name = %v, want ErrEmptyName", err)
	}
	for _, s := range []any{"string", []any{}, 3, nil} {
		if err := c.Add("bad", s); !errors.Is(err, ErrInvalidCollectionStructure) {
			t.Errorf("Add(bad, %v) = %v, want InvalidCollectionStructure", s, err)
		}
	}
	if len(c.Collections) != 0 {
		t.Errorf("failed adds left %d collections", len(c.Collections))
	}
}

func TestCatalogRemove(t *testing.T) {
	c := NewCatalog()
	for _, name := range []string{"a", "b", "c"} {
		c.Add(name, map[string]any{})
	}
	if err := c.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !reflect.DeepEqual(c.Names(), []string{"b", "c"}) {
		t.Errorf("Names = %v", c.Names())
	}
	// The index must follow the shift.
	if col, ok := c.Get("c"); !ok || col.Name != "c" {
		t.Errorf("Get(c) after removal = %v, %v", col, ok)
	}
	if err := c.Remove("a"); !errors.Is(err, ErrCollectionNotFound) {
		t.Errorf("second Remove = %v, want CollectionNotFound", err)
	}
	if _, err := c.Collection("zzz"); !errors.Is(err, ErrCollectionNotFound) {
		t.Errorf("Collection(zzz) = %v, want CollectionNotFound", err)
	}
}

func TestCatalogNamesCaseSensitive(t *testing.T) {
	c := NewCatalog()
	if err := c.Add("Users", map[string]any{}); err != nil {
		t.Fatal(err)
	}
	if err := c.Add("users", map[string]any{}); err != nil {
		t.Errorf("Add(users) after Users = %v", err)
	}
	if _, ok := c.Get("USERS"); ok {
		t.Error("lookup is not exact")
	}
}

func TestCatalogEncodeDecode(t *testing.T) {
	c := NewCatalog()
	c.Add("users", map[string]any{"name": "string"})
	c.Add("posts", map[string]any{})
	users, _ := c.Get("users")
	users.Insert(map[string]any{"name": "Alice"})

	data, err := c.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeCatalog(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got.Names(), []string{"users", "posts"}) {
		t.Errorf("Names = %v", got.Names())
	}
	u, ok := got.Get("users")
	if !ok || u.Count() != 1 {
		t.Fatalf("users not restored")
	}
	if !reflect.DeepEqual(u.Documents[0], users.Documents[0]) {
		t.Errorf("document = %+v, want %+v", u.Documents[0], users.Documents[0])
	}
	p, _ := got.Get("posts")
	if p.Documents == nil {
		t.Error("empty documents decoded as nil")
	}
}

func TestDecodeCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"not json", "nope", ErrDeserialization},
		{"wrong shape", `{"collections": 5}`, ErrDeserialization},
		{"duplicate names", `{"collections": [{"name": "a", "structure": {}, "documents": []}, {"name": "a", "structure": {}, "documents": []}]}`, ErrInvalidDatabaseFormat},
		{"null collection", `{"collections": [null]}`, ErrDeserialization},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeCatalog([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("decodeCatalog = %v, want %v", err, tt.want)
			}
		})
	}

	// An empty object is a valid, empty catalog.
	c, err := decodeCatalog([]byte(`{}`))
	if err != nil || len(c.Collections) != 0 {
		t.Errorf("decodeCatalog({}) = %v, %v", c, err)
	}
}

func TestCatalogString(t *testing.T) {
	c := NewCatalog()
	if got := c.String(); got != "No collections.\n" {
		t.Errorf("empty String() = %q", got)
	}
	c.Add("a", map[string]any{})
	c.Add("b", map[string]any{})
	want := "Collection 'a'\n  0 document(s)\nCollection 'b'\n  0 document(s)\n"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
