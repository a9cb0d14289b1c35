// Documents.
//
// A Document is created only by Collection.Insert and lives only inside
// its collection. The ID is a random UUID assigned once; CreatedAt never
// changes; UpdatedAt moves forward on every write of Data.
package nosqlite

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document is a single record of a collection.
type Document struct {
	ID        string `json:"id"`
	Data      any    `json:"data"`
	CreatedAt int64  `json:"created_at"` // Unix seconds
	UpdatedAt int64  `json:"updated_at"` // Unix seconds
}

// newDocument wraps an already validated payload.
func newDocument(data any) *Document {
	ts := now()
	return &Document{
		ID:        uuid.NewString(),
		Data:      data,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Field resolves a dot-separated path inside the payload.
func (d *Document) Field(path string) (any, bool) {
	return lookup(d.Data, path)
}

// set replaces the payload and refreshes UpdatedAt.
func (d *Document) set(data any) {
	d.Data = data
	d.touch()
}

// touch refreshes UpdatedAt without letting it fall behind CreatedAt,
// which can happen if the wall clock steps backwards.
func (d *Document) touch() {
	d.UpdatedAt = max(now(), d.CreatedAt)
}

func (d *Document) String() string {
	return fmt.Sprintf("Document: '%s'\n  Data: %s\n  Created at: %d\n  Updated at: %d\n",
		d.ID, render(d.Data), d.CreatedAt, d.UpdatedAt)
}

// now returns the current time in Unix seconds.
func now() int64 {
	return time.Now().Unix()
}
