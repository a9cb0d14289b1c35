// Store: the programmatic surface over one encrypted store file.
//
// A Store owns the in-memory catalog, the key and the diagnostics channel.
// Every mutating operation runs the store's post-mutation hook once it has
// succeeded. By default the hook is Flush, so each successful write is on
// disk before the call returns. With Config.Manual the hook only marks the
// store dirty; callers batch writes and call Flush themselves, and Close
// flushes whatever is pending.
//
// A save that fails after a successful mutation is returned to the caller.
// The mutation stays applied in memory and the store stays dirty, so a
// later Flush or Close retries the write.
//
// A Store is not safe for concurrent use, and two processes must not open
// the same file.
package nosqlite

import (
	"io"
	"log/slog"
	"time"
)

const (
	// Extension is the conventional store file extension.
	Extension = ".nosqlite"

	// DefaultPath is used when Open is given an empty path.
	DefaultPath = "db" + Extension
)

// Config holds store configuration options. The zero value is usable.
type Config struct {
	KeyFile    string       // Hex key file, created on first use (default db.key)
	Key        []byte       // Explicit key material; overrides KeyFile
	Manual     bool         // Defer saves until Flush or Close
	SyncWrites bool         // fsync the store file before each rename
	MustExist  bool         // Fail with DatabaseNotFound if the store is absent
	Logger     *slog.Logger // Operational logging (default discards)
}

// Store is an open store file.
type Store struct {
	path    string
	key     []byte
	config  Config
	catalog *Catalog
	diag    *Diagnostics
	logger  *slog.Logger

	sum    uint64 // checksum of the last serialisation on disk
	saved  bool   // sum reflects the file
	dirty  bool
	closed bool

	afterWrite func() error // post-mutation hook
}

// CollectionSummary describes a collection without exposing its documents.
type CollectionSummary struct {
	Name      string
	Structure any
	Count     int
	CreatedAt int64
}

// Match selects the documents a write applies to. ByID targets one
// document; Where targets every document whose field equals the value.
type Match struct {
	id    string
	field string
	value any
	byID  bool
}

// ByID matches the document with the given id.
func ByID(id string) Match {
	return Match{id: id, byID: true}
}

// Where matches every document whose value at the dot-separated field path
// is structurally equal to value.
func Where(field string, value any) Match {
	return Match{field: field, value: value}
}

// Open opens the store at path, or prepares an empty one if the file does
// not exist. A missing store is not written until the first save.
func Open(path string, config Config) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if config.KeyFile == "" {
		config.KeyFile = DefaultKeyFile
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	diag := NewDiagnostics(path, config.Logger)

	key, err := resolveKey(config)
	if err != nil {
		return nil, diag.Report(asError(err))
	}

	if err := removeStale(path); err != nil {
		return nil, diag.Report(wrap(KindIoError, err))
	}

	found, err := exists(path)
	if err != nil {
		return nil, diag.Report(wrap(KindIoError, err))
	}
	if !found && config.MustExist {
		return nil, diag.Report(errorf(KindDatabaseNotFound, "no database at '%s'", path))
	}

	catalog, err := Load(path, key, diag)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:    path,
		key:     key,
		config:  config,
		catalog: catalog,
		diag:    diag,
		logger:  config.Logger,
	}
	if config.Manual {
		s.afterWrite = s.markDirty
	} else {
		s.afterWrite = s.Flush
	}

	if found {
		if data, err := catalog.encode(); err == nil {
			s.sum = Checksum(data)
			s.saved = true
		}
	}

	s.logger.Debug("store opened",
		slog.String("path", path),
		slog.Bool("existing", found),
		slog.Int("collections", len(catalog.Collections)),
		slog.String("key", Fingerprint(key)),
	)
	return s, nil
}

// Create writes a new empty store at path. It fails with
// DatabaseAlreadyExists if the file is already there.
func Create(path string, config Config) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	found, err := exists(path)
	if err != nil {
		return nil, NewDiagnostics(path, config.Logger).Report(wrap(KindIoError, err))
	}
	if found {
		return nil, NewDiagnostics(path, config.Logger).Report(
			errorf(KindDatabaseAlreadyExists, "database '%s' already exists", path))
	}
	config.MustExist = false
	s, err := Open(path, config)
	if err != nil {
		return nil, err
	}
	if err := s.Flush(); err != nil {
		return nil, err
	}
	return s, nil
}

func resolveKey(config Config) ([]byte, error) {
	if config.Key != nil {
		if len(config.Key) != KeySize {
			return nil, errorf(KindEncryptionError, "key must be %d bytes, got %d", KeySize, len(config.Key))
		}
		return append([]byte(nil), config.Key...), nil
	}
	return LoadOrGenerateKey(config.KeyFile)
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// LogPath returns the diagnostics log path.
func (s *Store) LogPath() string {
	return s.diag.LogPath()
}

// Fingerprint identifies the store's key without revealing it.
func (s *Store) Fingerprint() string {
	return Fingerprint(s.key)
}

// Dirty reports whether the in-memory catalog has unsaved changes.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Errors returns every error this store has reported, oldest first.
func (s *Store) Errors() []*Error {
	return s.diag.Errors()
}

func (s *Store) check() error {
	if s.closed {
		return s.diag.Report(errorf(KindIoError, "store '%s' is closed", s.path))
	}
	return nil
}

func (s *Store) markDirty() error {
	s.dirty = true
	return nil
}

// mutate runs op and, if it succeeds, the post-mutation hook.
func (s *Store) mutate(op func() error) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := op(); err != nil {
		return err
	}
	s.dirty = true
	return s.afterWrite()
}

// Flush writes the catalog to disk if it differs from the last save.
func (s *Store) Flush() error {
	if err := s.check(); err != nil {
		return err
	}
	data, err := s.catalog.encode()
	if err != nil {
		return s.diag.Report(asError(err))
	}
	sum := Checksum(data)
	if s.saved && sum == s.sum {
		s.dirty = false
		return nil
	}

	start := time.Now()
	if err := persist(s.path, data, s.key, s.diag, s.config.SyncWrites); err != nil {
		return err
	}
	s.sum = sum
	s.saved = true
	s.dirty = false
	s.logger.Debug("store saved",
		slog.String("path", s.path),
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Close flushes pending changes. The store cannot be used afterwards.
// Closing twice is a no-op.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	if s.dirty {
		if err := s.Flush(); err != nil {
			return err
		}
	}
	s.closed = true
	s.logger.Debug("store closed", slog.String("path", s.path))
	return nil
}

// AddCollection creates an empty collection with the given schema.
func (s *Store) AddCollection(name string, schema any) error {
	return s.mutate(func() error {
		return s.catalog.Add(name, schema)
	})
}

// RemoveCollection drops a collection and its documents.
func (s *Store) RemoveCollection(name string) error {
	return s.mutate(func() error {
		return s.catalog.Remove(name)
	})
}

// Insert adds a document to a collection.
func (s *Store) Insert(collection string, payload any) error {
	return s.mutate(func() error {
		col, err := s.catalog.Collection(collection)
		if err != nil {
			return err
		}
		return col.Insert(payload)
	})
}

// Replace overwrites the payload of the matched documents.
func (s *Store) Replace(collection string, m Match, payload any) error {
	return s.mutate(func() error {
		col, err := s.catalog.Collection(collection)
		if err != nil {
			return err
		}
		if m.byID {
			return col.ReplaceByID(m.id, payload)
		}
		return col.Replace(m.field, m.value, payload)
	})
}

// PatchField sets one top-level field of the matched documents without
// schema validation.
func (s *Store) PatchField(collection string, m Match, field string, value any) error {
	return s.mutate(func() error {
		col, err := s.catalog.Collection(collection)
		if err != nil {
			return err
		}
		if m.byID {
			return col.PatchByID(m.id, field, value)
		}
		return col.Patch(m.field, m.value, field, value)
	})
}

// Delete removes the matched documents.
func (s *Store) Delete(collection string, m Match) error {
	return s.mutate(func() error {
		col, err := s.catalog.Collection(collection)
		if err != nil {
			return err
		}
		if m.byID {
			return col.DeleteByID(m.id)
		}
		return col.Delete(m.field, m.value)
	})
}

// Find returns copies of the documents matching filter, with Data
// reduced to the projected fields.
func (s *Store) Find(collection string, filter, projection map[string]any) ([]*Document, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	col, err := s.catalog.Collection(collection)
	if err != nil {
		return nil, err
	}
	return col.Find(filter, projection)
}

// Get returns the document with the given id.
func (s *Store) Get(collection, id string) (*Document, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	col, err := s.catalog.Collection(collection)
	if err != nil {
		return nil, err
	}
	doc, ok := col.GetByID(id)
	if !ok {
		return nil, s.diag.Report(errorf(KindDocumentNotFound, "no document with id %q in '%s'", id, collection))
	}
	return doc, nil
}

// GetWhere returns the first document whose field equals value.
func (s *Store) GetWhere(collection, field string, value any) (*Document, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	col, err := s.catalog.Collection(collection)
	if err != nil {
		return nil, err
	}
	doc, ok := col.Get(field, value)
	if !ok {
		return nil, s.diag.Report(errorf(KindDocumentNotFound, "no document found where '%s' == %s in '%s'",
			field, render(value), collection))
	}
	return doc, nil
}

// Documents returns every document of a collection in insertion order.
func (s *Store) Documents(collection string) ([]*Document, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	col, err := s.catalog.Collection(collection)
	if err != nil {
		return nil, err
	}
	return col.List(), nil
}

// ListCollections summarises every collection in insertion order.
func (s *Store) ListCollections() []CollectionSummary {
	out := make([]CollectionSummary, 0, len(s.catalog.Collections))
	for _, col := range s.catalog.Collections {
		out = append(out, CollectionSummary{
			Name:      col.Name,
			Structure: col.Structure,
			Count:     col.Count(),
			CreatedAt: col.CreatedAt,
		})
	}
	return out
}

// Export writes the catalog to w as Zstd-compressed, unencrypted JSON.
func (s *Store) Export(w io.Writer) error {
	if err := s.check(); err != nil {
		return err
	}
	data, err := s.catalog.encode()
	if err != nil {
		return s.diag.Report(asError(err))
	}
	if _, err := w.Write(compress(data)); err != nil {
		return s.diag.Report(wrap(KindIoError, err))
	}
	return nil
}

// Import replaces the whole catalog with a dump written by Export.
func (s *Store) Import(r io.Reader) error {
	return s.mutate(func() error {
		raw, err := io.ReadAll(r)
		if err != nil {
			return s.diag.Report(wrap(KindIoError, err))
		}
		data, err := decompress(raw)
		if err != nil {
			return s.diag.Report(asError(err))
		}
		catalog, err := decodeCatalog(data)
		if err != nil {
			return s.diag.Report(asError(err))
		}
		catalog.attach(s.diag)
		s.catalog = catalog
		return nil
	})
}

func (s *Store) String() string {
	return s.catalog.String()
}
