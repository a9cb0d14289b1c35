// Loading and saving the store file.
//
// The whole catalog is written on every save. The sealed blob goes to a
// sibling <path>.tmp first, is optionally synced, and is then renamed over
// the store. A crash before the rename leaves the previous store intact and
// at worst orphans the .tmp file, which Open removes.
//
// Loading never falls back to an empty catalog when a file exists but
// cannot be read, decrypted or parsed. Only a missing file yields an empty
// catalog.
package nosqlite

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// tmpPath is the sibling used for atomic saves.
func tmpPath(path string) string {
	return path + ".tmp"
}

// Load reads, decrypts and parses the store at path. A missing file yields
// an empty catalog. Errors are reported to diag.
func Load(path string, key []byte, diag *Diagnostics) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		c := NewCatalog()
		c.attach(diag)
		return c, nil
	}
	if err != nil {
		return nil, diag.Report(wrap(KindIoError, err))
	}

	plain, err := Decrypt(strings.TrimSpace(string(raw)), key)
	if err != nil {
		inner := diag.Report(asError(err))
		return nil, diag.Report(&Error{
			Kind:   KindEncryptionError,
			Detail: "failed to decrypt database: " + inner.Detail,
			Err:    inner,
		})
	}

	c, err := decodeCatalog([]byte(plain))
	if err != nil {
		e := diag.Report(asError(err))
		if e.Kind == KindInvalidDatabaseFormat {
			return nil, e
		}
		return nil, diag.Report(&Error{
			Kind:   KindInvalidDatabaseFormat,
			Detail: "failed to parse database: " + e.Detail,
			Err:    e,
		})
	}
	c.attach(diag)
	return c, nil
}

// Save serialises, encrypts and atomically writes the catalog to path.
func Save(path string, c *Catalog, key []byte, diag *Diagnostics, sync bool) error {
	data, err := c.encode()
	if err != nil {
		return diag.Report(asError(err))
	}
	return persist(path, data, key, diag, sync)
}

// persist seals already serialised catalog bytes and writes them through
// the .tmp sibling.
func persist(path string, data, key []byte, diag *Diagnostics, sync bool) error {
	blob, err := Encrypt(string(data), key)
	if err != nil {
		return diag.Report(asError(err))
	}
	if err := writeAtomic(path, []byte(blob), sync); err != nil {
		return diag.Report(wrap(KindIoError, err))
	}
	return nil
}

func writeAtomic(path string, data []byte, sync bool) error {
	tmp := tmpPath(path)
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if sync {
		if err := f.Sync(); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// removeStale deletes a .tmp sibling left by an interrupted save.
func removeStale(path string) error {
	err := os.Remove(tmpPath(path))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// exists reports whether path names an existing file.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
