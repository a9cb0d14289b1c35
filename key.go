// Key file handling.
//
// The key lives outside the store in a text file of 64 hex characters.
// Whitespace around the hex is ignored so hand-edited files with a trailing
// newline still load.
package nosqlite

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"strings"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// DefaultKeyFile is used when Config.KeyFile is empty.
	DefaultKeyFile = "db.key"
)

// LoadOrGenerateKey reads the key at path, or generates a new random key
// and writes it there with mode 0600 when the file does not exist.
func LoadOrGenerateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return parseKey(string(data))
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, wrap(KindIoError, err)
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, wrap(KindIoError, err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0600); err != nil {
		return nil, wrap(KindIoError, err)
	}
	return key, nil
}

func parseKey(text string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, wrap(KindHexDecodeError, err)
	}
	if len(key) != KeySize {
		return nil, errorf(KindHexDecodeError, "key must be %d bytes, got %d", KeySize, len(key))
	}
	return key, nil
}
