// Hashes over store contents and key material.
//
// Neither hash is a security boundary. Checksum lets the store skip a
// rewrite when the serialised catalog has not changed since the last save.
// Fingerprint identifies a key in logs and in the CLI without revealing it.
package nosqlite

import (
	"encoding/hex"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Checksum returns the xxh3 hash of a serialised catalog.
func Checksum(data []byte) uint64 {
	return xxh3.Hash(data)
}

// Fingerprint returns 16 hex characters identifying key.
func Fingerprint(key []byte) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(key)
	return hex.EncodeToString(h.Sum(nil))
}
