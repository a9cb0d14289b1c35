// Encryption of the serialised catalog.
//
// A store file holds base64(nonce || ciphertext || tag) produced by
// AES-256-GCM with a fresh 12-byte nonce per save. The standard base64
// alphabet with padding is used, so the file is a single ASCII line.
package nosqlite

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"unicode/utf8"
)

// NonceSize is the GCM nonce length prepended to every ciphertext.
const NonceSize = 12

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, errorf(KindEncryptionError, "key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wrap(KindEncryptionError, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, wrap(KindEncryptionError, err)
	}
	return gcm, nil
}

// Encrypt seals plaintext under key and returns the base64 blob.
func Encrypt(plaintext string, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", wrap(KindEncryptionError, err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a blob produced by Encrypt. A wrong key and a tampered
// blob are indistinguishable; both fail authentication.
func Decrypt(blob string, key []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", wrap(KindBase64DecodeError, err)
	}
	if len(raw) < NonceSize {
		return "", errorf(KindEncryptionError, "ciphertext too short: %d bytes", len(raw))
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	plain, err := gcm.Open(nil, raw[:NonceSize], raw[NonceSize:], nil)
	if err != nil {
		return "", errorf(KindEncryptionError, "decryption failed: %v", err)
	}
	if !utf8.Valid(plain) {
		return "", errorf(KindDeserializationError, "decrypted data is not valid UTF-8")
	}
	return string(plain), nil
}
