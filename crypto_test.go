package nosqlite

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, KeySize)
}

func TestEncryptDecrypt(t *testing.T) {
	key := testKey(1)
	for _, plain := range []string{"", "hello", `{"collections": []}`, "héllo wörld ✓"} {
		blob, err := Encrypt(plain, key)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", plain, err)
		}
		got, err := Decrypt(blob, key)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if got != plain {
			t.Errorf("round trip = %q, want %q", got, plain)
		}
	}
}

func TestEncryptFormat(t *testing.T) {
	blob, err := Encrypt("abc", testKey(1))
	if err != nil {
		t.Fatal(err)
	}
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		t.Fatalf("blob is not standard base64: %v", err)
	}
	// nonce + ciphertext + 16-byte tag
	if want := NonceSize + 3 + 16; len(raw) != want {
		t.Errorf("decoded length = %d, want %d", len(raw), want)
	}
}

func TestEncryptFreshNonce(t *testing.T) {
	key := testKey(1)
	a, _ := Encrypt("same", key)
	b, _ := Encrypt("same", key)
	if a == b {
		t.Error("two encryptions produced the same blob")
	}
}

func TestDecryptFailures(t *testing.T) {
	key := testKey(1)
	blob, _ := Encrypt("secret", key)
	raw, _ := base64.StdEncoding.DecodeString(blob)
	tampered := bytes.Clone(raw)
	tampered[len(tampered)-1] ^= 0xff

	tests := []struct {
		name string
		blob string
		key  []byte
		want error
	}{
		{"wrong key", blob, testKey(2), ErrEncryption},
		{"tampered", base64.StdEncoding.EncodeToString(tampered), key, ErrEncryption},
		{"short", base64.StdEncoding.EncodeToString([]byte("short")), key, ErrEncryption},
		{"empty", "", key, ErrEncryption},
		{"bad base64", "not base64!!", key, ErrBase64Decode},
		{"bad key length", blob, []byte("short"), ErrEncryption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decrypt(tt.blob, tt.key)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decrypt = %q, %v, want %v", got, err, tt.want)
			}
			if got != "" {
				t.Errorf("Decrypt returned plaintext %q on failure", got)
			}
		})
	}
}

func TestDecryptInvalidUTF8(t *testing.T) {
	key := testKey(1)
	blob, err := Encrypt(string([]byte{0xff, 0xfe}), key)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(blob, key); !errors.Is(err, ErrDeserialization) {
		t.Errorf("Decrypt = %v, want DeserializationError", err)
	}
}

func TestEncryptBadKey(t *testing.T) {
	if _, err := Encrypt("x", make([]byte, 16)); !errors.Is(err, ErrEncryption) {
		t.Errorf("Encrypt with 16-byte key = %v, want EncryptionError", err)
	}
}
