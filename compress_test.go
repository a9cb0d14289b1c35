package nosqlite

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCompressRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"small", []byte(`{"collections": []}`)},
		{"repetitive", []byte(strings.Repeat(`{"name": "Alice"},`, 1000))},
		{"unicode", []byte(`{"name": "日本語 ✓"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := decompress(compress(tt.data))
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if !bytes.Equal(out, tt.data) {
				t.Errorf("round trip mismatch")
			}
		})
	}
}

func TestCompressEmpty(t *testing.T) {
	if got := compress(nil); got != nil {
		t.Errorf("compress(nil) = %v, want nil", got)
	}
	out, err := decompress(nil)
	if err != nil || out != nil {
		t.Errorf("decompress(nil) = %v, %v", out, err)
	}
}

func TestDecompressGarbage(t *testing.T) {
	if _, err := decompress([]byte("not zstd")); !errors.Is(err, ErrDeserialization) {
		t.Errorf("decompress = %v, want DeserializationError", err)
	}
}
