// Compression for plaintext dumps.
//
// Store.Export writes the serialised catalog Zstd-compressed and
// unencrypted, for backups and for moving a store to a new key. The store
// file itself is never compressed: it is always the sealed JSON.
package nosqlite

import (
	"github.com/klauspost/compress/zstd"
)

// Shared encoder/decoder. Both are safe for concurrent use and costly to
// construct.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

func compress(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	return zstdEncoder.EncodeAll(data, nil)
}

func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, errorf(KindDeserializationError, "zstd: %v", err)
	}
	return out, nil
}
