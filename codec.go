// On-disk document codec.
//
// Each document is one file, <id>.db, holding the document body (every
// field except id) as pretty-printed JSON, compressed. Zstd is the default;
// LZ4 is selectable via Config.Compression. Decode never consults the
// config — it sniffs the frame magic, so a directory written under one
// codec still loads after the configuration changes.
package dossier

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// docExt is the filename extension for document files.
const docExt = ".db"

// Shared zstd encoder/decoder — both are documented as safe for concurrent
// use. Allocated once because construction is expensive. SpeedFastest is
// deliberate: encode runs on every mutation while decode runs only during
// collection load.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Frame magic numbers, as written to disk (little-endian).
var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// encode serializes the document body as indented JSON and compresses it
// with the configured codec.
func encode(doc Document, compression int) ([]byte, error) {
	raw, err := json.MarshalIndent(doc.body(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	switch compression {
	case CompLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, fmt.Errorf("encode: lz4: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("encode: lz4: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return zstdEncoder.EncodeAll(raw, nil), nil
	}
}

// decode decompresses and parses a document body. The codec is detected
// from the frame magic. Any failure reports ErrCorruptDocument.
func decode(blob []byte) (Document, error) {
	var raw []byte
	var err error

	switch {
	case bytes.HasPrefix(blob, zstdMagic):
		raw, err = zstdDecoder.DecodeAll(blob, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorruptDocument, err)
		}
	case bytes.HasPrefix(blob, lz4Magic):
		raw, err = io.ReadAll(lz4.NewReader(bytes.NewReader(blob)))
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrCorruptDocument, err)
		}
	default:
		return nil, fmt.Errorf("%w: unrecognised frame", ErrCorruptDocument)
	}

	var body Document
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	// A null payload unmarshals into a nil map without error; it is not a
	// document body.
	if body == nil {
		return nil, fmt.Errorf("%w: null body", ErrCorruptDocument)
	}
	return body, nil
}
