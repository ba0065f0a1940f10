// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how an asset file's payload is encoded. The
// values are stored on disk.
type Compression uint8

const (
	// CompressionNone stores the payload raw. Used for formats that are
	// already compressed and for data that does not shrink.
	CompressionNone Compression = 0

	// CompressionLZ4 is LZ4 block compression, chosen for data with a
	// modest ratio.
	CompressionLZ4 Compression = 1

	// CompressionZstd is zstd at the default level, chosen for data
	// that compresses well (uncompressed audio, raw documents).
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("workspace: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("workspace: zstd decoder initialization failed: " + err.Error())
	}
}

var errIncompressible = errors.New("data is incompressible")

// compressedSignatures are magic prefixes of formats that gain
// nothing from a second compression pass.
var compressedSignatures = [][]byte{
	[]byte("\x89PNG\r\n\x1a\n"), // PNG
	{0xff, 0xd8, 0xff},          // JPEG
	[]byte("GIF8"),              // GIF
	[]byte("PK\x03\x04"),        // zip
	{0x1f, 0x8b},                // gzip
	[]byte("OggS"),              // Ogg
	[]byte("ID3"),               // MP3 with ID3 tag
	[]byte("fLaC"),              // FLAC
	{0x28, 0xb5, 0x2f, 0xfd},    // zstd
}

func alreadyCompressed(data []byte) bool {
	for _, signature := range compressedSignatures {
		if bytes.HasPrefix(data, signature) {
			return true
		}
	}
	// WebP: RIFF....WEBP
	return len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP"))
}

// selectCompression probes data with zstd: a ratio of at least 1.5
// selects zstd, at least 1.1 selects LZ4, anything less stores raw.
func selectCompression(data []byte) Compression {
	if len(data) == 0 || alreadyCompressed(data) {
		return CompressionNone
	}
	compressed := zstdEncoder.EncodeAll(data, nil)
	ratio := float64(len(data)) / float64(len(compressed))
	switch {
	case ratio >= 1.5:
		return CompressionZstd
	case ratio >= 1.1:
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

func compress(data []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		destination := make([]byte, lz4.CompressBlockBound(len(data)))
		written, err := lz4.CompressBlock(data, destination, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		// CompressBlock returns 0 for incompressible input.
		if written == 0 || written >= len(data) {
			return nil, errIncompressible
		}
		return destination[:written], nil
	case CompressionZstd:
		compressed := zstdEncoder.EncodeAll(data, nil)
		if len(compressed) >= len(data) {
			return nil, errIncompressible
		}
		return compressed, nil
	default:
		return nil, fmt.Errorf("unsupported compression %s", compression)
	}
}

func decompress(payload []byte, compression Compression, size int) ([]byte, error) {
	switch compression {
	case CompressionNone:
		if len(payload) != size {
			return nil, fmt.Errorf("raw payload is %d bytes, header says %d", len(payload), size)
		}
		return payload, nil
	case CompressionLZ4:
		destination := make([]byte, size)
		read, err := lz4.UncompressBlock(payload, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
		}
		return destination, nil
	case CompressionZstd:
		result, err := zstdDecoder.DecodeAll(payload, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(result) != size {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), size)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported compression %s", compression)
	}
}

// encodeAsset returns the on-disk form of data: compression tag,
// uvarint length, payload.
func encodeAsset(data []byte) ([]byte, Compression, error) {
	compression := selectCompression(data)
	payload, err := compress(data, compression)
	if errors.Is(err, errIncompressible) {
		compression, payload = CompressionNone, data
	} else if err != nil {
		return nil, 0, err
	}
	encoded := make([]byte, 0, 1+binary.MaxVarintLen64+len(payload))
	encoded = append(encoded, byte(compression))
	encoded = binary.AppendUvarint(encoded, uint64(len(data)))
	return append(encoded, payload...), compression, nil
}

// maxAssetSize bounds the length an asset header may claim.
const maxAssetSize = 1 << 30

// decodeAsset reverses encodeAsset.
func decodeAsset(encoded []byte) ([]byte, error) {
	if len(encoded) == 0 {
		return nil, errors.New("empty asset file")
	}
	compression := Compression(encoded[0])
	size, n := binary.Uvarint(encoded[1:])
	if n <= 0 {
		return nil, errors.New("malformed asset length")
	}
	if size > maxAssetSize {
		return nil, fmt.Errorf("asset claims %d bytes, limit is %d", size, maxAssetSize)
	}
	return decompress(encoded[1+n:], compression, int(size))
}
