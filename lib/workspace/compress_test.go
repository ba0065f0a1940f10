// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"bytes"
	"image/color"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/bureau-foundation/contentpack/lib/testutil"
)

func TestEncodeAssetSelection(t *testing.T) {
	random := rand.New(rand.NewPCG(1, 2))
	noise := make([]byte, 4096)
	for i := range noise {
		noise[i] = byte(random.UintN(256))
	}

	tests := []struct {
		name string
		data []byte
		want Compression
	}{
		{"empty", nil, CompressionNone},
		{"repetitive text", []byte(strings.Repeat("perfect great good miss ", 200)), CompressionZstd},
		{"random bytes", noise, CompressionNone},
		{"png", testutil.SolidPNG(t, 64, 64, color.NRGBA{R: 10, A: 255}), CompressionNone},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			encoded, compression, err := encodeAsset(test.data)
			if err != nil {
				t.Fatalf("encodeAsset: %v", err)
			}
			if compression != test.want {
				t.Errorf("compression = %s, want %s", compression, test.want)
			}
			decoded, err := decodeAsset(encoded)
			if err != nil {
				t.Fatalf("decodeAsset: %v", err)
			}
			if !bytes.Equal(decoded, test.data) {
				t.Error("decoded bytes differ from the input")
			}
		})
	}
}

func TestCompressLZ4RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("RIFF....WAVEfmt "), 64)
	compressed, err := compress(data, CompressionLZ4)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	decompressed, err := decompress(compressed, CompressionLZ4, len(data))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Error("LZ4 round trip changed the data")
	}
}

func TestDecodeAssetRejectsMalformed(t *testing.T) {
	valid, _, err := encodeAsset([]byte(strings.Repeat("abc", 100)))
	if err != nil {
		t.Fatal(err)
	}
	tests := map[string][]byte{
		"empty":             nil,
		"truncated length":  {byte(CompressionZstd), 0x80},
		"unknown tag":       append([]byte{9}, valid[1:]...),
		"truncated payload": valid[:len(valid)-4],
		"raw size mismatch": {byte(CompressionNone), 5, 'a', 'b'},
		"oversized claim":   {byte(CompressionNone), 0xff, 0xff, 0xff, 0xff, 0x0f},
	}
	for name, encoded := range tests {
		if _, err := decodeAsset(encoded); err == nil {
			t.Errorf("%s: decodeAsset succeeded", name)
		}
	}
}

func TestHashAsset(t *testing.T) {
	a := HashAsset([]byte("sprite"))
	if a != HashAsset([]byte("sprite")) {
		t.Error("HashAsset is not deterministic")
	}
	if a == HashAsset([]byte("sprite2")) {
		t.Error("different inputs hashed equal")
	}
	parsed, err := ParseAssetHash(a.String())
	if err != nil || parsed != a {
		t.Errorf("ParseAssetHash(String()) = %v, %v", parsed, err)
	}
	if _, err := ParseAssetHash("abcd"); err == nil {
		t.Error("ParseAssetHash accepted a short hash")
	}
}
