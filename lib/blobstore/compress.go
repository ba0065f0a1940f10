// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blobstore

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// DefaultGzipLevel is the compression level for JSON documents.
const DefaultGzipLevel = gzip.DefaultCompression

// maxDecompressedSize caps gunzip output so a hostile archive cannot
// exhaust memory with a compression bomb.
const maxDecompressedSize = 256 << 20

// Compress gzips data at the given level. The gzip header carries no
// file name and a zero modification time, so identical input produces
// identical output and therefore an identical hash.
func Compress(data []byte, level int) ([]byte, error) {
	var buffer bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buffer, level)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	return buffer.Bytes(), nil
}

// Decompress gunzips data.
func Decompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	defer reader.Close()

	output, err := io.ReadAll(io.LimitReader(reader, maxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	if len(output) > maxDecompressedSize {
		return nil, fmt.Errorf("gzip decompress: output exceeds %d bytes", maxDecompressedSize)
	}
	return output, nil
}
