// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// Writer builds a zip container with deterministic entry headers: no
// timestamps, entries in write order, each name at most once.
type Writer struct {
	zip     *zip.Writer
	written map[string]struct{}
}

// NewWriter starts a container on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		zip:     zip.NewWriter(w),
		written: make(map[string]struct{}),
	}
}

// Has reports whether name was already written.
func (w *Writer) Has(name string) bool {
	_, ok := w.written[name]
	return ok
}

// Store writes an entry without compression. Use it for payloads that
// are already compressed (gzip documents, images, audio).
func (w *Writer) Store(name string, data []byte) error {
	return w.write(name, data, zip.Store)
}

// Deflate writes a compressed entry.
func (w *Writer) Deflate(name string, data []byte) error {
	return w.write(name, data, zip.Deflate)
}

// WriteJSON marshals value and writes it as a compressed entry.
func (w *Writer) WriteJSON(name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	return w.Deflate(name, data)
}

func (w *Writer) write(name string, data []byte, method uint16) error {
	if _, exists := w.written[name]; exists {
		return fmt.Errorf("archive entry %q written twice", name)
	}
	entry, err := w.zip.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return fmt.Errorf("creating archive entry %s: %w", name, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("writing archive entry %s: %w", name, err)
	}
	w.written[name] = struct{}{}
	return nil
}

// Close finishes the container.
func (w *Writer) Close() error {
	if err := w.zip.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}
