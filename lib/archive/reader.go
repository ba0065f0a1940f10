// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/klauspost/compress/zip"

	"github.com/bureau-foundation/contentpack/lib/blobstore"
)

// ErrCorruptArchive is returned when the container is unreadable, a
// required entry is missing, a blob does not match its locator, or the
// package marker requests migration.
var ErrCorruptArchive = errors.New("corrupt archive")

// maxEntrySize caps a single decompressed entry.
const maxEntrySize = 512 << 20

// Entry describes one container entry.
type Entry struct {
	Name           string `json:"name"`
	Size           uint64 `json:"size"`
	CompressedSize uint64 `json:"compressedSize"`
	Stored         bool   `json:"stored"`
}

// Reader gives random access to a container held in memory.
type Reader struct {
	files map[string]*zip.File
	names []string
}

// NewReader opens a container.
func NewReader(data []byte) (*Reader, error) {
	container, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	reader := &Reader{files: make(map[string]*zip.File, len(container.File))}
	for _, file := range container.File {
		if _, duplicate := reader.files[file.Name]; duplicate {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrCorruptArchive, file.Name)
		}
		reader.files[file.Name] = file
		reader.names = append(reader.names, file.Name)
	}
	return reader, nil
}

// Has reports whether name exists.
func (r *Reader) Has(name string) bool {
	_, ok := r.files[name]
	return ok
}

// Entries lists entries in container order.
func (r *Reader) Entries() []Entry {
	entries := make([]Entry, 0, len(r.names))
	for _, name := range r.names {
		file := r.files[name]
		entries = append(entries, Entry{
			Name:           name,
			Size:           file.UncompressedSize64,
			CompressedSize: file.CompressedSize64,
			Stored:         file.Method == zip.Store,
		})
	}
	return entries
}

// Names returns entry names in sorted order.
func (r *Reader) Names() []string {
	return slices.Sorted(slices.Values(r.names))
}

// ReadFile returns the bytes of a required entry.
func (r *Reader) ReadFile(name string) ([]byte, error) {
	file, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing entry %q", ErrCorruptArchive, name)
	}
	return readEntry(file)
}

func readEntry(file *zip.File) ([]byte, error) {
	if file.UncompressedSize64 > maxEntrySize {
		return nil, fmt.Errorf("%w: entry %q is %d bytes", ErrCorruptArchive, file.Name, file.UncompressedSize64)
	}
	stream, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %v", ErrCorruptArchive, file.Name, err)
	}
	defer stream.Close()
	data, err := io.ReadAll(io.LimitReader(stream, maxEntrySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", ErrCorruptArchive, file.Name, err)
	}
	return data, nil
}

// ReadJSON decodes a required plain JSON entry.
func (r *Reader) ReadJSON(name string, value any) error {
	data, err := r.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("%w: decoding %q: %v", ErrCorruptArchive, name, err)
	}
	return nil
}

// CheckPackage reads the package marker and rejects archives that are
// missing it or ask for migration.
func (r *Reader) CheckPackage() error {
	var marker Package
	if err := r.ReadJSON(PackagePath, &marker); err != nil {
		return err
	}
	if marker.ShouldUpdate {
		return fmt.Errorf("%w: package requires migration to a newer format", ErrCorruptArchive)
	}
	return nil
}

// Blob returns the bytes a locator refers to after checking them
// against the locator's hash. A missing entry is blobstore.ErrNotFound.
func (r *Reader) Blob(locator blobstore.Locator) ([]byte, error) {
	hash, err := locator.Digest()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	name := RepositoryPath(hash)
	if locator.Path() != name {
		return nil, fmt.Errorf("%w: %s locator url %q does not match hash %s", ErrCorruptArchive, locator.Type, locator.URL, hash)
	}
	file, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("%s blob %s: %w", locator.Type, hash, blobstore.ErrNotFound)
	}
	data, err := readEntry(file)
	if err != nil {
		return nil, err
	}
	if actual := blobstore.Sum(data); actual != hash {
		return nil, fmt.Errorf("%w: %s blob %s has digest %s", ErrCorruptArchive, locator.Type, hash, actual)
	}
	return data, nil
}

// BlobJSON fetches a gzip-compressed data document through its locator
// and decodes it.
func (r *Reader) BlobJSON(locator blobstore.Locator, value any) error {
	data, err := r.Blob(locator)
	if err != nil {
		return err
	}
	if err := blobstore.DecodeJSON(data, value); err != nil {
		return fmt.Errorf("%w: %s document: %v", ErrCorruptArchive, locator.Type, err)
	}
	return nil
}
