// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bureau-foundation/contentpack/lib/clock"
	"github.com/bureau-foundation/contentpack/lib/codec"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/project"
)

var (
	// ErrSnapshotNotFound is returned when no snapshot has the
	// requested name.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrInvalidName is returned for snapshot names that cannot be
	// used as a file name.
	ErrInvalidName = errors.New("invalid snapshot name")

	// ErrCorruptWorkspace is returned when a snapshot or asset file
	// fails to decode or an asset's bytes do not match its hash.
	ErrCorruptWorkspace = errors.New("corrupt workspace")
)

const (
	snapshotDir = "snapshots"
	assetDir    = "assets"
	tmpDir      = "tmp"

	snapshotExtension = ".cbor"

	// assetReferencePrefix starts the handle-shaped asset references
	// stored inside snapshots.
	assetReferencePrefix = "asset:"

	// snapshotFormat is the current snapshot document version.
	snapshotFormat = 1

	maxNameLength = 128
)

// snapshot is the on-disk document.
type snapshot struct {
	Format int    `cbor:"format"`
	Name   string `cbor:"name"`

	// SavedAt is Unix time in nanoseconds.
	SavedAt int64            `cbor:"saved_at"`
	Assets  []string         `cbor:"assets"`
	Project *project.Project `cbor:"project"`
}

// Info summarizes a stored snapshot.
type Info struct {
	Name   string    `json:"name"`
	Title  string    `json:"title"`
	Saved  time.Time `json:"saved"`
	Items  int       `json:"items"`
	Assets int       `json:"assets"`

	// Size is the snapshot document size in bytes, excluding assets.
	Size int64 `json:"size"`
}

// Options configures a Workspace.
type Options struct {
	// Clock stamps saved snapshots. Nil selects clock.Real().
	Clock clock.Clock

	// Logger receives save, load and sweep records. Nil discards.
	Logger *slog.Logger
}

// Workspace is a directory of snapshots and assets.
type Workspace struct {
	root   string
	clock  clock.Clock
	logger *slog.Logger

	// mu serializes writers so a sweep never races a save that is
	// adding references.
	mu sync.Mutex
}

// Open opens the workspace at root, creating its directories as
// needed.
func Open(root string, options Options) (*Workspace, error) {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	for _, dir := range []string{snapshotDir, assetDir, tmpDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating workspace directory: %w", err)
		}
	}
	return &Workspace{root: root, clock: options.Clock, logger: options.Logger}, nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string { return w.root }

// ValidateName reports whether name can name a snapshot.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) > maxNameLength:
		return fmt.Errorf("%w: %q is longer than %d bytes", ErrInvalidName, name, maxNameLength)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// Save stores p under name, replacing any snapshot with that name.
// Asset bytes are read from registry; every handle in p must be live.
func (w *Workspace) Save(name string, p *project.Project, registry *handle.Registry) (Info, error) {
	if err := ValidateName(name); err != nil {
		return Info{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	referenced := make(map[AssetHash]struct{})
	written := 0
	stored, err := p.MapHandles(func(h handle.Handle) (handle.Handle, error) {
		data, err := registry.Bytes(h)
		if err != nil {
			return "", err
		}
		hash := HashAsset(data)
		if _, seen := referenced[hash]; !seen {
			created, err := w.writeAsset(hash, data)
			if err != nil {
				return "", err
			}
			if created {
				written++
			}
			referenced[hash] = struct{}{}
		}
		return handle.Handle(assetReferencePrefix + hash.String()), nil
	})
	if err != nil {
		return Info{}, fmt.Errorf("saving snapshot %q: %w", name, err)
	}

	assets := make([]string, 0, len(referenced))
	for hash := range referenced {
		assets = append(assets, hash.String())
	}
	slices.Sort(assets)

	document := snapshot{
		Format:  snapshotFormat,
		Name:    name,
		SavedAt: w.clock.Now().UnixNano(),
		Assets:  assets,
		Project: stored,
	}
	data, err := codec.Marshal(&document)
	if err != nil {
		return Info{}, fmt.Errorf("encoding snapshot %q: %w", name, err)
	}
	if err := w.writeFile(w.snapshotPath(name), data); err != nil {
		return Info{}, fmt.Errorf("saving snapshot %q: %w", name, err)
	}

	info := document.info(int64(len(data)))
	w.logger.Info("saved snapshot",
		"name", name,
		"items", info.Items,
		"assets", info.Assets,
		"new_assets", written,
		"bytes", len(data),
	)
	return info, nil
}

// Load reads the named snapshot and issues a handle into registry for
// each distinct asset. On error every handle Load issued is released.
func (w *Workspace) Load(name string, registry *handle.Registry) (*project.Project, error) {
	document, _, err := w.readSnapshot(name)
	if err != nil {
		return nil, err
	}
	if document.Project == nil {
		return nil, fmt.Errorf("%w: snapshot %q has no project", ErrCorruptWorkspace, name)
	}

	issued := make(map[AssetHash]handle.Handle)
	loaded, err := document.Project.MapHandles(func(reference handle.Handle) (handle.Handle, error) {
		hex, ok := strings.CutPrefix(string(reference), assetReferencePrefix)
		if !ok {
			return "", fmt.Errorf("%w: reference %q is not an asset", ErrCorruptWorkspace, reference)
		}
		hash, err := ParseAssetHash(hex)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorruptWorkspace, err)
		}
		if h, ok := issued[hash]; ok {
			return h, nil
		}
		data, err := w.readAsset(hash)
		if err != nil {
			return "", err
		}
		h := registry.Issue(data)
		issued[hash] = h
		return h, nil
	})
	if err != nil {
		for _, h := range issued {
			registry.Release(h)
		}
		return nil, fmt.Errorf("loading snapshot %q: %w", name, err)
	}
	w.logger.Info("loaded snapshot", "name", name, "handles", len(issued))
	return loaded, nil
}

// List returns every snapshot sorted by name.
func (w *Workspace) List() ([]Info, error) {
	entries, err := os.ReadDir(filepath.Join(w.root, snapshotDir))
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	var infos []Info
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), snapshotExtension)
		if !ok || entry.IsDir() || ValidateName(name) != nil {
			continue
		}
		document, size, err := w.readSnapshot(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, document.info(size))
	}
	slices.SortFunc(infos, func(a, b Info) int { return strings.Compare(a.Name, b.Name) })
	return infos, nil
}

// Delete removes the named snapshot and sweeps assets no other
// snapshot references.
func (w *Workspace) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.Remove(w.snapshotPath(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("deleting %q: %w", name, ErrSnapshotNotFound)
		}
		return fmt.Errorf("deleting snapshot %q: %w", name, err)
	}
	removed, err := w.sweep()
	if err != nil {
		return fmt.Errorf("deleting snapshot %q: %w", name, err)
	}
	w.logger.Info("deleted snapshot", "name", name, "swept_assets", removed)
	return nil
}

// Collect removes asset files no snapshot references and returns how
// many it removed.
func (w *Workspace) Collect() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sweep()
}

// sweep is a mark-and-sweep over asset files. The caller holds mu.
func (w *Workspace) sweep() (int, error) {
	infos, err := os.ReadDir(filepath.Join(w.root, snapshotDir))
	if err != nil {
		return 0, fmt.Errorf("listing snapshots: %w", err)
	}
	live := make(map[string]struct{})
	for _, entry := range infos {
		name, ok := strings.CutSuffix(entry.Name(), snapshotExtension)
		if !ok || ValidateName(name) != nil {
			continue
		}
		document, _, err := w.readSnapshot(name)
		if err != nil {
			return 0, err
		}
		for _, asset := range document.Assets {
			live[asset] = struct{}{}
		}
	}

	removed := 0
	err = filepath.WalkDir(filepath.Join(w.root, assetDir), func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		if _, ok := live[entry.Name()]; ok {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing asset %s: %w", entry.Name(), err)
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("sweeping assets: %w", err)
	}
	return removed, nil
}

func (s *snapshot) info(size int64) Info {
	info := Info{
		Name:   s.Name,
		Saved:  time.Unix(0, s.SavedAt),
		Assets: len(s.Assets),
		Size:   size,
	}
	if s.Project != nil {
		info.Title = s.Project.Title
		for _, kind := range project.Kinds() {
			info.Items += s.Project.Count(kind)
		}
	}
	return info
}

func (w *Workspace) snapshotPath(name string) string {
	return filepath.Join(w.root, snapshotDir, name+snapshotExtension)
}

func (w *Workspace) assetPath(hash AssetHash) string {
	hex := hash.String()
	return filepath.Join(w.root, assetDir, hex[:2], hex)
}

func (w *Workspace) readSnapshot(name string) (*snapshot, int64, error) {
	if err := ValidateName(name); err != nil {
		return nil, 0, err
	}
	data, err := os.ReadFile(w.snapshotPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("reading %q: %w", name, ErrSnapshotNotFound)
		}
		return nil, 0, fmt.Errorf("reading snapshot %q: %w", name, err)
	}
	var document snapshot
	if err := codec.Unmarshal(data, &document); err != nil {
		return nil, 0, fmt.Errorf("%w: decoding snapshot %q: %v", ErrCorruptWorkspace, name, err)
	}
	if document.Format != snapshotFormat {
		return nil, 0, fmt.Errorf("%w: snapshot %q has format %d, want %d",
			ErrCorruptWorkspace, name, document.Format, snapshotFormat)
	}
	return &document, int64(len(data)), nil
}

// writeAsset stores data under hash unless an asset file already
// exists. It reports whether a file was created.
func (w *Workspace) writeAsset(hash AssetHash, data []byte) (bool, error) {
	path := w.assetPath(hash)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	encoded, compression, err := encodeAsset(data)
	if err != nil {
		return false, fmt.Errorf("encoding asset %s: %w", hash, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating asset shard directory: %w", err)
	}
	if err := w.writeFile(path, encoded); err != nil {
		return false, err
	}
	w.logger.Debug("stored asset",
		"hash", hash.String(),
		"compression", compression.String(),
		"size", len(data),
		"stored", len(encoded),
	)
	return true, nil
}

func (w *Workspace) readAsset(hash AssetHash) ([]byte, error) {
	encoded, err := os.ReadFile(w.assetPath(hash))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: asset %s is missing", ErrCorruptWorkspace, hash)
		}
		return nil, fmt.Errorf("reading asset %s: %w", hash, err)
	}
	data, err := decodeAsset(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: asset %s: %v", ErrCorruptWorkspace, hash, err)
	}
	if HashAsset(data) != hash {
		return nil, fmt.Errorf("%w: asset %s does not match its hash", ErrCorruptWorkspace, hash)
	}
	return data, nil
}

// writeFile writes data to a temporary file and renames it to path.
func (w *Workspace) writeFile(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Join(w.root, tmpDir), "write-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	success = true
	return nil
}
