// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package source reads and writes projects as a directory of plain
// files: a project.jsonc manifest plus the asset files it names.
//
// The manifest has the same shape as the project's JSON encoding,
// with every handle field holding a slash-separated path relative to
// the manifest directory instead of a handle. The manifest may use //
// line comments, /* block comments */ and trailing commas.
//
//	{
//	  "title": "Neon",
//	  "banner": "art/banner.png",
//	  "backgrounds": {
//	    "city": {
//	      "title": "City",                 // name defaults to the key
//	      "thumbnail": "art/city-thumb.png",
//	      "image": "art/city.png",
//	      "data": {"aspectRatio": 1.7778, "fit": "cover", "color": "#000000"},
//	      "configuration": {"blur": 0, "mask": "#000000c0"},
//	    },
//	  },
//	}
//
// [Load] reads every referenced file into a handle registry; [Export]
// writes each distinct asset once under assets/, named by its SHA-1
// and a sniffed extension, and writes a manifest referring to them.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/contentpack/lib/blobstore"
	"github.com/bureau-foundation/contentpack/lib/handle"
	"github.com/bureau-foundation/contentpack/lib/project"
)

// ManifestName is the manifest file name inside a source directory.
const ManifestName = "project.jsonc"

// AssetDir is the directory Export writes assets into.
const AssetDir = "assets"

// ErrInvalidPath is returned for asset paths that are absolute or
// leave the source directory.
var ErrInvalidPath = errors.New("invalid asset path")

// Parse decodes manifest bytes. Asset fields are left as paths.
// Unknown fields are rejected so typos surface instead of silently
// dropping settings.
func Parse(data []byte) (*project.Project, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.DisallowUnknownFields()
	p := project.New("")
	if err := decoder.Decode(p); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	fillDefaults(p)
	return p, nil
}

// fillDefaults allocates nil item maps and names items after their
// keys when the manifest omits the name.
func fillDefaults(p *project.Project) {
	if p.Skins == nil {
		p.Skins = make(map[string]project.Skin)
	}
	if p.Backgrounds == nil {
		p.Backgrounds = make(map[string]project.Background)
	}
	if p.Effects == nil {
		p.Effects = make(map[string]project.Effect)
	}
	if p.Particles == nil {
		p.Particles = make(map[string]project.Particle)
	}
	for key, item := range p.Skins {
		if item.Name == "" {
			item.Name = key
			p.Skins[key] = item
		}
	}
	for key, item := range p.Backgrounds {
		if item.Name == "" {
			item.Name = key
			p.Backgrounds[key] = item
		}
	}
	for key, item := range p.Effects {
		if item.Name == "" {
			item.Name = key
			p.Effects[key] = item
		}
	}
	for key, item := range p.Particles {
		if item.Name == "" {
			item.Name = key
			p.Particles[key] = item
		}
	}
}

// Load reads dir/project.jsonc and every asset it references, issuing
// one handle per distinct path into registry. On error every handle
// Load issued is released.
func Load(dir string, registry *handle.Registry) (*project.Project, error) {
	manifestPath := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifestPath, err)
	}
	manifest, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestPath, err)
	}

	issued := make(map[string]handle.Handle)
	loaded, err := manifest.MapHandles(func(reference handle.Handle) (handle.Handle, error) {
		name := path.Clean(string(reference))
		if h, ok := issued[name]; ok {
			return h, nil
		}
		local, err := localPath(name)
		if err != nil {
			return "", err
		}
		content, err := os.ReadFile(filepath.Join(dir, local))
		if err != nil {
			return "", fmt.Errorf("reading asset: %w", err)
		}
		h := registry.Issue(content)
		issued[name] = h
		return h, nil
	})
	if err != nil {
		for _, h := range issued {
			registry.Release(h)
		}
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}
	return loaded, nil
}

// localPath converts a slash-separated manifest path into an OS path
// that stays inside the source directory.
func localPath(name string) (string, error) {
	local, err := filepath.Localize(name)
	if err != nil || !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return local, nil
}

// Export writes p to dir as a manifest plus asset files. Existing
// files with the same names are overwritten.
func Export(dir string, p *project.Project, registry *handle.Registry) error {
	if err := os.MkdirAll(filepath.Join(dir, AssetDir), 0o755); err != nil {
		return fmt.Errorf("creating asset directory: %w", err)
	}

	written := make(map[blobstore.Hash]string)
	manifest, err := p.MapHandles(func(h handle.Handle) (handle.Handle, error) {
		content, err := registry.Bytes(h)
		if err != nil {
			return "", err
		}
		hash := blobstore.Sum(content)
		if name, ok := written[hash]; ok {
			return handle.Handle(name), nil
		}
		name := path.Join(AssetDir, hash.String()+Extension(content))
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), content, 0o644); err != nil {
			return "", fmt.Errorf("writing asset: %w", err)
		}
		written[hash] = name
		return handle.Handle(name), nil
	})
	if err != nil {
		return fmt.Errorf("exporting to %s: %w", dir, err)
	}

	var buffer bytes.Buffer
	buffer.WriteString("// Exported by contentpack. Asset paths are relative to this file.\n")
	encoder := json.NewEncoder(&buffer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(manifest); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// signatures maps magic prefixes to file extensions.
var signatures = []struct {
	prefix    string
	extension string
}{
	{"\x89PNG\r\n\x1a\n", ".png"},
	{"\xff\xd8\xff", ".jpg"},
	{"GIF8", ".gif"},
	{"BM", ".bmp"},
	{"OggS", ".ogg"},
	{"fLaC", ".flac"},
	{"ID3", ".mp3"},
	{"PK\x03\x04", ".zip"},
}

// Extension returns a file extension for data based on its leading
// bytes, or ".bin" when the format is not recognized.
func Extension(data []byte) string {
	if len(data) >= 12 && string(data[:4]) == "RIFF" {
		switch string(data[8:12]) {
		case "WAVE":
			return ".wav"
		case "WEBP":
			return ".webp"
		}
	}
	for _, signature := range signatures {
		if bytes.HasPrefix(data, []byte(signature.prefix)) {
			return signature.extension
		}
	}
	return ".bin"
}
