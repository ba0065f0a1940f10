// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive reads and writes the zip container a content package
// is exchanged in, and defines the JSON documents stored inside it.
//
// Layout:
//
//	sonolus/package               {"shouldUpdate": false}
//	sonolus/info                  title, description, banner locator
//	sonolus/<kind>/list           {"pageCount": 1, "items": [summary...]}
//	sonolus/<kind>/<name>         {"item": summary, "description": ...}
//	sonolus/repository/<sha1>     raw blob bytes
//
// The package, info, list and details documents are plain JSON entries.
// Data documents (sprite tables, clip tables, particle trees) are
// gzip-compressed JSON stored as repository blobs and reached through
// the locators in an item summary. Readers reject archives whose
// package marker asks for migration.
package archive
