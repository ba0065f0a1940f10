// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"github.com/bureau-foundation/contentpack/lib/blobstore"
)

// Root is the directory every entry lives under.
const Root = "sonolus"

// Fixed entry paths.
const (
	PackagePath = Root + "/package"
	InfoPath    = Root + "/info"
)

// ListPath returns the path of a kind's item list.
func ListPath(kind string) string {
	return Root + "/" + kind + "/list"
}

// ItemPath returns the path of an item's details document.
func ItemPath(kind, name string) string {
	return Root + "/" + kind + "/" + name
}

// RepositoryDir is the directory prefix of every blob entry.
const RepositoryDir = Root + "/repository/"

// RepositoryPath returns the path a blob is stored under.
func RepositoryPath(hash blobstore.Hash) string {
	return RepositoryDir + hash.String()
}
