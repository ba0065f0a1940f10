// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// AssetHash is the BLAKE3 keyed hash of an asset's uncompressed bytes.
type AssetHash [32]byte

// assetDomainKey separates workspace asset hashes from any other
// BLAKE3 use. Changing it invalidates every stored asset.
var assetDomainKey = [32]byte{
	'c', 'o', 'n', 't', 'e', 'n', 't', 'p', 'a', 'c', 'k', '.',
	'w', 'o', 'r', 'k', 's', 'p', 'a', 'c', 'e', '.',
	'a', 's', 's', 'e', 't', 0, 0, 0, 0, 0,
}

// HashAsset returns the asset-domain hash of data.
func HashAsset(data []byte) AssetHash {
	hasher, err := blake3.NewKeyed(assetDomainKey[:])
	if err != nil {
		panic("workspace: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var hash AssetHash
	copy(hash[:], hasher.Sum(nil))
	return hash
}

// String returns the hash in lowercase hex.
func (h AssetHash) String() string {
	return hex.EncodeToString(h[:])
}

// ParseAssetHash parses a 64-character hex string.
func ParseAssetHash(s string) (AssetHash, error) {
	var hash AssetHash
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return hash, fmt.Errorf("parsing asset hash: %w", err)
	}
	if len(decoded) != len(hash) {
		return hash, fmt.Errorf("asset hash is %d bytes, want %d", len(decoded), len(hash))
	}
	copy(hash[:], decoded)
	return hash, nil
}
