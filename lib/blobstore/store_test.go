// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package blobstore

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestPutIsIdempotent(t *testing.T) {
	store := NewStore(Options{})

	first := store.Put([]byte("texture bytes"))
	second := store.Put([]byte("texture bytes"))
	if first != second {
		t.Fatalf("same bytes hashed to %s and %s", first, second)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d after duplicate Put, want 1", store.Len())
	}

	other := store.Put([]byte("other bytes"))
	if other == first {
		t.Fatal("different bytes produced the same hash")
	}
	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}
}

func TestPutCopiesInput(t *testing.T) {
	store := NewStore(Options{})
	data := []byte("mutable")
	hash := store.Put(data)
	data[0] = 'X'

	stored, err := store.Get(hash)
	if err != nil {
		t.Fatal(err)
	}
	if string(stored) != "mutable" {
		t.Errorf("stored bytes changed to %q after caller mutation", stored)
	}
}

func TestGetNotFound(t *testing.T) {
	store := NewStore(Options{})
	_, err := store.Get(Sum([]byte("never stored")))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get of missing hash: got %v, want ErrNotFound", err)
	}
}

func TestKnownDigest(t *testing.T) {
	// SHA-1 of the empty string.
	if got := Sum(nil).String(); got != "da39a3ee5e6b4b0d3255bfef95601890afd80709" {
		t.Errorf("Sum(nil) = %s", got)
	}
}

func TestParseHash(t *testing.T) {
	hash := Sum([]byte("abc"))
	parsed, err := ParseHash(hash.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != hash {
		t.Errorf("ParseHash(String()) = %s, want %s", parsed, hash)
	}

	for _, bad := range []string{"", "zz", strings.Repeat("a", 38), strings.Repeat("a", 42)} {
		if _, err := ParseHash(bad); err == nil {
			t.Errorf("ParseHash(%q) succeeded", bad)
		}
	}
}

func TestPutJSONDeterministic(t *testing.T) {
	document := map[string]any{"width": 128, "height": 128, "sprites": []int{1, 2, 3}}

	first := NewStore(Options{})
	second := NewStore(Options{})
	firstHash, err := first.PutJSON(document)
	if err != nil {
		t.Fatal(err)
	}
	secondHash, err := second.PutJSON(document)
	if err != nil {
		t.Fatal(err)
	}
	if firstHash != secondHash {
		t.Fatalf("identical documents in separate stores hashed to %s and %s", firstHash, secondHash)
	}

	stored, err := first.Get(firstHash)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(stored, []byte{0x1f, 0x8b}) {
		t.Errorf("PutJSON payload lacks gzip magic: % x", stored[:2])
	}

	var decoded struct {
		Width   int   `json:"width"`
		Height  int   `json:"height"`
		Sprites []int `json:"sprites"`
	}
	if err := first.GetJSON(firstHash, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Width != 128 || decoded.Height != 128 || len(decoded.Sprites) != 3 {
		t.Errorf("GetJSON decoded %+v", decoded)
	}
}

func TestBlobsInsertionOrder(t *testing.T) {
	store := NewStore(Options{})
	payloads := []string{"c", "a", "b", "a", "d"}
	var want []Hash
	seen := make(map[Hash]bool)
	for _, payload := range payloads {
		hash := store.Put([]byte(payload))
		if !seen[hash] {
			seen[hash] = true
			want = append(want, hash)
		}
	}

	var got []Hash
	for hash, data := range store.Blobs() {
		if Sum(data) != hash {
			t.Errorf("blob %s holds bytes hashing to %s", hash, Sum(data))
		}
		got = append(got, hash)
	}
	if len(got) != len(want) {
		t.Fatalf("Blobs yielded %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Blobs[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if store.Size() != 4 {
		t.Errorf("Size = %d, want 4", store.Size())
	}
}

func TestConcurrentPut(t *testing.T) {
	store := NewStore(Options{})
	var group sync.WaitGroup
	for worker := range 8 {
		group.Add(1)
		go func() {
			defer group.Done()
			for i := range 100 {
				store.Put([]byte{byte(i % 10)})
				if worker%2 == 0 {
					store.Has(Sum([]byte{byte(i % 10)}))
				}
			}
		}()
	}
	group.Wait()
	if store.Len() != 10 {
		t.Errorf("Len = %d after concurrent puts of 10 distinct payloads, want 10", store.Len())
	}
}

func TestLocator(t *testing.T) {
	hash := Sum([]byte("thumbnail"))
	locator := NewLocator("SkinThumbnail", hash)
	if locator.URL != "/sonolus/repository/"+hash.String() {
		t.Errorf("URL = %q", locator.URL)
	}
	if locator.Path() != "sonolus/repository/"+hash.String() {
		t.Errorf("Path = %q", locator.Path())
	}
	digest, err := locator.Digest()
	if err != nil || digest != hash {
		t.Errorf("Digest = %s, %v; want %s", digest, err, hash)
	}
	if locator.IsZero() || !(Locator{}).IsZero() {
		t.Error("IsZero misreports")
	}
}

func TestDecompressRejectsGarbage(t *testing.T) {
	if _, err := Decompress([]byte("not gzip")); err == nil {
		t.Error("Decompress of non-gzip data succeeded")
	}
}
