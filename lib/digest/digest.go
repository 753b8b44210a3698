// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes the BLAKE3 content hashes workgraph uses to
// name things derived from content: graph snapshots and the default id
// prefix of an instantiated trace function.
//
// Each use has its own domain key, so identical bytes hashed for
// different purposes never produce the same digest.
package digest

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest.
type Hash [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing.
type domainKey [32]byte

// Domain separation keys: the ASCII domain name, zero-padded to 32
// bytes. Changing a key invalidates every digest in that domain.
var (
	snapshotDomainKey = domainKey{
		'w', 'o', 'r', 'k', 'g', 'r', 'a', 'p', 'h', '.', 's', 'n', 'a', 'p', 's', 'h',
		'o', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	instanceDomainKey = domainKey{
		'w', 'o', 'r', 'k', 'g', 'r', 'a', 'p', 'h', '.', 'i', 'n', 's', 't', 'a', 'n',
		'c', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// Snapshot hashes the uncompressed payload of a graph snapshot.
func Snapshot(data []byte) Hash {
	return keyedHash(snapshotDomainKey, data)
}

// Instance hashes the identity of a trace function instantiation. Each
// part is length-prefixed so ("ab", "c") and ("a", "bc") differ.
func Instance(parts ...string) Hash {
	hasher := newKeyed(instanceDomainKey)
	for _, part := range parts {
		fmt.Fprintf(hasher, "%d:", len(part))
		hasher.Write([]byte(part))
	}
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}

// String returns the hex encoding of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first n hex characters.
func (h Hash) Short(n int) string {
	full := h.String()
	if n <= 0 || n >= len(full) {
		return full
	}
	return full[:n]
}

// Parse parses a 64-character hex string into a Hash.
func Parse(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(strings.TrimSpace(hexString))
	if err != nil {
		return hash, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != len(hash) {
		return hash, fmt.Errorf("digest is %d bytes, want %d", len(decoded), len(hash))
	}
	copy(hash[:], decoded)
	return hash, nil
}

func keyedHash(key domainKey, data []byte) Hash {
	hasher := newKeyed(key)
	hasher.Write(data)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}

func newKeyed(key domainKey) *blake3.Hasher {
	// NewKeyed only fails for a key of the wrong length, which the
	// fixed-size domainKey rules out.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}
