// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides workgraph's CBOR encoding configuration.
//
// The graph file is JSON Lines so that people and agents can read and
// diff it. Snapshots are CBOR: they are written by machines, compared
// by digest, and must encode identically every time. This package
// holds the one shared configuration so every snapshot is produced the
// same way.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Types implementing encoding.TextMarshaler (workgraph.Status,
// workgraph.TrustLevel) are written as text strings, so enum values
// keep their wire names.
//
// Node types carry only json tags. fxamacker/cbor reads json tags when
// cbor tags are absent, so one tag set names fields in both formats.
// Snapshot envelope types that never appear in JSON use cbor tags.
package codec
