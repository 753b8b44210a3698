// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot stores point-in-time copies of a workgraph.
//
// A snapshot file is a fixed header followed by a possibly compressed
// CBOR document holding every node in graph order:
//
//	offset  size  field
//	0       4     magic "WGSN"
//	4       1     format version (1)
//	5       1     compression tag (0 none, 1 lz4, 2 zstd)
//	6       4     uncompressed payload length, big-endian
//	10      ...   payload
//
// The file is named by the BLAKE3 digest of the uncompressed payload
// (see [digest.Snapshot]), so a snapshot's name verifies its content
// and two snapshots with identical content share a file. Snapshots live
// in <workgraph dir>/snapshots/ and are addressed on the command line
// by any unique digest prefix.
//
// Restoring a snapshot replaces the graph file atomically. Snapshots
// are never modified after they are written.
package snapshot
