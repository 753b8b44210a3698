// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/bureau-foundation/workgraph/lib/codec"
	"github.com/bureau-foundation/workgraph/lib/digest"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

const (
	formatVersion = 1
	headerSize    = 10
)

var magic = [4]byte{'W', 'G', 'S', 'N'}

// ErrNotSnapshot is returned when data does not start with a snapshot
// header.
var ErrNotSnapshot = errors.New("not a workgraph snapshot")

// ErrCorrupt is returned when a snapshot's header disagrees with its
// body.
var ErrCorrupt = errors.New("corrupt snapshot")

// ErrDigestMismatch is returned when a snapshot's content does not
// hash to the id it is stored under.
var ErrDigestMismatch = errors.New("snapshot content does not match its digest")

// Info describes one snapshot.
type Info struct {
	// ID is the hex BLAKE3 digest of the uncompressed payload.
	ID          string      `json:"id"`
	Label       string      `json:"label,omitempty"`
	CreatedAt   string      `json:"created_at"`
	Nodes       int         `json:"nodes"`
	Compression Compression `json:"-"`
	// Size is the encoded file size; PayloadSize the uncompressed
	// CBOR document size.
	Size        int `json:"size"`
	PayloadSize int `json:"payload_size"`
}

type document struct {
	Label     string   `cbor:"label,omitempty"`
	CreatedAt string   `cbor:"created_at"`
	Records   []record `cbor:"records"`
}

// record carries exactly one of the node fields, selected by Kind.
type record struct {
	Kind     workgraph.Kind      `cbor:"kind"`
	Task     *workgraph.Task     `cbor:"task,omitempty"`
	Actor    *workgraph.Actor    `cbor:"actor,omitempty"`
	Resource *workgraph.Resource `cbor:"resource,omitempty"`
}

// Encode serializes graph into snapshot file bytes.
func Encode(graph *workgraph.Graph, label, createdAt string, compression Compression) ([]byte, Info, error) {
	nodes := graph.Nodes()
	doc := document{Label: label, CreatedAt: createdAt, Records: make([]record, 0, len(nodes))}
	for _, node := range nodes {
		entry := record{Kind: node.Kind()}
		switch typed := node.(type) {
		case *workgraph.Task:
			entry.Task = typed
		case *workgraph.Actor:
			entry.Actor = typed
		case *workgraph.Resource:
			entry.Resource = typed
		}
		doc.Records = append(doc.Records, entry)
	}

	payload, err := codec.Marshal(doc)
	if err != nil {
		return nil, Info{}, fmt.Errorf("encoding snapshot: %w", err)
	}
	if len(payload) > math.MaxUint32 {
		return nil, Info{}, fmt.Errorf("snapshot payload is %d bytes, exceeds format limit", len(payload))
	}

	body, used, err := compress(payload, compression)
	if err != nil {
		return nil, Info{}, err
	}

	data := make([]byte, headerSize, headerSize+len(body))
	copy(data, magic[:])
	data[4] = formatVersion
	data[5] = byte(used)
	binary.BigEndian.PutUint32(data[6:headerSize], uint32(len(payload)))
	data = append(data, body...)

	return data, Info{
		ID:          digest.Snapshot(payload).String(),
		Label:       label,
		CreatedAt:   createdAt,
		Nodes:       len(nodes),
		Compression: used,
		Size:        len(data),
		PayloadSize: len(payload),
	}, nil
}

// Payload checks the header of snapshot file bytes and returns the
// uncompressed CBOR document along with the compression it was
// stored under.
func Payload(data []byte) ([]byte, Compression, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], magic[:]) {
		return nil, 0, ErrNotSnapshot
	}
	if data[4] != formatVersion {
		return nil, 0, fmt.Errorf("unsupported snapshot format version %d", data[4])
	}
	compression := Compression(data[5])
	size := int(binary.BigEndian.Uint32(data[6:headerSize]))

	payload, err := decompress(data[headerSize:], compression, size)
	if err != nil {
		return nil, 0, err
	}
	return payload, compression, nil
}

// Decode parses snapshot file bytes back into a graph.
func Decode(data []byte) (*workgraph.Graph, Info, error) {
	payload, compression, err := Payload(data)
	if err != nil {
		return nil, Info{}, err
	}

	var doc document
	if err := codec.Unmarshal(payload, &doc); err != nil {
		return nil, Info{}, fmt.Errorf("decoding snapshot: %w", err)
	}

	graph := workgraph.New()
	for index, entry := range doc.Records {
		node, err := entry.node()
		if err != nil {
			return nil, Info{}, fmt.Errorf("record %d: %w", index, err)
		}
		if node == nil {
			continue
		}
		if err := graph.Add(node); err != nil {
			return nil, Info{}, fmt.Errorf("record %d: %w", index, err)
		}
	}

	return graph, Info{
		ID:          digest.Snapshot(payload).String(),
		Label:       doc.Label,
		CreatedAt:   doc.CreatedAt,
		Nodes:       graph.Len(),
		Compression: compression,
		Size:        len(data),
		PayloadSize: len(payload),
	}, nil
}

// node returns the record's node, or nil for a kind this version does
// not know.
func (r record) node() (workgraph.Node, error) {
	var node workgraph.Node
	switch r.Kind {
	case workgraph.KindTask:
		if r.Task != nil {
			node = r.Task
		}
	case workgraph.KindActor:
		if r.Actor != nil {
			node = r.Actor
		}
	case workgraph.KindResource:
		if r.Resource != nil {
			node = r.Resource
		}
	case "":
		return nil, errors.New("record has no kind")
	default:
		return nil, nil
	}
	if node == nil {
		return nil, fmt.Errorf("%s record has no %s", r.Kind, r.Kind)
	}
	return node, nil
}
