// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Epoch is the fixed instant tests start from when they have no
// reason to prefer another: 2026-01-01T00:00:00Z.
var Epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Format renders t the way workgraph persists timestamps: RFC 3339
// in UTC.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Parse is the inverse of Format. It accepts any RFC 3339 timestamp,
// including ones with fractional seconds or a zone offset.
func Parse(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
