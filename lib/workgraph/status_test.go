// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workgraph

import (
	"encoding/json"
	"testing"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Status
	}{
		{"open", StatusOpen},
		{"DONE", StatusDone},
		{"in-progress", StatusInProgress},
		{"in_progress", StatusInProgress},
		{"In Progress", StatusInProgress},
		{" blocked ", StatusBlocked},
		{"pending-review", StatusPendingReview},
	}
	for _, test := range tests {
		got, err := ParseStatus(test.input)
		if err != nil {
			t.Errorf("ParseStatus(%q): %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseStatus(%q) = %s, want %s", test.input, got, test.want)
		}
	}

	if _, err := ParseStatus("finished"); err == nil {
		t.Error("ParseStatus(finished) succeeded, want error")
	}
}

func TestStatusJSONRejectsUnknown(t *testing.T) {
	t.Parallel()

	var status Status
	if err := json.Unmarshal([]byte(`"in-progress"`), &status); err != nil || status != StatusInProgress {
		t.Errorf("Unmarshal(in-progress) = %s, %v", status, err)
	}
	if err := json.Unmarshal([]byte(`"InProgress"`), &status); err == nil {
		t.Error("Unmarshal(InProgress) succeeded, want error")
	}
	if _, err := json.Marshal(Status("bogus")); err == nil {
		t.Error("Marshal(bogus status) succeeded, want error")
	}
}

func TestEffectiveStatus(t *testing.T) {
	t.Parallel()

	if StatusPendingReview.Effective() != StatusInProgress {
		t.Errorf("pending-review.Effective() = %s, want in-progress", StatusPendingReview.Effective())
	}
	if StatusDone.Effective() != StatusDone {
		t.Errorf("done.Effective() = %s, want done", StatusDone.Effective())
	}
}

func TestParseTrustLevel(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]TrustLevel{
		"verified":    TrustVerified,
		"Provisional": TrustProvisional,
		"UNKNOWN":     TrustUnknown,
	} {
		got, err := ParseTrustLevel(input)
		if err != nil || got != want {
			t.Errorf("ParseTrustLevel(%q) = %s, %v; want %s", input, got, err, want)
		}
	}
	if _, err := ParseTrustLevel("trusted"); err == nil {
		t.Error("ParseTrustLevel(trusted) succeeded, want error")
	}
}

func TestTrustLevelZeroMarshalsAsProvisional(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(TrustLevel(""))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"provisional"` {
		t.Errorf("Marshal(zero TrustLevel) = %s, want \"provisional\"", data)
	}
}
