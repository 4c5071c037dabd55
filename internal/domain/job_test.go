package domain

import "testing"

func TestStringArrayRoundTrip(t *testing.T) {
	in := StringArray{"X", "LinkedIn", "TikTok"}

	val, err := in.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out StringArray
	if err := out.Scan(val); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("expected %d entries, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("entry %d: expected %q, got %q", i, in[i], out[i])
		}
	}
}

func TestStringArrayScanNil(t *testing.T) {
	var out StringArray
	if err := out.Scan(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty array, got %v", out)
	}
}

func TestResultMapRoundTrip(t *testing.T) {
	in := ResultMap{
		"X":        "short and witty",
		"LinkedIn": "Error: generation API returned empty result",
	}

	val, err := in.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out ResultMap
	if err := out.Scan(val); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("expected %d entries, got %d", len(in), len(out))
	}
	for k, v := range in {
		if out[k] != v {
			t.Errorf("key %q: expected %q, got %q", k, v, out[k])
		}
	}
}

func TestJobStatusTerminal(t *testing.T) {
	tests := []struct {
		status   JobStatus
		terminal bool
	}{
		{JobStatusQueued, false},
		{JobStatusActive, false},
		{JobStatusCompleted, true},
		{JobStatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("%s: expected terminal=%v, got %v", tt.status, tt.terminal, got)
		}
	}
}
