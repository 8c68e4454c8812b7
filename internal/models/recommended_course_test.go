package models

import "testing"

func TestGenerationStatusNext(t *testing.T) {
	cases := []struct {
		from, to GenerationStatus
		want     bool
	}{
		{GenerationNotStarted, GenerationQueued, true},
		{GenerationQueued, GenerationGenerated, true},
		{GenerationNotStarted, GenerationGenerated, false},
		{GenerationQueued, GenerationNotStarted, false},
		{GenerationGenerated, GenerationQueued, false},
		{GenerationGenerated, GenerationNotStarted, false},
		{GenerationGenerated, GenerationGenerated, false},
	}
	for _, tc := range cases {
		if got := tc.from.Next(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestGenerationStatusValid(t *testing.T) {
	for _, s := range []GenerationStatus{GenerationNotStarted, GenerationQueued, GenerationGenerated} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if GenerationStatus("cancelled").Valid() {
		t.Error("cancelled should not be valid")
	}
}
