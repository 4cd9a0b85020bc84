package audio

import (
	"math"
	"testing"
)

func TestMerge_EmptyInputErrors(t *testing.T) {
	_, err := Merge(nil, 24000, 10)
	if err == nil {
		t.Fatal("Merge(nil) = nil error, want error")
	}
}

func TestMerge_NoCrossfadeConcatenates(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5}

	got, err := Merge([][]float32{a, b}, 24000, 0)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	want := []float32{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestMerge_CrossfadeDurationMatchesInvariant(t *testing.T) {
	const sr = 1000 // 1 sample = 1ms, for easy overlap math

	a := make([]float32, 100)
	b := make([]float32, 100)
	for i := range a {
		a[i] = 1.0
		b[i] = 1.0
	}

	got, err := Merge([][]float32{a, b}, sr, 20) // 20ms = 20 samples overlap
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	wantLen := len(a) + len(b) - 20
	if len(got) != wantLen {
		t.Errorf("len(got) = %d, want %d (sum of durations minus overlap)", len(got), wantLen)
	}
}

func TestMerge_CrossfadeBlendsAtBoundary(t *testing.T) {
	const sr = 1000

	a := make([]float32, 50)
	b := make([]float32, 50)
	for i := range a {
		a[i] = 1.0
		b[i] = 0.0
	}

	got, err := Merge([][]float32{a, b}, sr, 10) // 10 sample overlap
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	overlapStart := len(a) - 10
	// Midpoint of the overlap should be roughly halfway between 1.0 and 0.0.
	mid := got[overlapStart+5]
	if math.Abs(float64(mid)-0.5) > 0.15 {
		t.Errorf("midpoint of crossfade = %f, want ~0.5", mid)
	}
}

func TestMerge_OverlapClampedToShorterChunk(t *testing.T) {
	const sr = 1000

	a := []float32{1, 1, 1}
	b := []float32{0, 0}

	// Requested crossfade (100ms = 100 samples) exceeds both chunk lengths.
	got, err := Merge([][]float32{a, b}, sr, 100)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	wantLen := len(a) + len(b) - len(b) // overlap clamped to shorter chunk (b, len 2)
	if len(got) != wantLen {
		t.Errorf("len(got) = %d, want %d", len(got), wantLen)
	}
}
