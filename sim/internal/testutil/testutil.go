// Package testutil provides shared test infrastructure for the rentsim
// packages: float comparison helpers and CSV fixture writers used across
// sim/ and its subpackage tests.
package testutil

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFloat64Near compares two float64 values with absolute tolerance.
// Use for quantities that legitimately pass through zero, where a relative
// check degenerates.
func AssertFloat64Near(t *testing.T, name string, want, got, absTol float64) {
	t.Helper()
	if diff := math.Abs(want - got); diff > absTol {
		t.Errorf("%s: got %v, want %v (diff=%v)", name, got, want, diff)
	}
}

// WriteCSV writes the records to dir/name and returns the full path.
// The first record is the header row.
func WriteCSV(t *testing.T, dir, name string, records [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create fixture %s: %v", name, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close fixture %s: %v", name, err)
	}
	return path
}
