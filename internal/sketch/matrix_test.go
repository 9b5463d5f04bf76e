package sketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroSketchEstimatesZero(t *testing.T) {
	m := NewMatrix(NewHashFamily(5, 32, DefaultPrime, 1))

	for _, item := range []int64{0, 1, -3, 8191, 1 << 30} {
		assert.Equal(t, 0.0, m.Estimate(item))
	}
}

func TestSingleCellSketchIsExact(t *testing.T) {
	// With D = 1 and W = 1 every update lands in the one cell and the
	// sign cancels itself on query, so a single item's count is exact.
	m := NewMatrix(NewHashFamily(1, 1, DefaultPrime, 2))

	m.Update(42, 3)
	m.Update(42, 4)
	assert.Equal(t, 7.0, m.Estimate(42))
}

func TestUpdateMultiplicityEquivalence(t *testing.T) {
	family := NewHashFamily(4, 64, DefaultPrime, 3)
	repeated := NewMatrix(family)
	aggregated := NewMatrix(family)

	items := []int64{10, 20, 30, -7}
	for _, item := range items {
		for i := 0; i < 5; i++ {
			repeated.Update(item, 1)
		}
		aggregated.Update(item, 5)
	}

	require.Equal(t, aggregated.cells, repeated.cells)
}

func TestMergeEqualsSinglePass(t *testing.T) {
	family := NewHashFamily(3, 16, DefaultPrime, 4)

	first := []int64{1, 2, 2, 5, 5, 5}
	second := []int64{2, 3, 5, 5, 8}

	whole := NewMatrix(family)
	for _, item := range append(append([]int64{}, first...), second...) {
		whole.Update(item, 1)
	}

	a := NewMatrix(family)
	for _, item := range first {
		a.Update(item, 1)
	}
	b := NewMatrix(family)
	for _, item := range second {
		b.Update(item, 1)
	}

	// Merge in both orders; both must equal the single-pass sketch.
	ab := NewMatrix(family)
	ab.Merge(a)
	ab.Merge(b)
	ba := NewMatrix(family)
	ba.Merge(b)
	ba.Merge(a)

	require.Equal(t, whole.cells, ab.cells)
	require.Equal(t, whole.cells, ba.cells)
}

func TestMergePanicsOnFamilyMismatch(t *testing.T) {
	m1 := NewMatrix(NewHashFamily(3, 16, DefaultPrime, 5))
	m2 := NewMatrix(NewHashFamily(3, 16, DefaultPrime, 6))

	require.Panics(t, func() { m1.Merge(m2) })
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		vals []int64
		want float64
	}{
		{"single", []int64{7}, 7},
		{"odd", []int64{3, 1, 2}, 2},
		{"even", []int64{4, 1, 3, 2}, 2.5},
		{"even pair", []int64{2, 1}, 1.5},
		{"odd negatives", []int64{-5, 10, -1, 3, 2}, 2},
		{"even averages middles", []int64{-4, -2, 8, 100}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, median(append([]int64{}, tt.vals...)))
		})
	}
}
