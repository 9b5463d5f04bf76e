package sketch

import (
	"log"
	"slices"
)

// Matrix is a Count Sketch: a D x W grid of signed int64 counters driven
// by one HashFamily. Updates are additive, so the per-item estimate is
// unbiased row by row and taking the median across the D rows bounds the
// probability of a large error. Cells are int64 to survive counts in the
// tens of millions without wraparound.
type Matrix struct {
	family *HashFamily
	cells  [][]int64
}

// NewMatrix creates a zeroed D x W sketch bound to the given family. The
// dimensions are fixed for the matrix's lifetime.
func NewMatrix(family *HashFamily) *Matrix {
	cells := make([][]int64, family.Rows())
	for j := range cells {
		cells[j] = make([]int64, family.Width())
	}
	return &Matrix{family: family, cells: cells}
}

// Update adds weight (signed per row) to the item's cell in every row.
// Calling Update(item, 1) m times is equivalent to Update(item, m) once.
func (m *Matrix) Update(item, weight int64) {
	for j := range m.cells {
		m.cells[j][m.family.Bucket(item, j)] += m.family.Sign(item, j) * weight
	}
}

// Estimate returns the median across rows of the item's signed cell value.
// For odd D this is the middle sorted value; for even D the mean of the
// two middle values, which is why the result is a float.
func (m *Matrix) Estimate(item int64) float64 {
	row := make([]int64, len(m.cells))
	for j := range m.cells {
		row[j] = m.family.Sign(item, j) * m.cells[j][m.family.Bucket(item, j)]
	}
	return median(row)
}

// Merge adds other's cells into m elementwise. Both matrices must share
// the same HashFamily; merging sketches built from different parameters
// is a programming error, not a recoverable condition. Merge is
// associative and commutative, so per-batch sketches merged in any order
// equal the sketch of the whole stream.
func (m *Matrix) Merge(other *Matrix) {
	if m.family != other.family {
		log.Panicf("sketch: merge of matrices with different hash families")
	}
	for j := range m.cells {
		for k := range m.cells[j] {
			m.cells[j][k] += other.cells[j][k]
		}
	}
}

// median sorts vals in place and picks the middle element, averaging the
// two middle elements when the length is even.
func median(vals []int64) float64 {
	slices.Sort(vals)
	n := len(vals)
	if n%2 == 1 {
		return float64(vals[n/2])
	}
	return (float64(vals[n/2-1]) + float64(vals[n/2])) / 2
}
