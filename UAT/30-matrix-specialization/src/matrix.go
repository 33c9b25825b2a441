// Package matrix specializes tensor.Grid for the all-ones square case. Sum is
// implemented here with a closed form; Prod deliberately stays on the generic
// fallback so the dispatch-origin assertions have one path on each side of
// the boundary.
package matrix

import (
	"github.com/toejough/impsource/UAT/tensor"
)

//go:generate go run ../../../impwhere Matrix

// Matrix is a square all-ones matrix.
type Matrix struct {
	tensor.Grid
}

// New returns an n-by-n all-ones matrix.
func New(n int) Matrix {
	return Matrix{Grid: tensor.NewGrid(n)}
}

// Sum shadows the promoted tensor.Grid.Sum: for an all-ones n-by-n matrix the
// total is just n squared.
func (m Matrix) Sum() int {
	return m.Size() * m.Size()
}
