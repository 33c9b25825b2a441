// Package tensor provides a generic square grid with element-wise reductions.
// Types that embed Grid inherit these as fallbacks and may shadow any of them
// with a specialized implementation of their own.
package tensor

// Grid is an n-by-n grid of integers, initialized to all ones.
type Grid struct {
	cells [][]int
}

// NewGrid returns an n-by-n grid of ones.
func NewGrid(n int) Grid {
	cells := make([][]int, n)
	for i := range cells {
		cells[i] = make([]int, n)
		for j := range cells[i] {
			cells[i][j] = 1
		}
	}

	return Grid{cells: cells}
}

// At returns the element at row i, column j.
func (g Grid) At(i, j int) int {
	return g.cells[i][j]
}

// Prod multiplies every element.
func (g Grid) Prod() int {
	product := 1

	for _, row := range g.cells {
		for _, cell := range row {
			product *= cell
		}
	}

	return product
}

// Size returns n for an n-by-n grid.
func (g Grid) Size() int {
	return len(g.cells)
}

// Sum adds every element.
func (g Grid) Sum() int {
	total := 0

	for _, row := range g.cells {
		for _, cell := range row {
			total += cell
		}
	}

	return total
}
