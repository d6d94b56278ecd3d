// Package matrix provides a minimal dense row-major float64 matrix used as
// the distance-matrix representation for accessibility models.
package matrix

import (
	"math"

	"github.com/rotisserie/eris"
)

// Matrix is a dense row-major matrix of float64 values.
// The zero value is an empty 0x0 matrix.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// New returns a rows x cols matrix with all entries zero.
func New(rows, cols int) Matrix {
	if rows < 0 || cols < 0 {
		return Matrix{}
	}
	return Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// FromRows builds a matrix from a slice of equal-length rows.
func FromRows(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, nil
	}
	cols := len(rows[0])
	m := New(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return Matrix{}, eris.Errorf("matrix: row %d has %d columns, expected %d", i, len(row), cols)
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m Matrix) Cols() int { return m.cols }

// At returns the entry in row i, column j.
func (m Matrix) At(i, j int) float64 { return m.data[i*m.cols+j] }

// Set assigns the entry in row i, column j.
func (m Matrix) Set(i, j int, v float64) { m.data[i*m.cols+j] = v }

// Row returns a view of row i. Mutating the returned slice mutates the matrix.
func (m Matrix) Row(i int) []float64 { return m.data[i*m.cols : (i+1)*m.cols] }

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	c := Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	copy(c.data, m.data)
	return c
}

// Map returns a new matrix with f applied to every entry.
func (m Matrix) Map(f func(float64) float64) Matrix {
	c := Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	for i, v := range m.data {
		c.data[i] = f(v)
	}
	return c
}

// Ones returns a slice of n ones, the default weight vector for
// demand and supply locations.
func Ones(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// NaNSumRow sums the entries of row i, skipping NaN entries.
func (m Matrix) NaNSumRow(i int) float64 {
	var sum float64
	for _, v := range m.Row(i) {
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return sum
}

// NaNSumCol sums the entries of column j, skipping NaN entries.
func (m Matrix) NaNSumCol(j int) float64 {
	var sum float64
	for i := 0; i < m.rows; i++ {
		v := m.At(i, j)
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return sum
}
