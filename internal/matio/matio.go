// Package matio reads and writes the numeric CSV files the CLI exchanges
// with the gravity engine: distance matrices, weight vectors, and score
// output. It performs no geographic work; the matrices it reads are assumed
// already computed elsewhere.
package matio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/catchment/pkg/matrix"
)

// ReadMatrix reads a distance matrix from a CSV file of floats. Empty
// cells and "nan" mark unreachable pairs and parse as NaN; "inf" parses
// as +Inf.
func ReadMatrix(path string) (matrix.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return matrix.Matrix{}, eris.Wrapf(err, "matio: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	rows, err := readFloatRows(f, path)
	if err != nil {
		return matrix.Matrix{}, err
	}

	m, err := matrix.FromRows(rows)
	if err != nil {
		return matrix.Matrix{}, eris.Wrapf(err, "matio: %s", path)
	}
	return m, nil
}

// ReadVector reads a weight vector from a single-column CSV file.
func ReadVector(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "matio: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	rows, err := readFloatRows(f, path)
	if err != nil {
		return nil, err
	}

	vec := make([]float64, 0, len(rows))
	for i, row := range rows {
		if len(row) != 1 {
			return nil, eris.Errorf("matio: %s row %d has %d columns, expected 1", path, i+1, len(row))
		}
		vec = append(vec, row[0])
	}
	return vec, nil
}

// WriteScores writes accessibility scores as a two-column CSV of
// demand-location index and score.
func WriteScores(w io.Writer, scores []float64) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"demand_location", "score"}); err != nil {
		return eris.Wrap(err, "matio: write header")
	}
	for i, s := range scores {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(s, 'g', -1, 64)}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "matio: write row %d", i)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "matio: flush")
}

func readFloatRows(r io.Reader, path string) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // shape is validated by matrix.FromRows

	var rows [][]float64
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "matio: read %s", path)
		}
		line++

		row := make([]float64, len(record))
		for i, cell := range record {
			v, err := parseCell(cell)
			if err != nil {
				return nil, eris.Wrapf(err, "matio: %s row %d column %d", path, line, i+1)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseCell(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return v, nil
}
