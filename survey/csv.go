// SPDX-License-Identifier: MIT
// Package survey - CSV exchange format.
//
// The format is one header row naming the columns x,y,value,a,b,m,n (any
// order, case-insensitive) followed by one reading per row. Lines starting
// with '#' are comments.

package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Columns is the canonical header written by WriteCSV.
var Columns = []string{"x", "y", "value", "a", "b", "m", "n"}

// ReadCSV parses readings from r.
//
// Errors:
//   - ErrMalformedCSV (wrapped with line context) on a missing or duplicate
//     column, a short record or an unparsable number.
//
// Complexity: O(rows).
func ReadCSV(r io.Reader) ([]DataPoint, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ReadCSV: empty input: %w", ErrMalformedCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("ReadCSV: header: %w: %v", ErrMalformedCSV, err)
	}
	pos, err := columnPositions(header)
	if err != nil {
		return nil, err
	}

	var (
		points []DataPoint
		rec    []string
		vals   [7]float64
	)
	for {
		rec, err = cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadCSV: %w: %v", ErrMalformedCSV, err)
		}
		line, _ := cr.FieldPos(0)
		for k, col := range pos {
			if col >= len(rec) {
				return nil, fmt.Errorf("ReadCSV: line %d: missing %q: %w", line, Columns[k], ErrMalformedCSV)
			}
			vals[k], err = strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("ReadCSV: line %d: column %q: %w: %v", line, Columns[k], ErrMalformedCSV, err)
			}
		}
		points = append(points, DataPoint{
			X: vals[0], Y: vals[1], Value: vals[2],
			A: vals[3], B: vals[4], M: vals[5], N: vals[6],
		})
	}

	return points, nil
}

// columnPositions maps each canonical column to its index in header.
func columnPositions(header []string) ([7]int, error) {
	var pos [7]int
	for k := range pos {
		pos[k] = -1
	}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for k, c := range Columns {
			if name != c {
				continue
			}
			if pos[k] >= 0 {
				return pos, fmt.Errorf("ReadCSV: duplicate column %q: %w", c, ErrMalformedCSV)
			}
			pos[k] = i
		}
	}
	for k, p := range pos {
		if p < 0 {
			return pos, fmt.Errorf("ReadCSV: missing column %q: %w", Columns[k], ErrMalformedCSV)
		}
	}

	return pos, nil
}

// WriteCSV writes points with the canonical header, using the shortest
// representation that round-trips each float64.
func WriteCSV(w io.Writer, points []DataPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}
	rec := make([]string, len(Columns))
	for _, p := range points {
		for k, v := range [7]float64{p.X, p.Y, p.Value, p.A, p.B, p.M, p.N} {
			rec[k] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("WriteCSV: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}
