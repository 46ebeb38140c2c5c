// Package fixedcol renders the fixed-width numeric columns used by wave
// model input decks. A deck layout is a sequence of sections, each owning
// its field encoding; column position is the only separator inside a line.
//
// Fields carry no overflow guard. A value wider than its field runs past
// the column boundary and breaks alignment for fixed-position parsers, so
// keeping magnitudes inside the field width is the caller's responsibility.
package fixedcol

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Field describes one column: total width in characters and decimal places.
// Values are right-justified.
type Field struct {
	Width int
	Prec  int
}

// Column encodings shared by the SWAN and XBeach layouts.
var (
	Count   = Field{Width: 12, Prec: 0}
	Freq    = Field{Width: 12, Prec: 8}
	Coord   = Field{Width: 16, Prec: 4}
	Density = Field{Width: 16, Prec: 10}
)

// Format renders v right-justified in the field.
func (f Field) Format(v float64) string {
	return fmt.Sprintf("%*.*f", f.Width, f.Prec, v)
}

// A Section emits one chunk of a deck layout.
type Section func(w io.Writer) error

// WriteSections runs sections in order, stopping at the first error.
func WriteSections(w io.Writer, sections ...Section) error {
	for _, s := range sections {
		if err := s(w); err != nil {
			return err
		}
	}
	return nil
}

// Literal returns a Section writing the given lines verbatim.
func Literal(lines ...string) Section {
	return func(w io.Writer) error {
		for _, l := range lines {
			if _, err := io.WriteString(w, l+"\n"); err != nil {
				return err
			}
		}
		return nil
	}
}

// CountedColumn returns a Section writing a count line followed by one
// value per line.
func CountedColumn(f Field, vals []float64) Section {
	return func(w io.Writer) error {
		if err := writeCount(w, len(vals)); err != nil {
			return err
		}
		for _, v := range vals {
			if _, err := io.WriteString(w, f.Format(v)+"\n"); err != nil {
				return err
			}
		}
		return nil
	}
}

// CountedPairs returns a Section writing a count line followed by one line
// per pair, the two fields separated by a single space.
func CountedPairs(f Field, pairs [][2]float64) Section {
	return func(w io.Writer) error {
		if err := writeCount(w, len(pairs)); err != nil {
			return err
		}
		for _, p := range pairs {
			line := f.Format(p[0]) + " " + f.Format(p[1]) + "\n"
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
		return nil
	}
}

// Block returns a Section writing one row per entry. Both boundary layouts
// funnel their density blocks through here so the cell encoding is defined
// once.
func Block(f Field, rows [][]float64) Section {
	return func(w io.Writer) error {
		for _, row := range rows {
			if err := WriteRow(w, f, row); err != nil {
				return err
			}
		}
		return nil
	}
}

// WriteRow writes vals side by side with no delimiter, then a newline.
func WriteRow(w io.Writer, f Field, vals []float64) error {
	for _, v := range vals {
		if _, err := io.WriteString(w, f.Format(v)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Counts render as integer-valued fixed fields, matching the decks the
// downstream parsers were written against.
func writeCount(w io.Writer, n int) error {
	_, err := io.WriteString(w, Count.Format(float64(n))+"\n")
	return err
}

// SplitRow cuts a fixed-width line into width-sized cells. A trailing short
// cell is returned as-is.
func SplitRow(line string, width int) []string {
	line = strings.TrimSuffix(line, "\n")
	var cells []string
	for len(line) > 0 {
		if len(line) < width {
			cells = append(cells, line)
			break
		}
		cells = append(cells, line[:width])
		line = line[width:]
	}
	return cells
}

// ParseRow splits a fixed-width line and parses each cell as a float64.
func ParseRow(line string, width int) ([]float64, error) {
	cells := SplitRow(line, width)
	vals := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing field %d %q: %w", i, c, err)
		}
		vals[i] = v
	}
	return vals, nil
}
