// Package xbeach writes XBeach input decks: boundary spectra in either
// supported layout, and the bathymetry grid files with their optional
// netCDF mirror.
package xbeach

import (
	"fmt"
	"io"
	"os"

	"github.com/coastalops/wavedeck/internal/fixedcol"
	"github.com/coastalops/wavedeck/internal/swan"
	"github.com/coastalops/wavedeck/pkg/models"
)

// BoundaryFormat selects the boundary spectra layout. The two layouts map
// onto the model's instat boundary condition modes.
type BoundaryFormat int

const (
	// FormatSWAN is the full SWAN spectra layout, read with instat = 5.
	FormatSWAN BoundaryFormat = iota
	// FormatVarDens is the reduced variance density layout, read with
	// instat = 6.
	FormatVarDens
)

func (f BoundaryFormat) String() string {
	switch f {
	case FormatSWAN:
		return "swan"
	case FormatVarDens:
		return "vardens"
	}
	return fmt.Sprintf("BoundaryFormat(%d)", int(f))
}

// Instat reports the params.txt instat value matching the format.
func (f BoundaryFormat) Instat() int {
	if f == FormatVarDens {
		return 6
	}
	return 5
}

// ParseBoundaryFormat maps a wire name onto its format tag. The empty
// string selects the SWAN layout.
func ParseBoundaryFormat(s string) (BoundaryFormat, error) {
	switch s {
	case "", "swan":
		return FormatSWAN, nil
	case "vardens":
		return FormatVarDens, nil
	}
	return 0, fmt.Errorf("unknown boundary format %q", s)
}

// WriteBoundary writes a boundary spectra deck to w in the chosen layout.
// The SWAN layout delegates to the swan package. The variance density
// layout keeps only the frequency table and optional direction table ahead
// of the density block, which is encoded identically in both layouts.
func WriteBoundary(w io.Writer, sp models.Spectrum, format BoundaryFormat) error {
	if format == FormatSWAN {
		return swan.WriteBoundary(w, sp)
	}

	sections := []fixedcol.Section{
		fixedcol.CountedColumn(fixedcol.Freq, sp.Frequencies),
	}
	if len(sp.Directions) > 0 {
		sections = append(sections, fixedcol.CountedColumn(fixedcol.Coord, sp.Directions))
	}
	sections = append(sections, fixedcol.Block(fixedcol.Density, sp.Energy))
	return fixedcol.WriteSections(w, sections...)
}

// WriteBoundaryFile writes the boundary spectra deck at path, creating or
// truncating the file.
func WriteBoundaryFile(path string, sp models.Spectrum, format BoundaryFormat) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating boundary file: %w", err)
	}
	defer f.Close()

	if err := WriteBoundary(f, sp, format); err != nil {
		return fmt.Errorf("writing boundary file: %w", err)
	}
	return f.Close()
}
