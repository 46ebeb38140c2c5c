// Package swan writes SWAN compatible boundary spectra decks.
package swan

import (
	"fmt"
	"io"
	"os"

	"github.com/coastalops/wavedeck/internal/fixedcol"
	"github.com/coastalops/wavedeck/pkg/models"
)

// WriteBoundary writes a stationary boundary spectra deck to w. Sections
// appear in the order the SWAN parser expects: header, locations,
// frequencies, optional directions, quantity table, then the variance
// density block with one row per frequency. When the spectrum carries no
// directions the NDIR section is left out entirely. For 1-D spectra the
// energy grid should hold a single column per frequency.
func WriteBoundary(w io.Writer, sp models.Spectrum) error {
	sections := []fixedcol.Section{
		fixedcol.Literal("SWAN 1"),
		fixedcol.Literal("LOCATIONS"),
		fixedcol.CountedPairs(fixedcol.Coord, locationPairs(sp.Locations)),
		fixedcol.Literal("RFREQ"),
		fixedcol.CountedColumn(fixedcol.Freq, sp.Frequencies),
	}
	if len(sp.Directions) > 0 {
		sections = append(sections,
			fixedcol.Literal("NDIR"),
			fixedcol.CountedColumn(fixedcol.Coord, sp.Directions),
		)
	}
	sections = append(sections,
		fixedcol.Literal("QUANT", "1", "VaDens", "m2/Hz/degr", "-99", "FACTOR", "1"),
		fixedcol.Block(fixedcol.Density, sp.Energy),
	)
	return fixedcol.WriteSections(w, sections...)
}

// WriteBoundaryFile writes the boundary spectra deck at path, creating or
// truncating the file.
func WriteBoundaryFile(path string, sp models.Spectrum) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating boundary file: %w", err)
	}
	defer f.Close()

	if err := WriteBoundary(f, sp); err != nil {
		return fmt.Errorf("writing boundary file: %w", err)
	}
	return f.Close()
}

func locationPairs(locs []models.Location) [][2]float64 {
	pairs := make([][2]float64, len(locs))
	for i, l := range locs {
		pairs[i] = [2]float64{l.X, l.Y}
	}
	return pairs
}
