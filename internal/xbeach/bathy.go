package xbeach

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/coastalops/wavedeck/internal/fixedcol"
	"github.com/coastalops/wavedeck/internal/ncgrid"
	"github.com/coastalops/wavedeck/pkg/models"
)

// Grid file names within an output directory.
const (
	XGridFile = "x.grd"
	YGridFile = "y.grd"
	ZDepFile  = "z.dep"
)

// GridDims is the model grid size derived from the depth grid, expressed
// the way params.txt wants it: nx is columns minus one, ny is rows minus
// one, or zero for a 1-D profile.
type GridDims struct {
	NX int
	NY int
}

// ParamsHint returns the params.txt lines for the grid size.
func (d GridDims) ParamsHint() []string {
	return []string{
		fmt.Sprintf("nx = %d", d.NX),
		fmt.Sprintf("ny = %d", d.NY),
	}
}

// WriteBathymetry serializes the coordinate and depth grids into dir as
// fixed-width text files. 2-D grids produce x.grd, y.grd and z.dep in
// row-major lockstep, one text line per row. 1-D profiles produce z.dep
// and then x.grd from the first row of each grid, a single line per file.
//
// When mirror is non-nil a depth.nc netCDF copy is written after the text
// grids, stamped with the given provenance. The text grids are complete on
// disk before the mirror is attempted, so a mirror failure returns an
// error but leaves them intact; the returned dims stay valid in that case.
func WriteBathymetry(dir string, b models.Bathymetry, mirror *ncgrid.Provenance) (GridDims, error) {
	var dims GridDims
	if b.OneDimensional() {
		if err := writeGridFile(filepath.Join(dir, ZDepFile), firstRow(b.Z)); err != nil {
			return dims, err
		}
		if err := writeGridFile(filepath.Join(dir, XGridFile), firstRow(b.X)); err != nil {
			return dims, err
		}
		dims = GridDims{NX: len(firstRow(b.Z)) - 1, NY: 0}
	} else {
		if err := writeGridRows(dir, b); err != nil {
			return dims, err
		}
		dims = GridDims{NX: rowLen(b.Z) - 1, NY: len(b.Z) - 1}
	}

	if mirror != nil {
		if err := ncgrid.WriteFile(filepath.Join(dir, ncgrid.DepthFile), b, *mirror); err != nil {
			return dims, err
		}
	}
	return dims, nil
}

// writeGridRows writes the three 2-D grid files, advancing them one row at
// a time so a mid-write failure leaves them truncated at the same row.
func writeGridRows(dir string, b models.Bathymetry) error {
	fx, err := os.Create(filepath.Join(dir, XGridFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", XGridFile, err)
	}
	defer fx.Close()

	fy, err := os.Create(filepath.Join(dir, YGridFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", YGridFile, err)
	}
	defer fy.Close()

	fz, err := os.Create(filepath.Join(dir, ZDepFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", ZDepFile, err)
	}
	defer fz.Close()

	for i := range b.Z {
		if err := fixedcol.WriteRow(fx, fixedcol.Coord, b.X[i]); err != nil {
			return fmt.Errorf("writing %s: %w", XGridFile, err)
		}
		if err := fixedcol.WriteRow(fy, fixedcol.Coord, b.Y[i]); err != nil {
			return fmt.Errorf("writing %s: %w", YGridFile, err)
		}
		if err := fixedcol.WriteRow(fz, fixedcol.Coord, b.Z[i]); err != nil {
			return fmt.Errorf("writing %s: %w", ZDepFile, err)
		}
	}

	for _, gf := range []struct {
		name string
		f    *os.File
	}{{XGridFile, fx}, {YGridFile, fy}, {ZDepFile, fz}} {
		if err := gf.f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", gf.name, err)
		}
	}
	return nil
}

func writeGridFile(path string, vals []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := fixedcol.WriteRow(f, fixedcol.Coord, vals); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func firstRow(grid [][]float64) []float64 {
	if len(grid) == 0 {
		return nil
	}
	return grid[0]
}

func rowLen(grid [][]float64) int {
	return len(firstRow(grid))
}
