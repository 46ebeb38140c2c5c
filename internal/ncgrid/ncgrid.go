// Package ncgrid mirrors bathymetry grids into netCDF classic datasets.
//
// The mirror carries the same values as the fixed-width grid files, stored
// as x_rho / y_rho / h variables on the rho point dimensions, plus the
// descriptive attributes downstream tooling reads for provenance.
package ncgrid

import (
	"fmt"
	"os"
	"time"

	"bitbucket.org/ctessum/cdf"
	"bitbucket.org/ctessum/sparse"

	"github.com/coastalops/wavedeck/pkg/models"
)

// DepthFile is the conventional mirror file name.
const DepthFile = "depth.nc"

// Provenance carries the global attributes stamped onto a mirror file. All
// values arrive from the caller; the writer queries nothing from the
// environment, so output is reproducible under test.
type Provenance struct {
	Description string
	Author      string
	Created     time.Time
	Owner       string
	Software    string
	Library     string
	Source      string
}

// WriteFile mirrors the bathymetry into a netCDF file at path, creating or
// truncating it. Dimensions follow the depth grid: xi_rho columns and, for
// 2-D grids, eta_rho rows.
func WriteFile(path string, b models.Bathymetry, prov Provenance) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating netcdf mirror: %w", err)
	}
	defer f.Close()

	if err := write(f, b, prov); err != nil {
		return fmt.Errorf("writing netcdf mirror: %w", err)
	}
	return f.Close()
}

func write(ws cdf.ReaderWriterAt, b models.Bathymetry, prov Provenance) error {
	oneD := b.OneDimensional()

	var dims []string
	var lens []int
	if oneD {
		dims = []string{"xi_rho"}
		lens = []int{len(firstRow(b.Z))}
	} else {
		dims = []string{"eta_rho", "xi_rho"}
		lens = []int{len(b.Z), rowLen(b.Z)}
	}

	h := cdf.NewHeader(dims, lens)
	h.AddAttribute("", "Description", prov.Description)
	h.AddAttribute("", "Author", prov.Author)
	h.AddAttribute("", "Created", prov.Created.Format(time.ANSIC))
	h.AddAttribute("", "Owner", prov.Owner)
	h.AddAttribute("", "Software", prov.Software)
	h.AddAttribute("", "NetCDF_Lib", prov.Library)
	h.AddAttribute("", "Script", prov.Source)

	addGridVar(h, "x_rho", dims, "x-locations of RHO-points")
	addGridVar(h, "h", dims, "bathymetry at RHO-points")
	if !oneD {
		addGridVar(h, "y_rho", dims, "y-locations of RHO-points")
	}

	h.Define()
	for _, err := range h.Check() {
		if err != nil {
			return fmt.Errorf("invalid netcdf header: %w", err)
		}
	}

	f, err := cdf.Create(ws, h)
	if err != nil {
		return err
	}

	if err := putGrid(f, "x_rho", b.X, oneD); err != nil {
		return err
	}
	if err := putGrid(f, "h", b.Z, oneD); err != nil {
		return err
	}
	if !oneD {
		if err := putGrid(f, "y_rho", b.Y, false); err != nil {
			return err
		}
	}
	return nil
}

func addGridVar(h *cdf.Header, name string, dims []string, longName string) {
	h.AddVariable(name, dims, []float64{0.})
	h.AddAttribute(name, "units", "meter")
	h.AddAttribute(name, "long_name", longName)
}

func putGrid(f *cdf.File, name string, grid [][]float64, oneD bool) error {
	data := toDense(grid, oneD)
	w := f.Writer(name, make([]int, len(data.Shape)), data.Shape)
	if _, err := w.Write(data.Elements); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func toDense(grid [][]float64, oneD bool) *sparse.DenseArray {
	if oneD {
		row := firstRow(grid)
		d := sparse.ZerosDense(len(row))
		for i, v := range row {
			d.Set(v, i)
		}
		return d
	}
	d := sparse.ZerosDense(len(grid), rowLen(grid))
	for i, row := range grid {
		for j, v := range row {
			d.Set(v, i, j)
		}
	}
	return d
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
