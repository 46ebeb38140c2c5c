package ncgrid

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bitbucket.org/ctessum/cdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastalops/wavedeck/pkg/models"
)

func testProvenance() Provenance {
	return Provenance{
		Description: "XBeach bathymetry",
		Author:      "gabriel",
		Created:     time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC),
		Owner:       "Nearshore Modeling Group",
		Software:    "wavedeck 0.1.0",
		Library:     "bitbucket.org/ctessum/cdf",
		Source:      "/opt/wavedeck/bin/wavedeck",
	}
}

func openMirror(t *testing.T, path string) *cdf.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	nc, err := cdf.Open(f)
	require.NoError(t, err)
	return nc
}

func readVar(t *testing.T, nc *cdf.File, name string, lens []int) []float64 {
	t.Helper()
	n := 1
	for _, l := range lens {
		n *= l
	}
	buf := make([]float64, n)
	r := nc.Reader(name, make([]int, len(lens)), lens)
	_, err := r.Read(buf)
	require.NoError(t, err)
	return buf
}

func TestWriteFile2D(t *testing.T) {
	b := models.Bathymetry{
		X: [][]float64{{0, 10, 20}, {0, 10, 20}},
		Y: [][]float64{{0, 0, 0}, {5, 5, 5}},
		Z: [][]float64{{1.5, 2.5, 3.5}, {4.5, 5.5, 6.5}},
	}
	path := filepath.Join(t.TempDir(), DepthFile)
	require.NoError(t, WriteFile(path, b, testProvenance()))

	nc := openMirror(t, path)
	assert.ElementsMatch(t, []string{"x_rho", "h", "y_rho"}, nc.Header.Variables())

	assert.Equal(t, []float64{1.5, 2.5, 3.5, 4.5, 5.5, 6.5}, readVar(t, nc, "h", []int{2, 3}))
	assert.Equal(t, []float64{0, 10, 20, 0, 10, 20}, readVar(t, nc, "x_rho", []int{2, 3}))
	assert.Equal(t, []float64{0, 0, 0, 5, 5, 5}, readVar(t, nc, "y_rho", []int{2, 3}))
}

func TestWriteFile1D(t *testing.T) {
	b := models.Bathymetry{
		X: [][]float64{{0, 5, 10, 15}},
		Z: [][]float64{{20, 10, 5, 0.25}},
	}
	path := filepath.Join(t.TempDir(), DepthFile)
	require.NoError(t, WriteFile(path, b, testProvenance()))

	nc := openMirror(t, path)
	assert.ElementsMatch(t, []string{"x_rho", "h"}, nc.Header.Variables())

	assert.Equal(t, []float64{0, 5, 10, 15}, readVar(t, nc, "x_rho", []int{4}))
	assert.Equal(t, []float64{20, 10, 5, 0.25}, readVar(t, nc, "h", []int{4}))
}

func TestWriteFileAttributes(t *testing.T) {
	b := models.Bathymetry{
		X: [][]float64{{0, 5}},
		Z: [][]float64{{1, 2}},
	}
	prov := testProvenance()
	path := filepath.Join(t.TempDir(), DepthFile)
	require.NoError(t, WriteFile(path, b, prov))

	nc := openMirror(t, path)
	assert.Equal(t, prov.Description, nc.Header.GetAttribute("", "Description"))
	assert.Equal(t, prov.Author, nc.Header.GetAttribute("", "Author"))
	assert.Equal(t, "Fri Mar 14 09:26:53 2025", nc.Header.GetAttribute("", "Created"))
	assert.Equal(t, prov.Owner, nc.Header.GetAttribute("", "Owner"))
	assert.Equal(t, prov.Software, nc.Header.GetAttribute("", "Software"))
	assert.Equal(t, prov.Library, nc.Header.GetAttribute("", "NetCDF_Lib"))
	assert.Equal(t, prov.Source, nc.Header.GetAttribute("", "Script"))

	assert.Equal(t, "meter", nc.Header.GetAttribute("h", "units"))
	assert.Equal(t, "bathymetry at RHO-points", nc.Header.GetAttribute("h", "long_name"))
	assert.Equal(t, "x-locations of RHO-points", nc.Header.GetAttribute("x_rho", "long_name"))
}

func TestWriteFileBadPath(t *testing.T) {
	b := models.Bathymetry{X: [][]float64{{0}}, Z: [][]float64{{1}}}
	err := WriteFile(filepath.Join(t.TempDir(), "missing", DepthFile), b, testProvenance())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating netcdf mirror")
}
