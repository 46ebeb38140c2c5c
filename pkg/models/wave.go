package models

// Location represents a single (x, y) boundary output point
type Location struct {
	X float64 `json:"x" doc:"X coordinate in meters"`
	Y float64 `json:"y" doc:"Y coordinate in meters"`
}

// Spectrum represents one frequency-direction variance density grid plus the
// points it applies to. Energy is frequency-major: one row per frequency,
// one column per direction. Only 2-D grids are supported; callers slice any
// time or location axes before building a Spectrum.
type Spectrum struct {
	Frequencies []float64   `json:"frequencies" minItems:"1" required:"true" doc:"Frequency bins in Hz, ascending"`
	Directions  []float64   `json:"directions,omitempty" doc:"Direction bins in degrees; omit for 1-D spectra"`
	Energy      [][]float64 `json:"energy" required:"true" doc:"Variance density in m2/Hz/degr, one row per frequency"`
	Locations   []Location  `json:"locations" doc:"Boundary points the spectrum applies to"`
}

// Bathymetry represents the coordinate and depth grids for a model domain.
// Y omitted selects the 1-D profile mode, which serializes the first row of
// X and Z only.
type Bathymetry struct {
	X [][]float64 `json:"x" required:"true" doc:"X coordinates at rho points"`
	Y [][]float64 `json:"y,omitempty" doc:"Y coordinates at rho points; omit for 1-D profiles"`
	Z [][]float64 `json:"z" required:"true" doc:"Depth at rho points in meters"`
}

// OneDimensional reports whether the bathymetry is a 1-D profile.
func (b Bathymetry) OneDimensional() bool { return len(b.Y) == 0 }
