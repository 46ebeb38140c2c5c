package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coastalops/wavedeck/internal/ncgrid"
	"github.com/coastalops/wavedeck/internal/repository"
	"github.com/coastalops/wavedeck/internal/storage"
	"github.com/coastalops/wavedeck/internal/xbeach"
	"github.com/coastalops/wavedeck/pkg/models"
)

// BoundaryFileName is the rendered boundary spectra artifact name.
const BoundaryFileName = "bc.txt"

type ProcessingService interface {
	ProcessExport(ctx context.Context, exportID uuid.UUID) error
}

type processingService struct {
	s3         storage.S3Service
	repository repository.ExportRepository
	provenance ncgrid.Provenance // template for mirror attributes; Created is stamped per render
}

func NewProcessingService(s3Service storage.S3Service, repo repository.ExportRepository, prov ncgrid.Provenance) ProcessingService {
	return &processingService{
		s3:         s3Service,
		repository: repo,
		provenance: prov,
	}
}

// renderResult carries the artifact names written into the scratch
// directory plus the grid dims for bathymetry jobs.
type renderResult struct {
	names []string
	nx    *int
	ny    *int
}

func (s *processingService) ProcessExport(ctx context.Context, exportID uuid.UUID) error {
	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, exportID, "processing", 10); err != nil {
		return err
	}

	// Step 2: Get export details
	export, err := s.repository.GetByID(ctx, exportID)
	if err != nil {
		return err
	}

	if export.PayloadKey == nil {
		s.repository.UpdateError(ctx, exportID, "No payload uploaded")
		return nil // Don't return error, status is updated to failed
	}

	// Step 3: Download payload from S3
	if err := s.repository.UpdateStatus(ctx, exportID, "processing", 20); err != nil {
		return err
	}

	payload, err := s.s3.DownloadFile(ctx, *export.PayloadKey)
	if err != nil {
		s.repository.UpdateError(ctx, exportID, "Failed to download payload")
		return nil // Don't return error, status is updated to failed
	}

	// Step 4: Render decks into a scratch directory
	if err := s.repository.UpdateStatus(ctx, exportID, "processing", 50); err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "wavedeck-"+export.ID)
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir) // Always cleanup

	result, err := s.render(export, payload, workDir)
	if err != nil {
		s.repository.UpdateError(ctx, exportID, fmt.Sprintf("Rendering failed: %s", err))
		return nil // Don't return error, status is updated to failed
	}

	// Step 5: Upload artifacts
	if err := s.repository.UpdateStatus(ctx, exportID, "processing", 80); err != nil {
		return err
	}

	keys := make([]string, 0, len(result.names))
	for _, name := range result.names {
		data, err := os.ReadFile(filepath.Join(workDir, name))
		if err != nil {
			return err
		}
		key := storage.ArtifactKey(export.ID, name)
		if err := s.s3.UploadFile(ctx, key, storage.ArtifactContentType(name), data); err != nil {
			s.repository.UpdateError(ctx, exportID, fmt.Sprintf("Failed to store artifact %s", name))
			return nil // Don't return error, status is updated to failed
		}
		keys = append(keys, key)
	}

	// Step 6: Record artifacts and grid dims
	if err := s.repository.UpdateStatus(ctx, exportID, "processing", 90); err != nil {
		return err
	}

	if err := s.repository.StoreResults(ctx, exportID, keys, result.nx, result.ny); err != nil {
		return err
	}

	// Step 7: Mark complete
	if err := s.repository.UpdateStatus(ctx, exportID, "completed", 100); err != nil {
		return err
	}

	return nil
}

// render writes the export's deck files into dir.
func (s *processingService) render(export *models.Export, payload []byte, dir string) (renderResult, error) {
	switch export.Kind {
	case "spectrum":
		return s.renderSpectrum(export, payload, dir)
	case "bathymetry":
		return s.renderBathymetry(export, payload, dir)
	}
	return renderResult{}, fmt.Errorf("unknown export kind %q", export.Kind)
}

func (s *processingService) renderSpectrum(export *models.Export, payload []byte, dir string) (renderResult, error) {
	var sp models.Spectrum
	if err := json.Unmarshal(payload, &sp); err != nil {
		return renderResult{}, fmt.Errorf("invalid spectrum payload: %w", err)
	}
	if err := validateSpectrum(sp); err != nil {
		return renderResult{}, err
	}

	format, err := xbeach.ParseBoundaryFormat(export.Format)
	if err != nil {
		return renderResult{}, err
	}

	msg := "Writing SWAN formatted boundary input"
	if format == xbeach.FormatVarDens {
		msg = "Writing 2D spectrum for variance density input"
	}
	log.Info().
		Str("export_id", export.ID).
		Int("instat", format.Instat()).
		Msg(msg)

	if err := xbeach.WriteBoundaryFile(filepath.Join(dir, BoundaryFileName), sp, format); err != nil {
		return renderResult{}, err
	}
	return renderResult{names: []string{BoundaryFileName}}, nil
}

func (s *processingService) renderBathymetry(export *models.Export, payload []byte, dir string) (renderResult, error) {
	var b models.Bathymetry
	if err := json.Unmarshal(payload, &b); err != nil {
		return renderResult{}, fmt.Errorf("invalid bathymetry payload: %w", err)
	}
	if err := validateBathymetry(b); err != nil {
		return renderResult{}, err
	}

	var mirror *ncgrid.Provenance
	if export.NetCDF {
		prov := s.provenance
		prov.Created = time.Now()
		mirror = &prov
	}

	log.Info().
		Str("export_id", export.ID).
		Bool("netcdf", export.NetCDF).
		Msg("Writing bathymetry grids")

	dims, err := xbeach.WriteBathymetry(dir, b, mirror)
	if err != nil {
		return renderResult{}, err
	}

	var names []string
	if b.OneDimensional() {
		names = []string{xbeach.ZDepFile, xbeach.XGridFile}
	} else {
		names = []string{xbeach.XGridFile, xbeach.YGridFile, xbeach.ZDepFile}
	}
	if export.NetCDF {
		names = append(names, ncgrid.DepthFile)
	}

	nx, ny := dims.NX, dims.NY
	return renderResult{names: names, nx: &nx, ny: &ny}, nil
}

// validateSpectrum rejects payloads the writers cannot meaningfully
// serialize. Only 2-D frequency by direction grids are supported; the
// JSON decode above already refuses higher-dimensional energy arrays.
func validateSpectrum(sp models.Spectrum) error {
	if len(sp.Frequencies) == 0 {
		return fmt.Errorf("spectrum payload has no frequencies")
	}
	if len(sp.Energy) == 0 {
		return fmt.Errorf("spectrum payload has no energy rows")
	}
	return nil
}

// validateBathymetry guards the row counts the grid writer indexes by.
func validateBathymetry(b models.Bathymetry) error {
	if len(b.Z) == 0 {
		return fmt.Errorf("bathymetry payload has no depth rows")
	}
	if len(b.X) == 0 {
		return fmt.Errorf("bathymetry payload has no x coordinates")
	}
	if !b.OneDimensional() {
		if len(b.X) < len(b.Z) || len(b.Y) < len(b.Z) {
			return fmt.Errorf("coordinate grids have fewer rows than the depth grid")
		}
	}
	return nil
}
