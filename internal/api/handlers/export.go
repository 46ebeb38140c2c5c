package handlers

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coastalops/wavedeck/internal/processing"
	"github.com/coastalops/wavedeck/internal/repository"
	"github.com/coastalops/wavedeck/internal/storage"
	"github.com/coastalops/wavedeck/pkg/models"
)

// ExportHandler handles export-related HTTP requests
type ExportHandler struct {
	repo          repository.ExportRepository
	s3Service     storage.S3Service
	processingSvc processing.ProcessingService
}

// NewExportHandler creates a new export handler
func NewExportHandler(repo repository.ExportRepository, s3Service storage.S3Service, processingSvc processing.ProcessingService) *ExportHandler {
	return &ExportHandler{
		repo:          repo,
		s3Service:     s3Service,
		processingSvc: processingSvc,
	}
}

// CreateExport creates a new export job and returns a payload upload URL
func (h *ExportHandler) CreateExport(ctx context.Context, req *models.CreateExportRequest) (*models.CreateExportResponse, error) {
	log.Info().Str("kind", req.Body.Kind).Int64("fileSize", req.Body.FileSize).Msg("Creating new export")

	format := req.Body.Format
	switch req.Body.Kind {
	case "spectrum":
		if format == "" {
			format = "swan"
		}
		if req.Body.NetCDF {
			return nil, huma.Error400BadRequest("NetCDF mirrors apply to bathymetry exports only", nil)
		}
	case "bathymetry":
		if format != "" {
			return nil, huma.Error400BadRequest("Boundary formats apply to spectrum exports only", nil)
		}
	}

	// Validate payload size explicitly
	if req.Body.FileSize < 2 {
		return nil, huma.Error400BadRequest("Payload too small. Did the grids serialize correctly?", nil)
	}
	if req.Body.FileSize > 50*1024*1024 {
		return nil, huma.Error400BadRequest("Payload too large. Please split the export into smaller decks.", nil)
	}

	exportID := uuid.New()
	payloadKey := storage.PayloadKey(exportID.String())

	log.Info().Str("exportID", exportID.String()).Str("payloadKey", payloadKey).Msg("Generating S3 upload URL")
	uploadURL, err := h.s3Service.GenerateUploadURL(ctx, payloadKey, "application/json")
	if err != nil {
		if strings.Contains(err.Error(), "invalid content type") {
			return nil, huma.Error400BadRequest("Payload format not supported.", err)
		}
		return nil, huma.Error400BadRequest("Failed to prepare upload. Please try again.", err)
	}

	export := &models.Export{
		ID:         exportID.String(),
		Kind:       req.Body.Kind,
		Format:     format,
		NetCDF:     req.Body.NetCDF,
		Status:     "pending",
		Progress:   0,
		PayloadKey: &payloadKey,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := h.repo.Create(ctx, export); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create export", err)
	}

	log.Info().Str("exportID", export.ID).Msg("Export created, returning upload URL to client")
	resp := &models.CreateExportResponse{}
	resp.Body.ID = export.ID
	resp.Body.UploadURL = uploadURL
	resp.Body.ExpiresIn = int((15 * time.Minute).Seconds())
	return resp, nil
}

// StartExport starts rendering an uploaded payload
func (h *ExportHandler) StartExport(ctx context.Context, req *models.StartExportRequest) (*models.StartExportResponse, error) {
	log.Info().Str("exportID", req.ID).Msg("Render start request received")
	exportID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid export ID", err)
	}

	export, err := h.repo.GetByID(ctx, exportID)
	if err != nil {
		return nil, huma.Error404NotFound("Export not found", err)
	}

	if export.Status == "processing" {
		return nil, huma.Error409Conflict("Export is already rendering",
			fmt.Errorf("export status is %s", export.Status))
	}

	// The client calls this after finishing its pre-signed upload
	if err := h.repo.UpdateStatus(ctx, exportID, "uploaded", 0); err != nil {
		return nil, huma.Error500InternalServerError("Failed to update export", err)
	}

	// Render in background (don't wait for completion)
	log.Info().Str("exportID", exportID.String()).Msg("Starting background rendering goroutine")
	go func() {
		if err := h.processingSvc.ProcessExport(context.Background(), exportID); err != nil {
			h.repo.UpdateError(context.Background(), exportID, fmt.Sprintf("Rendering failed: %v", err))
		}
	}()

	resp := &models.StartExportResponse{}
	resp.Body.Message = "Rendering started successfully"
	return resp, nil
}

// GetExport returns the current status of an export job
func (h *ExportHandler) GetExport(ctx context.Context, req *models.GetExportRequest) (*models.GetExportResponse, error) {
	exportID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid export ID", err)
	}

	export, err := h.repo.GetByID(ctx, exportID)
	if err != nil {
		return nil, huma.Error404NotFound("Export not found", err)
	}

	log.Info().Str("exportID", export.ID).Str("status", export.Status).Int("progress", export.Progress).Msg("Returning export status")
	return &models.GetExportResponse{Body: exportBody(export)}, nil
}

// ListExports returns the most recent export jobs
func (h *ExportHandler) ListExports(ctx context.Context, req *models.ListExportsRequest) (*models.ListExportsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	exports, err := h.repo.List(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list exports", err)
	}

	resp := &models.ListExportsResponse{}
	resp.Body.Exports = make([]models.GetExportResponseBody, 0, len(exports))
	for _, export := range exports {
		resp.Body.Exports = append(resp.Body.Exports, exportBody(export))
	}
	return resp, nil
}

// GetArtifact returns a pre-signed download URL for a rendered artifact
func (h *ExportHandler) GetArtifact(ctx context.Context, req *models.GetArtifactRequest) (*models.GetArtifactResponse, error) {
	exportID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid export ID", err)
	}

	export, err := h.repo.GetByID(ctx, exportID)
	if err != nil {
		return nil, huma.Error404NotFound("Export not found", err)
	}

	if export.Status != "completed" {
		return nil, huma.Error409Conflict("Export not yet completed",
			fmt.Errorf("export status is %s", export.Status))
	}

	var artifactKey string
	for _, key := range export.ArtifactKeys {
		if path.Base(key) == req.Name {
			artifactKey = key
			break
		}
	}
	if artifactKey == "" {
		return nil, huma.Error404NotFound("Artifact not found",
			fmt.Errorf("export has no artifact %s", req.Name))
	}

	downloadURL, err := h.s3Service.GenerateDownloadURL(ctx, artifactKey)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate download URL", err)
	}

	resp := &models.GetArtifactResponse{}
	resp.Body.DownloadURL = downloadURL
	resp.Body.ExpiresIn = int((24 * time.Hour).Seconds())
	return resp, nil
}

// exportBody maps a stored export onto the API response shape. Artifact
// keys are reduced to their file names; clients fetch them through the
// artifacts endpoint.
func exportBody(export *models.Export) models.GetExportResponseBody {
	body := models.GetExportResponseBody{
		ID:        export.ID,
		Kind:      export.Kind,
		Format:    export.Format,
		Status:    export.Status,
		Progress:  export.Progress,
		Message:   statusMessage(export.Status, export.Progress),
		NX:        export.NX,
		NY:        export.NY,
		CreatedAt: export.CreatedAt,
	}
	for _, key := range export.ArtifactKeys {
		body.Artifacts = append(body.Artifacts, path.Base(key))
	}
	return body
}

// statusMessage creates a human-readable status message
func statusMessage(status string, progress int) string {
	switch status {
	case "pending":
		return "Export created. Waiting for payload upload..."
	case "uploaded":
		return "Payload received. Render queued..."
	case "processing":
		if progress < 25 {
			return "Starting render..."
		} else if progress < 50 {
			return "Downloading payload..."
		} else if progress < 75 {
			return "Writing deck files..."
		} else {
			return "Storing artifacts..."
		}
	case "completed":
		return "Export complete!"
	case "failed":
		return "Export failed. Please try again."
	default:
		return "Unknown status"
	}
}
