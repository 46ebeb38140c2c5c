package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/coastalops/wavedeck/internal/api/handlers"
	"github.com/coastalops/wavedeck/internal/processing"
	"github.com/coastalops/wavedeck/internal/repository"
	"github.com/coastalops/wavedeck/internal/storage"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, s3Service storage.S3Service, exportRepo repository.ExportRepository, processingSvc processing.ProcessingService) {
	// Initialize handlers
	exportHandler := handlers.NewExportHandler(exportRepo, s3Service, processingSvc)

	// Register export routes
	huma.Register(api, huma.Operation{
		OperationID: "createExport",
		Method:      http.MethodPost,
		Path:        "/api/exports",
		Summary:     "Create a new export",
		Description: "Creates a new export job and returns a payload upload URL",
		Tags:        []string{"Exports"},
	}, exportHandler.CreateExport)

	huma.Register(api, huma.Operation{
		OperationID: "startExport",
		Method:      http.MethodPost,
		Path:        "/api/exports/{id}/process",
		Summary:     "Start rendering an export",
		Description: "Starts rendering the uploaded payload into model input files",
		Tags:        []string{"Exports"},
	}, exportHandler.StartExport)

	huma.Register(api, huma.Operation{
		OperationID: "getExport",
		Method:      http.MethodGet,
		Path:        "/api/exports/{id}",
		Summary:     "Get export status",
		Description: "Returns the current status and progress of an export job",
		Tags:        []string{"Exports"},
	}, exportHandler.GetExport)

	huma.Register(api, huma.Operation{
		OperationID: "listExports",
		Method:      http.MethodGet,
		Path:        "/api/exports",
		Summary:     "List recent exports",
		Description: "Returns the most recent export jobs, newest first",
		Tags:        []string{"Exports"},
	}, exportHandler.ListExports)

	huma.Register(api, huma.Operation{
		OperationID: "getArtifact",
		Method:      http.MethodGet,
		Path:        "/api/exports/{id}/artifacts/{name}",
		Summary:     "Get a rendered artifact",
		Description: "Returns a pre-signed download URL for one rendered deck file",
		Tags:        []string{"Exports"},
	}, exportHandler.GetArtifact)
}
