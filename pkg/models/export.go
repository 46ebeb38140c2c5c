package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateExportRequest represents a request to create a new export job
type CreateExportRequest struct {
	Body struct {
		Kind     string `json:"kind" enum:"spectrum,bathymetry" required:"true" doc:"Deck kind to render"`
		Format   string `json:"format,omitempty" enum:"swan,vardens" doc:"Boundary layout for spectrum jobs (defaults to swan)"`
		NetCDF   bool   `json:"netcdf,omitempty" doc:"Also write the depth.nc mirror for bathymetry jobs"`
		FileSize int64  `json:"file_size" minimum:"2" maximum:"52428800" required:"true" doc:"Payload size in bytes"`
	}
}

// CreateExportResponse represents the response from creating an export job
type CreateExportResponse struct {
	Body struct {
		ID        string `json:"id" doc:"Export unique identifier"`
		UploadURL string `json:"upload_url" doc:"Pre-signed S3 URL for payload upload"`
		ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
	}
}

// StartExportRequest represents a request to render an uploaded payload
type StartExportRequest struct {
	ID string `path:"id" doc:"Export ID"`
}

// StartExportResponse represents the response from starting rendering
type StartExportResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// GetExportRequest represents a request to get export job status
type GetExportRequest struct {
	ID string `path:"id" doc:"Export ID"`
}

// GetExportResponseBody is the body of the status response
type GetExportResponseBody struct {
	ID        string    `json:"id" doc:"Export ID"`
	Kind      string    `json:"kind" enum:"spectrum,bathymetry" doc:"Deck kind"`
	Format    string    `json:"format,omitempty" enum:"swan,vardens" doc:"Boundary layout for spectrum jobs"`
	Status    string    `json:"status" enum:"pending,uploaded,processing,completed,failed" doc:"Job status"`
	Progress  int       `json:"progress" minimum:"0" maximum:"100" doc:"Rendering progress percentage"`
	Message   string    `json:"message,omitempty" doc:"Human-readable status message"`
	Artifacts []string  `json:"artifacts,omitempty" doc:"Rendered artifact file names"`
	NX        *int      `json:"nx,omitempty" doc:"Grid columns minus one, for the params file"`
	NY        *int      `json:"ny,omitempty" doc:"Grid rows minus one, zero for 1-D profiles"`
	CreatedAt time.Time `json:"created_at" doc:"Job creation timestamp"`
}

// GetExportResponse represents the current state of an export job
type GetExportResponse struct {
	Body GetExportResponseBody
}

// ListExportsRequest represents a request to list recent export jobs
type ListExportsRequest struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Maximum number of jobs to return"`
}

// ListExportsResponse represents a page of export jobs
type ListExportsResponse struct {
	Body struct {
		Exports []GetExportResponseBody `json:"exports" doc:"Most recent jobs first"`
	}
}

// GetArtifactRequest represents a request for a rendered artifact download URL
type GetArtifactRequest struct {
	ID   string `path:"id" doc:"Export ID"`
	Name string `path:"name" doc:"Artifact file name, e.g. z.dep"`
}

// GetArtifactResponse represents the response carrying a download URL
type GetArtifactResponse struct {
	Body struct {
		DownloadURL string `json:"download_url" doc:"Pre-signed S3 URL for the artifact"`
		ExpiresIn   int    `json:"expires_in" doc:"URL expiration time in seconds"`
	}
}

// Export represents the core export job entity (for internal use)
type Export struct {
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	Format       string     `json:"format,omitempty"`
	NetCDF       bool       `json:"netcdf"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	PayloadKey   *string    `json:"payload_key,omitempty"`
	ArtifactKeys []string   `json:"artifact_keys,omitempty"`
	NX           *int       `json:"nx,omitempty"`
	NY           *int       `json:"ny,omitempty"`
	ErrorMsg     *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
