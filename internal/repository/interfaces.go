package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/coastalops/wavedeck/pkg/models"
)

// ExportRepository defines the interface for export job data operations
type ExportRepository interface {
	Create(ctx context.Context, export *models.Export) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Export, error)
	List(ctx context.Context, limit int) ([]*models.Export, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreResults(ctx context.Context, id uuid.UUID, artifactKeys []string, nx, ny *int) error
}
