package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/coastalops/wavedeck/internal/repository"
	"github.com/coastalops/wavedeck/pkg/models"
)

// PostgresExportRepository implements ExportRepository for PostgreSQL
type PostgresExportRepository struct {
	db *sql.DB
}

// NewPostgresExportRepository creates a new PostgreSQL export repository
func NewPostgresExportRepository(db *sql.DB) repository.ExportRepository {
	return &PostgresExportRepository{db: db}
}

const exportColumns = `id, kind, format, netcdf, status, progress, payload_key, artifact_keys, nx, ny, error_message, created_at, updated_at, completed_at`

// Create inserts a new export job record
func (r *PostgresExportRepository) Create(ctx context.Context, export *models.Export) error {
	query := `
		INSERT INTO exports (id, kind, format, netcdf, status, progress, payload_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		export.ID,
		export.Kind,
		export.Format,
		export.NetCDF,
		export.Status,
		export.Progress,
		export.PayloadKey,
		export.CreatedAt,
		export.UpdatedAt)

	return err
}

// GetByID retrieves an export job by ID
func (r *PostgresExportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Export, error) {
	query := `
		SELECT ` + exportColumns + `
		FROM exports
		WHERE id = $1`

	return scanExport(r.db.QueryRowContext(ctx, query, id))
}

// List retrieves the most recent export jobs
func (r *PostgresExportRepository) List(ctx context.Context, limit int) ([]*models.Export, error) {
	query := `
		SELECT ` + exportColumns + `
		FROM exports
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exports []*models.Export
	for rows.Next() {
		export, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		exports = append(exports, export)
	}

	return exports, rows.Err()
}

// UpdateStatus updates the status and progress of an export job
func (r *PostgresExportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE exports
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError updates the error message for an export job
func (r *PostgresExportRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE exports
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// StoreResults records the rendered artifact keys and derived grid dims
func (r *PostgresExportRepository) StoreResults(ctx context.Context, id uuid.UUID, artifactKeys []string, nx, ny *int) error {
	keys, err := json.Marshal(artifactKeys)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact keys: %w", err)
	}

	query := `
		UPDATE exports
		SET artifact_keys = $1, nx = $2, ny = $3, updated_at = NOW()
		WHERE id = $4`

	_, err = r.db.ExecContext(ctx, query, string(keys), nx, ny, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExport(row rowScanner) (*models.Export, error) {
	var export models.Export
	var format, payloadKey, artifactKeys, errorMsg sql.NullString
	var nx, ny sql.NullInt64
	var completedAt sql.NullTime

	err := row.Scan(
		&export.ID,
		&export.Kind,
		&format,
		&export.NetCDF,
		&export.Status,
		&export.Progress,
		&payloadKey,
		&artifactKeys,
		&nx,
		&ny,
		&errorMsg,
		&export.CreatedAt,
		&export.UpdatedAt,
		&completedAt)

	if err != nil {
		return nil, err
	}

	if format.Valid {
		export.Format = format.String
	}
	if payloadKey.Valid {
		export.PayloadKey = &payloadKey.String
	}
	if artifactKeys.Valid && artifactKeys.String != "" {
		var keys []string
		if err := json.Unmarshal([]byte(artifactKeys.String), &keys); err != nil {
			return nil, fmt.Errorf("failed to unmarshal artifact keys: %w", err)
		}
		export.ArtifactKeys = keys
	}
	if nx.Valid {
		v := int(nx.Int64)
		export.NX = &v
	}
	if ny.Valid {
		v := int(ny.Int64)
		export.NY = &v
	}
	if errorMsg.Valid {
		export.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		export.CompletedAt = &completedAt.Time
	}

	return &export, nil
}
