package processing

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bitbucket.org/ctessum/cdf"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/coastalops/wavedeck/internal/ncgrid"
	"github.com/coastalops/wavedeck/internal/repository"
	"github.com/coastalops/wavedeck/internal/repository/postgres"
	"github.com/coastalops/wavedeck/internal/storage"
	"github.com/coastalops/wavedeck/pkg/models"
)

// TestContainer holds test infrastructure
type TestContainer struct {
	postgresContainer testcontainers.Container
	minioContainer    testcontainers.Container
	dbURL             string
	minioURL          string
	bucketName        string
}

// SetupIntegrationTest sets up PostgreSQL and MinIO containers for integration testing
func SetupIntegrationTest(t *testing.T) *TestContainer {
	t.Helper()

	ctx := context.Background()

	// Start PostgreSQL container
	pgC, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("wavedeck_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dbURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start MinIO container
	minioContainer, err := tcminio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		tcminio.WithUsername("minioadmin"),
		tcminio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)

	minioURL, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	// Create test bucket
	bucketName := "wavedeck-test-" + uuid.New().String()[:8]
	err = createMinioBucket(ctx, minioURL, bucketName)
	require.NoError(t, err)

	return &TestContainer{
		postgresContainer: pgC,
		minioContainer:    minioContainer,
		dbURL:             dbURL,
		minioURL:          minioURL,
		bucketName:        bucketName,
	}
}

// CleanupIntegrationTest cleans up test containers
func (tc *TestContainer) CleanupIntegrationTest(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if tc.minioContainer != nil {
		require.NoError(t, tc.minioContainer.Terminate(ctx))
	}
	if tc.postgresContainer != nil {
		require.NoError(t, tc.postgresContainer.Terminate(ctx))
	}
}

// createMinioBucket creates a bucket in MinIO for testing
func createMinioBucket(ctx context.Context, minioURL, bucketName string) error {
	client, err := minio.New(minioURL, &minio.Options{
		Creds:  miniocreds.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		return err
	}
	return client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
}

// pipelineEnv wires the repository, storage, and processing service
// against the test containers.
type pipelineEnv struct {
	repo       repository.ExportRepository
	s3         storage.S3Service
	processing ProcessingService
}

func setupPipeline(t *testing.T, tc *TestContainer) *pipelineEnv {
	t.Helper()

	db, err := sql.Open("postgres", tc.dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runMigrations(t, db)

	repo := postgres.NewPostgresExportRepository(db)

	s3Service, err := storage.NewS3Service(storage.S3Config{
		Bucket:    tc.bucketName,
		Endpoint:  tc.minioURL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	prov := ncgrid.Provenance{
		Description: "Bathymetric data for XBeach",
		Author:      "integration-test",
		Owner:       "Nearshore Modeling Group",
		Software:    "wavedeck test",
		Library:     "bitbucket.org/ctessum/cdf",
		Source:      "service_test",
	}

	return &pipelineEnv{
		repo:       repo,
		s3:         s3Service,
		processing: NewProcessingService(s3Service, repo, prov),
	}
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()

	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_create_exports.up.sql"))
	require.NoError(t, err)

	_, err = db.Exec(string(schema))
	require.NoError(t, err)
}

// createExport inserts an export row and, when payload is non-nil,
// uploads its JSON encoding the way a client would through the
// pre-signed URL.
func createExport(t *testing.T, env *pipelineEnv, kind, format string, netcdf bool, payload interface{}) *models.Export {
	t.Helper()
	ctx := context.Background()

	export := &models.Export{
		ID:        uuid.New().String(),
		Kind:      kind,
		Format:    format,
		NetCDF:    netcdf,
		Status:    "uploaded",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)

		key := storage.PayloadKey(export.ID)
		require.NoError(t, env.s3.UploadFile(ctx, key, "application/json", data))
		export.PayloadKey = &key
	}

	require.NoError(t, env.repo.Create(ctx, export))
	return export
}

// TestSpectrumPipeline_Integration renders a SWAN boundary deck end to end
func TestSpectrumPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)

	ctx := context.Background()
	env := setupPipeline(t, tc)

	spectrum := models.Spectrum{
		Frequencies: []float64{0.05, 0.10},
		Energy:      [][]float64{{1.5}, {0.25}},
		Locations:   []models.Location{{X: 0, Y: 10}},
	}
	export := createExport(t, env, "spectrum", "swan", false, spectrum)

	exportID, err := uuid.Parse(export.ID)
	require.NoError(t, err)
	require.NoError(t, env.processing.ProcessExport(ctx, exportID))

	final, err := env.repo.GetByID(ctx, exportID)
	require.NoError(t, err)
	assert.Equal(t, "completed", final.Status)
	assert.Equal(t, 100, final.Progress)
	assert.NotNil(t, final.CompletedAt)
	require.Equal(t, []string{"exports/" + export.ID + "/bc.txt"}, final.ArtifactKeys)
	assert.Nil(t, final.NX)
	assert.Nil(t, final.NY)

	// The stored artifact is the rendered deck
	data, err := env.s3.DownloadFile(ctx, final.ArtifactKeys[0])
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "SWAN 1\n"), "deck should start with the SWAN header")
	assert.Contains(t, text, "RFREQ")
	assert.Contains(t, text, "  0.05000000")
	assert.NotContains(t, text, "NDIR")
}

// TestBathymetryPipeline_Integration renders the grid trio plus the netCDF mirror
func TestBathymetryPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)

	ctx := context.Background()
	env := setupPipeline(t, tc)

	bathy := models.Bathymetry{
		X: [][]float64{{0, 5, 10}, {0, 5, 10}},
		Y: [][]float64{{0, 0, 0}, {5, 5, 5}},
		Z: [][]float64{{1, 2, 3}, {4, 5, 6}},
	}
	export := createExport(t, env, "bathymetry", "", true, bathy)

	exportID, err := uuid.Parse(export.ID)
	require.NoError(t, err)
	require.NoError(t, env.processing.ProcessExport(ctx, exportID))

	final, err := env.repo.GetByID(ctx, exportID)
	require.NoError(t, err)
	assert.Equal(t, "completed", final.Status)
	assert.Equal(t, 100, final.Progress)

	wantKeys := []string{
		"exports/" + export.ID + "/x.grd",
		"exports/" + export.ID + "/y.grd",
		"exports/" + export.ID + "/z.dep",
		"exports/" + export.ID + "/depth.nc",
	}
	assert.Equal(t, wantKeys, final.ArtifactKeys)

	require.NotNil(t, final.NX)
	require.NotNil(t, final.NY)
	assert.Equal(t, 2, *final.NX)
	assert.Equal(t, 1, *final.NY)

	// The mirror survives the round trip as a readable netCDF file
	data, err := env.s3.DownloadFile(ctx, wantKeys[3])
	require.NoError(t, err)
	mirror := filepath.Join(t.TempDir(), ncgrid.DepthFile)
	require.NoError(t, os.WriteFile(mirror, data, 0o644))
	f, err := os.Open(mirror)
	require.NoError(t, err)
	defer f.Close()
	nc, err := cdf.Open(f)
	require.NoError(t, err)
	assert.Contains(t, nc.Header.Variables(), "h")
}

// TestExportPipelineFailure_Integration tests error handling in the pipeline
func TestExportPipelineFailure_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)

	ctx := context.Background()
	env := setupPipeline(t, tc)

	t.Run("missing payload object", func(t *testing.T) {
		missingKey := storage.PayloadKey(uuid.New().String())
		export := &models.Export{
			ID:         uuid.New().String(),
			Kind:       "spectrum",
			Format:     "swan",
			Status:     "uploaded",
			PayloadKey: &missingKey,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		require.NoError(t, env.repo.Create(ctx, export))

		exportID, err := uuid.Parse(export.ID)
		require.NoError(t, err)

		// ProcessExport itself shouldn't error, but status should be failed
		require.NoError(t, env.processing.ProcessExport(ctx, exportID))

		final, err := env.repo.GetByID(ctx, exportID)
		require.NoError(t, err)
		assert.Equal(t, "failed", final.Status)
		require.NotNil(t, final.ErrorMsg)
		assert.Equal(t, "Failed to download payload", *final.ErrorMsg)
	})

	t.Run("malformed payload", func(t *testing.T) {
		cube := json.RawMessage(`{"frequencies":[0.05],"energy":[[[1.0]]]}`)
		export := createExport(t, env, "spectrum", "swan", false, cube)

		exportID, err := uuid.Parse(export.ID)
		require.NoError(t, err)
		require.NoError(t, env.processing.ProcessExport(ctx, exportID))

		final, err := env.repo.GetByID(ctx, exportID)
		require.NoError(t, err)
		assert.Equal(t, "failed", final.Status)
		require.NotNil(t, final.ErrorMsg)
		assert.Contains(t, *final.ErrorMsg, "Rendering failed")
	})
}
