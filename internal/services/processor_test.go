package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdms/admin-api/internal/models"
)

type fakeImageService struct {
	delay  time.Duration
	result *models.ProcessedImage
}

func (f *fakeImageService) Process(ctx context.Context, storedName, storagePath string) *models.ProcessedImage {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.result != nil {
		return f.result
	}
	return &models.ProcessedImage{FileName: storedName, StoragePath: storagePath, PageCount: 1}
}

type fakeDocumentRepository struct {
	saved    *models.Document
	values   []models.DocumentFieldValue
	saveErr  error
	findErr  error
	saveCall int
}

func (f *fakeDocumentRepository) CreateWithFieldValues(doc *models.Document, values []models.DocumentFieldValue) error {
	f.saveCall++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = doc
	f.values = values
	return nil
}

func (f *fakeDocumentRepository) FindByID(id uuid.UUID) (*models.Document, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.saved, nil
}

func (f *fakeDocumentRepository) FindFieldValues(documentID uuid.UUID) ([]models.DocumentFieldValue, error) {
	return f.values, nil
}

type fakeProjectRepository struct {
	fields    []models.CustomField
	ensureErr error
}

func (f *fakeProjectRepository) Create(project *models.Project) error { return nil }

func (f *fakeProjectRepository) FindByID(id uuid.UUID) (*models.Project, error) {
	return &models.Project{ID: id, Name: "Invoices"}, nil
}

func (f *fakeProjectRepository) EnsureDefaultFields(projectID uuid.UUID) ([]models.CustomField, error) {
	if f.ensureErr != nil {
		return nil, f.ensureErr
	}
	return f.fields, nil
}

func newTestProcessor(jobs JobStore, docRepo *fakeDocumentRepository, projectRepo *fakeProjectRepository, image ImageService, timeout time.Duration) ProcessorService {
	return NewProcessorService(jobs, docRepo, projectRepo, image, NewMetadataBinder(), timeout)
}

func descriptorFor(job *models.ProcessingJob) JobDescriptor {
	return JobDescriptor{
		JobID:        job.ID,
		ProjectID:    uuid.New(),
		StoredName:   "stored.png",
		StoragePath:  "/tmp/stored.png",
		OriginalName: job.FileName,
		FileSize:     job.FileSize,
	}
}

func TestProcessUploadCompletesJob(t *testing.T) {
	jobs := NewMemoryJobStore()
	job := jobs.Create("scan.png", 512)

	docRepo := &fakeDocumentRepository{}
	projectRepo := &fakeProjectRepository{fields: defaultFieldsFixture()}
	processor := newTestProcessor(jobs, docRepo, projectRepo, &fakeImageService{}, time.Minute)

	require.NoError(t, processor.ProcessUpload(context.Background(), descriptorFor(job)))

	got, err := jobs.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.True(t, got.Result.Success)
	assert.Equal(t, job.ID.String(), got.Result.JobID)

	// Exactly one document, one value per default field.
	require.NotNil(t, docRepo.saved)
	assert.Equal(t, 1, docRepo.saveCall)
	assert.Len(t, docRepo.values, 3)
	assert.Equal(t, "scan.png", docRepo.saved.FileName)
}

func TestProcessUploadDegradedResultStillCompletes(t *testing.T) {
	jobs := NewMemoryJobStore()
	job := jobs.Create("noise.png", 16)

	image := &fakeImageService{result: &models.ProcessedImage{
		FileName:  "stored.png",
		Degraded:  true,
		PageCount: 1,
	}}
	docRepo := &fakeDocumentRepository{}
	projectRepo := &fakeProjectRepository{fields: defaultFieldsFixture()}
	processor := newTestProcessor(jobs, docRepo, projectRepo, image, time.Minute)

	require.NoError(t, processor.ProcessUpload(context.Background(), descriptorFor(job)))

	got, err := jobs.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.True(t, got.Result.ProcessedImage.Degraded)
}

func TestProcessUploadThumbnailFailureStillCompletes(t *testing.T) {
	jobs := NewMemoryJobStore()
	job := jobs.Create("photo.png", 512)

	dir := t.TempDir()
	path := writeTestImage(t, dir, "stored.png", 64, 64)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "thumb_stored.png"), 0755))

	docRepo := &fakeDocumentRepository{}
	projectRepo := &fakeProjectRepository{fields: defaultFieldsFixture()}
	processor := newTestProcessor(jobs, docRepo, projectRepo, NewImageService(200), time.Minute)

	require.NoError(t, processor.ProcessUpload(context.Background(), JobDescriptor{
		JobID:        job.ID,
		ProjectID:    uuid.New(),
		StoredName:   "stored.png",
		StoragePath:  path,
		OriginalName: "photo.png",
		FileSize:     512,
	}))

	got, err := jobs.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Empty(t, got.Result.ProcessedImage.ThumbnailPath)
	assert.False(t, got.Result.ProcessedImage.Degraded)
	assert.Equal(t, 1, docRepo.saveCall)
}

func TestProcessUploadTimeoutFailsJob(t *testing.T) {
	jobs := NewMemoryJobStore()
	job := jobs.Create("slow.tiff", 1024)

	image := &fakeImageService{delay: 200 * time.Millisecond}
	docRepo := &fakeDocumentRepository{}
	projectRepo := &fakeProjectRepository{fields: defaultFieldsFixture()}
	processor := newTestProcessor(jobs, docRepo, projectRepo, image, 10*time.Millisecond)

	err := processor.ProcessUpload(context.Background(), descriptorFor(job))
	require.Error(t, err)

	got, getErr := jobs.Get(job.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Equal(t, "processing timed out", got.ErrorMessage)

	// Nothing was persisted for the abandoned job.
	assert.Equal(t, 0, docRepo.saveCall)
}

func TestProcessUploadPersistenceFailureFailsJob(t *testing.T) {
	jobs := NewMemoryJobStore()
	job := jobs.Create("scan.png", 512)

	docRepo := &fakeDocumentRepository{saveErr: errors.New("connection reset")}
	projectRepo := &fakeProjectRepository{fields: defaultFieldsFixture()}
	processor := newTestProcessor(jobs, docRepo, projectRepo, &fakeImageService{}, time.Minute)

	err := processor.ProcessUpload(context.Background(), descriptorFor(job))
	require.Error(t, err)

	got, getErr := jobs.Get(job.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Contains(t, got.ErrorMessage, "failed to persist document")
}

func TestProcessUploadDefaultFieldFailureFailsJob(t *testing.T) {
	jobs := NewMemoryJobStore()
	job := jobs.Create("scan.png", 512)

	docRepo := &fakeDocumentRepository{}
	projectRepo := &fakeProjectRepository{ensureErr: errors.New("database gone")}
	processor := newTestProcessor(jobs, docRepo, projectRepo, &fakeImageService{}, time.Minute)

	err := processor.ProcessUpload(context.Background(), descriptorFor(job))
	require.Error(t, err)

	got, getErr := jobs.Get(job.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Equal(t, 0, docRepo.saveCall)
}
