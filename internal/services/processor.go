package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"agentdms/admin-api/internal/models"
	"agentdms/admin-api/internal/repositories"
)

// JobDescriptor carries everything a worker needs to drive one upload
// through processing.
type JobDescriptor struct {
	JobID        uuid.UUID
	ProjectID    uuid.UUID
	StoredName   string
	StoragePath  string
	OriginalName string
	FileSize     int64
}

type ProcessorService interface {
	ProcessUpload(ctx context.Context, job JobDescriptor) error
}

type processorService struct {
	jobs         JobStore
	docRepo      repositories.DocumentRepository
	projectRepo  repositories.ProjectRepository
	imageService ImageService
	binder       *MetadataBinder
	timeout      time.Duration
}

func NewProcessorService(
	jobs JobStore,
	docRepo repositories.DocumentRepository,
	projectRepo repositories.ProjectRepository,
	imageService ImageService,
	binder *MetadataBinder,
	timeout time.Duration,
) ProcessorService {
	return &processorService{
		jobs:         jobs,
		docRepo:      docRepo,
		projectRepo:  projectRepo,
		imageService: imageService,
		binder:       binder,
		timeout:      timeout,
	}
}

// ProcessUpload drives one job through Processing → Completed/Failed.
// Inspection never fails the job; persistence failures and timeouts do.
func (p *processorService) ProcessUpload(ctx context.Context, job JobDescriptor) error {
	if err := p.jobs.MarkProcessing(job.JobID); err != nil {
		return fmt.Errorf("failed to start processing: %w", err)
	}

	log.Printf("🔄 Processing job %s (%s)\n", job.JobID, job.OriginalName)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// The decode runs on its own goroutine so a timeout can abandon it. The
	// native call itself is not preempted; it runs to completion and its
	// result is discarded.
	processed, err := p.processWithTimeout(ctx, job)
	if err != nil {
		p.jobs.Fail(job.JobID, "processing timed out")
		return fmt.Errorf("job %s: %w", job.JobID, err)
	}

	fields, err := p.projectRepo.EnsureDefaultFields(job.ProjectID)
	if err != nil {
		p.jobs.Fail(job.JobID, fmt.Sprintf("failed to prepare default fields: %v", err))
		return fmt.Errorf("job %s: %w", job.JobID, err)
	}

	now := time.Now()
	document := &models.Document{
		ID:          uuid.New(),
		ProjectID:   job.ProjectID,
		FileName:    job.OriginalName,
		StoragePath: job.StoragePath,
		MimeType:    processed.MimeType,
		FileSize:    job.FileSize,
		CreatedAt:   now,
		ModifiedAt:  now,
	}

	values := p.binder.Bind(document, job.OriginalName, fields)

	if err := p.docRepo.CreateWithFieldValues(document, values); err != nil {
		p.jobs.Fail(job.JobID, fmt.Sprintf("failed to persist document: %v", err))
		return fmt.Errorf("job %s: %w", job.JobID, err)
	}

	result := &models.ProcessingResult{
		Success:        true,
		JobID:          job.JobID.String(),
		ProcessedImage: processed,
		ProcessingTime: time.Since(start).String(),
		Message:        "File processed successfully",
	}

	if err := p.jobs.Complete(job.JobID, result); err != nil {
		return fmt.Errorf("job %s: %w", job.JobID, err)
	}

	log.Printf("✅ Job %s completed in %s\n", job.JobID, result.ProcessingTime)
	return nil
}

func (p *processorService) processWithTimeout(ctx context.Context, job JobDescriptor) (*models.ProcessedImage, error) {
	done := make(chan *models.ProcessedImage, 1)

	go func() {
		done <- p.imageService.Process(ctx, job.StoredName, job.StoragePath)
	}()

	select {
	case processed := <-done:
		return processed, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("processing timed out after %s: %w", p.timeout, ctx.Err())
	}
}
