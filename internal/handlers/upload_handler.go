package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"agentdms/admin-api/internal/models"
	"agentdms/admin-api/internal/repositories"
	"agentdms/admin-api/internal/services"
)

type UploadHandler struct {
	validator   services.ValidatorService
	storage     services.StorageService
	jobs        services.JobStore
	projectRepo repositories.ProjectRepository
	worker      services.Worker
	permissions services.PermissionChecker
}

func NewUploadHandler(
	validator services.ValidatorService,
	storage services.StorageService,
	jobs services.JobStore,
	projectRepo repositories.ProjectRepository,
	worker services.Worker,
	permissions services.PermissionChecker,
) *UploadHandler {
	return &UploadHandler{
		validator:   validator,
		storage:     storage,
		jobs:        jobs,
		projectRepo: projectRepo,
		worker:      worker,
		permissions: permissions,
	}
}

// HandleUpload handles POST /upload. It validates, stores the bytes and
// registers the job synchronously; everything else happens on the worker
// pool, observed by polling the status and result endpoints.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	if !h.permissions.HasPermission(c, services.PermissionDocumentEdit) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied. Insufficient permissions.",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	projectIDParam := c.FormValue("project_id")
	if projectIDParam == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "project_id is required",
		})
	}

	projectID, err := uuid.Parse(projectIDParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project_id format",
		})
	}

	if err := h.validator.Validate(file.Filename, file.Size); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if _, err := h.projectRepo.FindByID(projectID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	storedName, storagePath, err := h.storage.SaveFile(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save file: %v", err),
		})
	}

	job := h.jobs.Create(file.Filename, file.Size)

	if err := h.worker.Enqueue(services.JobDescriptor{
		JobID:        job.ID,
		ProjectID:    projectID,
		StoredName:   storedName,
		StoragePath:  storagePath,
		OriginalName: file.Filename,
		FileSize:     file.Size,
	}); err != nil {
		h.jobs.Fail(job.ID, fmt.Sprintf("could not queue job: %v", err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Server is busy. Try again later.",
		})
	}

	return c.JSON(models.UploadResponse{
		JobID:    job.ID.String(),
		FileName: job.FileName,
		FileSize: job.FileSize,
		Status:   string(job.Status),
		Message:  "File uploaded successfully. Processing started.",
	})
}
