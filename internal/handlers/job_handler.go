package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"agentdms/admin-api/internal/models"
	"agentdms/admin-api/internal/services"
)

type JobHandler struct {
	jobs        services.JobStore
	validator   services.ValidatorService
	permissions services.PermissionChecker
}

func NewJobHandler(
	jobs services.JobStore,
	validator services.ValidatorService,
	permissions services.PermissionChecker,
) *JobHandler {
	return &JobHandler{
		jobs:        jobs,
		validator:   validator,
		permissions: permissions,
	}
}

// HandleGetStatus handles GET /job/:id/status.
func (h *JobHandler) HandleGetStatus(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		// Ids are opaque tokens; anything unparseable was never issued.
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	job, err := h.jobs.Get(jobID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	return c.JSON(models.JobStatusResponse{
		JobID:        job.ID.String(),
		Status:       string(job.Status),
		CreatedAt:    job.CreatedAt,
		ErrorMessage: job.ErrorMessage,
	})
}

// HandleGetResult handles GET /job/:id/result. The result is only available
// once the job has completed; polling earlier reports the current status.
func (h *JobHandler) HandleGetResult(c *fiber.Ctx) error {
	if !h.permissions.HasPermission(c, services.PermissionDocumentView) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied. Insufficient permissions.",
		})
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	result, err := h.jobs.Result(jobID)
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}

		var notReady *services.NotReadyError
		if errors.As(err, &notReady) {
			job, getErr := h.jobs.Get(jobID)
			if getErr == nil && job.Status == models.StatusFailed {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":  job.ErrorMessage,
					"status": string(job.Status),
				})
			}

			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  notReady.Error(),
				"status": string(notReady.Status),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load job result",
		})
	}

	return c.JSON(result)
}

// HandleGetSupportedFormats handles GET /supported-formats.
func (h *JobHandler) HandleGetSupportedFormats(c *fiber.Ctx) error {
	return c.JSON(models.SupportedFormatsResponse{
		SupportedFormats: h.validator.SupportedFormats(),
		MaxFileSize:      h.validator.MaxFileSize(),
	})
}
