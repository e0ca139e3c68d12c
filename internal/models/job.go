package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusUploaded   JobStatus = "Uploaded"
	StatusProcessing JobStatus = "Processing"
	StatusCompleted  JobStatus = "Completed"
	StatusFailed     JobStatus = "Failed"
)

// IsTerminal reports whether a job in this status may never transition again.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ProcessingJob tracks one upload through its lifecycle. Jobs live in memory
// only; a restart forgets them.
type ProcessingJob struct {
	ID           uuid.UUID         `json:"job_id"`
	FileName     string            `json:"file_name"`
	FileSize     int64             `json:"file_size"`
	Status       JobStatus         `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	Result       *ProcessingResult `json:"result,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// ProcessedImage is the immutable outcome of inspecting and transcoding one
// stored upload. Degraded is set when the file could not be read as an image;
// the identity fields are still filled in.
type ProcessedImage struct {
	FileName       string `json:"file_name"`
	StoragePath    string `json:"storage_path"`
	ThumbnailPath  string `json:"thumbnail_path,omitempty"`
	ConvertedPath  string `json:"converted_path,omitempty"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	FileSize       int64  `json:"file_size"`
	OriginalFormat string `json:"original_format"`
	MimeType       string `json:"mime_type"`
	IsMultiPage    bool   `json:"is_multi_page"`
	PageCount      int    `json:"page_count"`
	Degraded       bool   `json:"degraded"`
}

type ProcessingResult struct {
	Success        bool            `json:"success"`
	JobID          string          `json:"job_id"`
	ProcessedImage *ProcessedImage `json:"processed_image,omitempty"`
	ProcessingTime string          `json:"processing_time"`
	Message        string          `json:"message"`
}
