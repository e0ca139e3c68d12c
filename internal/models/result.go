package models

import "time"

type UploadResponse struct {
	JobID    string `json:"job_id"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

type JobStatusResponse struct {
	JobID        string    `json:"job_id"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

type SupportedFormatsResponse struct {
	SupportedFormats []string `json:"supported_formats"`
	MaxFileSize      int64    `json:"max_file_size"`
}
