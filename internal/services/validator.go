package services

import (
	"fmt"
	"path/filepath"
	"strings"
)

// supportedExtensions is the upload allow-list, in display order.
var supportedExtensions = []string{
	".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".pdf", ".webp",
}

type ValidatorService interface {
	Validate(fileName string, size int64) error
	SupportedFormats() []string
	MaxFileSize() int64
}

type validatorService struct {
	maxFileSize int64
	supported   map[string]bool
}

func NewValidatorService(maxFileSize int64) ValidatorService {
	supported := make(map[string]bool, len(supportedExtensions))
	for _, ext := range supportedExtensions {
		supported[ext] = true
	}

	return &validatorService{
		maxFileSize: maxFileSize,
		supported:   supported,
	}
}

// Validate checks extension and size only. It runs before any disk write and
// has no side effects.
func (v *validatorService) Validate(fileName string, size int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !v.supported[ext] {
		return fmt.Errorf(
			"unsupported file extension %q. Supported formats: %s",
			ext, strings.Join(supportedExtensions, ", "),
		)
	}

	if size > v.maxFileSize {
		return fmt.Errorf(
			"file too large: %d bytes exceeds the maximum of %d bytes",
			size, v.maxFileSize,
		)
	}

	return nil
}

func (v *validatorService) SupportedFormats() []string {
	formats := make([]string, len(supportedExtensions))
	copy(formats, supportedExtensions)
	return formats
}

func (v *validatorService) MaxFileSize() int64 {
	return v.maxFileSize
}
