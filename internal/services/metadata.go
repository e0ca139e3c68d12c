package services

import (
	"time"

	"github.com/google/uuid"

	"agentdms/admin-api/internal/models"
)

// DefaultFieldKind identifies which derivation rule applies to a default
// field. Dispatching on the kind rather than the display name keeps value
// derivation independent of what the field is called in the UI.
type DefaultFieldKind int

const (
	KindUnknown DefaultFieldKind = iota
	KindFilename
	KindDateCreated
	KindDateModified
)

// DefaultKindOf maps a field definition to its derivation rule. Non-default
// fields and names with no rule are KindUnknown.
func DefaultKindOf(field models.CustomField) DefaultFieldKind {
	if !field.IsDefault {
		return KindUnknown
	}

	switch field.Name {
	case "Filename":
		return KindFilename
	case "Date Created":
		return KindDateCreated
	case "Date Modified":
		return KindDateModified
	default:
		return KindUnknown
	}
}

// MetadataBinder derives values for a project's default fields at upload
// time.
type MetadataBinder struct {
	now func() time.Time
}

func NewMetadataBinder() *MetadataBinder {
	return &MetadataBinder{now: time.Now}
}

// Bind produces one field value per default field that has a derivation rule.
// Fields without a rule are skipped, not errored.
func (b *MetadataBinder) Bind(document *models.Document, originalName string, fields []models.CustomField) []models.DocumentFieldValue {
	createdAt := b.now()
	values := make([]models.DocumentFieldValue, 0, len(fields))

	for _, field := range fields {
		var value string

		switch DefaultKindOf(field) {
		case KindFilename:
			value = originalName
		case KindDateCreated, KindDateModified:
			value = createdAt.Format("2006-01-02")
		default:
			continue
		}

		values = append(values, models.DocumentFieldValue{
			ID:            uuid.New(),
			DocumentID:    document.ID,
			CustomFieldID: field.ID,
			Value:         value,
			CreatedAt:     createdAt,
			ModifiedAt:    createdAt,
		})
	}

	return values
}
