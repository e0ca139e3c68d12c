package models

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	FileName    string    `gorm:"type:text;not null" json:"file_name"`
	StoragePath string    `gorm:"type:text;not null" json:"storage_path"`
	MimeType    string    `gorm:"type:text" json:"mime_type"`
	FileSize    int64     `gorm:"not null" json:"file_size"`
	CreatedAt   time.Time `gorm:"type:timestamp" json:"created_at"`
	ModifiedAt  time.Time `gorm:"type:timestamp" json:"modified_at"`

	FieldValues []DocumentFieldValue `gorm:"foreignKey:DocumentID" json:"field_values,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

type DocumentFieldValue struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DocumentID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_document_field" json:"document_id"`
	CustomFieldID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_field" json:"custom_field_id"`
	Value         string    `gorm:"type:text" json:"value"`
	CreatedAt     time.Time `gorm:"type:timestamp" json:"created_at"`
	ModifiedAt    time.Time `gorm:"type:timestamp" json:"modified_at"`
}

func (DocumentFieldValue) TableName() string {
	return "document_field_values"
}
