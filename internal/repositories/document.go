package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agentdms/admin-api/internal/models"
)

type DocumentRepository interface {
	CreateWithFieldValues(document *models.Document, values []models.DocumentFieldValue) error
	FindByID(id uuid.UUID) (*models.Document, error)
	FindFieldValues(documentID uuid.UUID) ([]models.DocumentFieldValue, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// CreateWithFieldValues writes the document and its field values as one
// transaction. A failure anywhere rolls back everything; a document row never
// exists without its default field values.
func (d *documentRepository) CreateWithFieldValues(document *models.Document, values []models.DocumentFieldValue) error {
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(document).Error; err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}

		for i := range values {
			values[i].DocumentID = document.ID
		}

		if len(values) > 0 {
			if err := tx.Create(&values).Error; err != nil {
				return fmt.Errorf("failed to create field values: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist document %q: %w", document.FileName, err)
	}

	return nil
}

// FindByID implements DocumentRepository.
func (d *documentRepository) FindByID(id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := d.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("document not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// FindFieldValues implements DocumentRepository.
func (d *documentRepository) FindFieldValues(documentID uuid.UUID) ([]models.DocumentFieldValue, error) {
	var values []models.DocumentFieldValue
	if err := d.db.Where("document_id = ?", documentID).Find(&values).Error; err != nil {
		return nil, fmt.Errorf("failed to find field values: %w", err)
	}

	return values, nil
}
