package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agentdms/admin-api/internal/models"
)

type ProjectRepository interface {
	Create(project *models.Project) error
	FindByID(id uuid.UUID) (*models.Project, error)
	EnsureDefaultFields(projectID uuid.UUID) ([]models.CustomField, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// defaultFieldSeeds are the fields every project carries. They are
// auto-populated at upload time and cannot be removed.
var defaultFieldSeeds = []models.CustomField{
	{Name: "Filename", FieldType: models.FieldTypeText, Order: 0},
	{Name: "Date Created", FieldType: models.FieldTypeDate, Order: 1},
	{Name: "Date Modified", FieldType: models.FieldTypeDate, Order: 2},
}

// Create implements ProjectRepository.
func (p *projectRepository) Create(project *models.Project) error {
	if err := p.db.Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// FindByID implements ProjectRepository.
func (p *projectRepository) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := p.db.Where("id = ?", id).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("project not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return &project, nil
}

// EnsureDefaultFields seeds the default fields for a project, skipping any
// that already exist. Calling it repeatedly never duplicates a field. It
// returns the project's default fields in display order.
func (p *projectRepository) EnsureDefaultFields(projectID uuid.UUID) ([]models.CustomField, error) {
	err := p.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.CustomField
		if err := tx.Where("project_id = ? AND is_default = ?", projectID, true).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load default fields: %w", err)
		}

		present := make(map[string]bool, len(existing))
		for _, field := range existing {
			present[field.Name] = true
		}

		now := time.Now()
		for _, seed := range defaultFieldSeeds {
			if present[seed.Name] {
				continue
			}

			field := models.CustomField{
				ID:             uuid.New(),
				ProjectID:      projectID,
				Name:           seed.Name,
				FieldType:      seed.FieldType,
				IsRequired:     true,
				IsDefault:      true,
				Order:          seed.Order,
				RoleVisibility: "all",
				IsRemovable:    false,
				CreatedAt:      now,
				ModifiedAt:     now,
			}
			if err := tx.Create(&field).Error; err != nil {
				return fmt.Errorf("failed to seed default field %q: %w", seed.Name, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var fields []models.CustomField
	if err := p.db.
		Where("project_id = ? AND is_default = ?", projectID, true).
		Order("field_order ASC").
		Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("failed to load default fields: %w", err)
	}

	return fields, nil
}
