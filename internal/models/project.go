package models

import (
	"time"

	"github.com/google/uuid"
)

type CustomFieldType string

const (
	FieldTypeText     CustomFieldType = "Text"
	FieldTypeNumber   CustomFieldType = "Number"
	FieldTypeDate     CustomFieldType = "Date"
	FieldTypeBoolean  CustomFieldType = "Boolean"
	FieldTypeLongText CustomFieldType = "LongText"
	FieldTypeCurrency CustomFieldType = "Currency"
	FieldTypeUserList CustomFieldType = "UserList"
)

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	IsArchived  bool      `gorm:"default:false" json:"is_archived"`
	CreatedAt   time.Time `gorm:"type:timestamp" json:"created_at"`
	ModifiedAt  time.Time `gorm:"type:timestamp" json:"modified_at"`

	CustomFields []CustomField `gorm:"foreignKey:ProjectID" json:"custom_fields,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

type CustomField struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ProjectID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Name            string          `gorm:"type:text;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	FieldType       CustomFieldType `gorm:"type:text;not null" json:"field_type"`
	IsRequired      bool            `gorm:"default:false" json:"is_required"`
	IsDefault       bool            `gorm:"default:false" json:"is_default"`
	DefaultValue    string          `gorm:"type:text" json:"default_value"`
	Order           int             `gorm:"column:field_order;default:0" json:"order"`
	RoleVisibility  string          `gorm:"type:text;default:'all'" json:"role_visibility"`
	UserListOptions string          `gorm:"type:text" json:"user_list_options,omitempty"`
	IsRemovable     bool            `gorm:"default:true" json:"is_removable"`
	CreatedAt       time.Time       `gorm:"type:timestamp" json:"created_at"`
	ModifiedAt      time.Time       `gorm:"type:timestamp" json:"modified_at"`
}

func (CustomField) TableName() string {
	return "custom_fields"
}
