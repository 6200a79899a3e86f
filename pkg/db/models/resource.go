package models

import (
	"time"

	"gorm.io/datatypes"
)

// Resource is a study material shared with a class.
type Resource struct {
	ID           uint                          `gorm:"column:id;primaryKey" json:"id"`
	Title        string                        `gorm:"column:title;not null" json:"title"`
	Subject      string                        `gorm:"column:subject;not null;index" json:"subject"`
	ClassName    string                        `gorm:"column:class_name;not null;index" json:"className"`
	Category     string                        `gorm:"column:category;not null;index" json:"category"`
	Teacher      string                        `gorm:"column:teacher;not null" json:"teacher"`
	Description  string                        `gorm:"column:description;not null" json:"description"`
	Files        datatypes.JSONSlice[string]   `gorm:"column:files;type:jsonb;not null" json:"files"`
	FileMetadata datatypes.JSONSlice[FileMeta] `gorm:"column:file_metadata;type:jsonb;not null" json:"fileMetadata"`
	CreatedAt    time.Time                     `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time                     `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Resource) TableName() string { return "resources" }
