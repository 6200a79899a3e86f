package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document is an official school publication (fee structures, policies, ...).
type Document struct {
	ID           uint                          `gorm:"column:id;primaryKey" json:"id"`
	Title        string                        `gorm:"column:title;not null" json:"title"`
	Category     string                        `gorm:"column:category;not null;index" json:"category"`
	Year         int                           `gorm:"column:year;not null;index" json:"year"`
	Description  string                        `gorm:"column:description;not null" json:"description"`
	Files        datatypes.JSONSlice[string]   `gorm:"column:files;type:jsonb;not null" json:"files"`
	FileMetadata datatypes.JSONSlice[FileMeta] `gorm:"column:file_metadata;type:jsonb;not null" json:"fileMetadata"`
	CreatedAt    time.Time                     `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time                     `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Document) TableName() string { return "documents" }
