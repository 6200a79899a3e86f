package models

import (
	"time"

	"gorm.io/datatypes"
)

type Gallery struct {
	ID          uint                        `gorm:"column:id;primaryKey" json:"id"`
	Title       string                      `gorm:"column:title;not null" json:"title"`
	Description string                      `gorm:"column:description;not null" json:"description"`
	Category    string                      `gorm:"column:category;not null;index" json:"category"`
	Date        *time.Time                  `gorm:"column:date" json:"date"`
	Images      datatypes.JSONSlice[string] `gorm:"column:images;type:jsonb;not null" json:"images"`
	CreatedAt   time.Time                   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Gallery) TableName() string { return "galleries" }
