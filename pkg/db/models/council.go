package models

import "time"

type CouncilMember struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Position     string    `gorm:"column:position;not null" json:"position"`
	ClassName    string    `gorm:"column:class_name;not null" json:"className"`
	Term         string    `gorm:"column:term;not null;index" json:"term"`
	Bio          string    `gorm:"column:bio;not null" json:"bio"`
	DisplayOrder int       `gorm:"column:display_order;not null" json:"displayOrder"`
	Image        string    `gorm:"column:image;not null" json:"image"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (CouncilMember) TableName() string { return "student_council" }
