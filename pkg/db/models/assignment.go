package models

import (
	"time"

	"gorm.io/datatypes"
)

type Assignment struct {
	ID              uint                        `gorm:"column:id;primaryKey" json:"id"`
	Title           string                      `gorm:"column:title;not null" json:"title"`
	Subject         string                      `gorm:"column:subject;not null;index" json:"subject"`
	ClassName       string                      `gorm:"column:class_name;not null;index" json:"className"`
	Teacher         string                      `gorm:"column:teacher;not null" json:"teacher"`
	DueDate         time.Time                   `gorm:"column:due_date;not null" json:"dueDate"`
	Description     string                      `gorm:"column:description;not null" json:"description"`
	Instructions    string                      `gorm:"column:instructions;not null" json:"instructions"`
	Status          string                      `gorm:"column:status;not null;index" json:"status"`
	AssignmentFiles datatypes.JSONSlice[string] `gorm:"column:assignment_files;type:jsonb;not null" json:"assignmentFiles"`
	Attachments     datatypes.JSONSlice[string] `gorm:"column:attachments;type:jsonb;not null" json:"attachments"`
	CreatedAt       time.Time                   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Assignment) TableName() string { return "assignments" }
