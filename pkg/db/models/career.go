package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Career is a job vacancy advertised by the school.
type Career struct {
	ID             uint                `gorm:"column:id;primaryKey" json:"id"`
	Title          string              `gorm:"column:title;not null" json:"title"`
	Department     string              `gorm:"column:department;not null;index" json:"department"`
	EmploymentType string              `gorm:"column:employment_type;not null;index" json:"employmentType"`
	Location       string              `gorm:"column:location;not null" json:"location"`
	Description    string              `gorm:"column:description;not null" json:"description"`
	Requirements   string              `gorm:"column:requirements;not null" json:"requirements"`
	Deadline       time.Time           `gorm:"column:deadline;not null" json:"deadline"`
	SalaryMin      decimal.NullDecimal `gorm:"column:salary_min;type:numeric(12,2)" json:"salaryMin"`
	SalaryMax      decimal.NullDecimal `gorm:"column:salary_max;type:numeric(12,2)" json:"salaryMax"`
	Status         string              `gorm:"column:status;not null;index" json:"status"`
	ReferenceCode  *string             `gorm:"column:reference_code;uniqueIndex" json:"referenceCode"`
	JobDescription string              `gorm:"column:job_description;not null" json:"jobDescription"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Career) TableName() string { return "careers" }
