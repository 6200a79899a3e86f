package models

import "time"

type StaffMember struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Role           string    `gorm:"column:role;not null" json:"role"`
	Department     string    `gorm:"column:department;not null;index" json:"department"`
	Email          *string   `gorm:"column:email;uniqueIndex" json:"email"`
	Phone          string    `gorm:"column:phone;not null" json:"phone"`
	Bio            string    `gorm:"column:bio;not null" json:"bio"`
	Qualifications string    `gorm:"column:qualifications;not null" json:"qualifications"`
	DisplayOrder   int       `gorm:"column:display_order;not null" json:"displayOrder"`
	Image          string    `gorm:"column:image;not null" json:"image"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (StaffMember) TableName() string { return "staff" }
