package models

import "time"

type Event struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;not null" json:"description"`
	Date        time.Time `gorm:"column:date;not null;index" json:"date"`
	Time        string    `gorm:"column:time;not null" json:"time"`
	Location    string    `gorm:"column:location;not null" json:"location"`
	Category    string    `gorm:"column:category;not null;index" json:"category"`
	Organizer   string    `gorm:"column:organizer;not null" json:"organizer"`
	Image       string    `gorm:"column:image;not null" json:"image"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Event) TableName() string { return "events" }
