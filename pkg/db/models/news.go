package models

import "time"

type News struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Excerpt   string    `gorm:"column:excerpt;not null" json:"excerpt"`
	Content   string    `gorm:"column:content;not null" json:"content"`
	Date      time.Time `gorm:"column:date;not null;index" json:"date"`
	Category  string    `gorm:"column:category;not null;index" json:"category"`
	Author    string    `gorm:"column:author;not null" json:"author"`
	Featured  bool      `gorm:"column:featured;not null" json:"featured"`
	Image     string    `gorm:"column:image;not null" json:"image"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (News) TableName() string { return "news" }
