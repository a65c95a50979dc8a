package model

import (
	"time"

	"gorm.io/gorm"
)

// Genre represents a video genre. A genre is filed under one or more categories.
type Genre struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	IsActive   bool           `gorm:"not null;index" json:"is_active"`
	Categories []Category     `gorm:"many2many:category_genre;" json:"categories,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// TableName returns the table name for Genre
func (Genre) TableName() string {
	return "genres"
}

// Key returns the primary key
func (g *Genre) Key() uint {
	return g.ID
}
