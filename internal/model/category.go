package model

import (
	"time"

	"gorm.io/gorm"
)

// Category represents a catalog category a video or genre can be filed under
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// TableName returns the table name for Category
func (Category) TableName() string {
	return "categories"
}

// Key returns the primary key
func (c *Category) Key() uint {
	return c.ID
}
