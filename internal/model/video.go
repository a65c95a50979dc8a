package model

import (
	"time"

	"gorm.io/gorm"
)

// Rating defines the age rating of a video
type Rating string

const (
	RatingFree Rating = "L"
	Rating10   Rating = "10"
	Rating12   Rating = "12"
	Rating14   Rating = "14"
	Rating16   Rating = "16"
	Rating18   Rating = "18"
)

// RatingList lists every accepted rating, youngest audience first
var RatingList = []Rating{RatingFree, Rating10, Rating12, Rating14, Rating16, Rating18}

// Join tables owned by catalog entities. Each holds only the paired foreign keys.
const (
	CategoryVideoTable = "category_video"
	GenreVideoTable    = "genre_video"
	CategoryGenreTable = "category_genre"
)

// Video represents a catalog video with its category and genre links
type Video struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	YearLaunched int            `gorm:"type:smallint;not null" json:"year_launched"`
	Opened       bool           `gorm:"not null" json:"opened"`
	Rating       Rating         `gorm:"size:3;not null" json:"rating"`
	Duration     int            `gorm:"not null" json:"duration"`
	Categories   []Category     `gorm:"many2many:category_video;" json:"categories,omitempty"`
	Genres       []Genre        `gorm:"many2many:genre_video;" json:"genres,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// TableName returns the table name for Video
func (Video) TableName() string {
	return "videos"
}

// Key returns the primary key
func (v *Video) Key() uint {
	return v.ID
}

// CategoryIDs returns the IDs of the loaded categories
func (v *Video) CategoryIDs() []uint {
	ids := make([]uint, 0, len(v.Categories))
	for _, c := range v.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// GenreIDs returns the IDs of the loaded genres
func (v *Video) GenreIDs() []uint {
	ids := make([]uint, 0, len(v.Genres))
	for _, g := range v.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}
