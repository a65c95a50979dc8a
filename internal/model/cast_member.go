package model

import (
	"time"

	"gorm.io/gorm"
)

// CastMemberType defines the role a cast member plays
type CastMemberType int

const (
	CastMemberDirector CastMemberType = 1
	CastMemberActor    CastMemberType = 2
)

// Valid reports whether t is a known cast member type
func (t CastMemberType) Valid() bool {
	return t == CastMemberDirector || t == CastMemberActor
}

// CastMember represents a person credited on videos
type CastMember struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Type      CastMemberType `gorm:"type:smallint;not null" json:"type"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// TableName returns the table name for CastMember
func (CastMember) TableName() string {
	return "cast_members"
}

// Key returns the primary key
func (m *CastMember) Key() uint {
	return m.ID
}
