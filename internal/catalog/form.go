package catalog

import (
	"github.com/user/catalog-api/internal/model"
	"github.com/user/catalog-api/internal/relation"
)

// Form is a decoded request payload for entity type T. Its struct tags
// carry the field rules; once validated it supplies the entity to insert,
// the columns to update and the relation sets to sync.
type Form[T any] interface {
	Entity() *T
	Fields() Fields
	Links() relation.Links
}

// CategoryForm is the create/update payload of a category
type CategoryForm struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// Entity builds a new category; is_active defaults to true
func (f *CategoryForm) Entity() *model.Category {
	return &model.Category{
		Name:        f.Name,
		Description: f.Description,
		IsActive:    boolOr(f.IsActive, true),
	}
}

// Fields returns the columns to update; omitted optional fields are kept
func (f *CategoryForm) Fields() Fields {
	fields := Fields{"name": f.Name}
	if f.Description != nil {
		fields["description"] = *f.Description
	}
	if f.IsActive != nil {
		fields["is_active"] = *f.IsActive
	}
	return fields
}

// Links returns nil; categories own no relations
func (f *CategoryForm) Links() relation.Links {
	return nil
}

// CastMemberForm is the create/update payload of a cast member
type CastMemberForm struct {
	Name string `json:"name" validate:"required,max=255"`
	Type *int   `json:"type" validate:"required,oneof=1 2"`
}

func (f *CastMemberForm) Entity() *model.CastMember {
	return &model.CastMember{Name: f.Name, Type: model.CastMemberType(intOr(f.Type, 0))}
}

func (f *CastMemberForm) Fields() Fields {
	return Fields{"name": f.Name, "type": intOr(f.Type, 0)}
}

func (f *CastMemberForm) Links() relation.Links {
	return nil
}

// GenreForm is the create/update payload of a genre
type GenreForm struct {
	Name        string `json:"name" validate:"required,max=255"`
	IsActive    *bool  `json:"is_active"`
	CategoryIDs []uint `json:"category_id" validate:"required,min=1,exists=categories"`
}

func (f *GenreForm) Entity() *model.Genre {
	return &model.Genre{Name: f.Name, IsActive: boolOr(f.IsActive, true)}
}

func (f *GenreForm) Fields() Fields {
	fields := Fields{"name": f.Name}
	if f.IsActive != nil {
		fields["is_active"] = *f.IsActive
	}
	return fields
}

func (f *GenreForm) Links() relation.Links {
	return relation.Links{CategoryIDs: f.CategoryIDs}
}

// VideoForm is the create/update payload of a video
type VideoForm struct {
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description" validate:"required"`
	YearLaunched *int   `json:"year_launched" validate:"required,year"`
	Opened       *bool  `json:"opened"`
	Rating       string `json:"rating" validate:"required,oneof=L 10 12 14 16 18"`
	Duration     *int   `json:"duration" validate:"required,min=0"`
	CategoryIDs  []uint `json:"category_id" validate:"required,min=1,exists=categories"`
	GenreIDs     []uint `json:"genre_id" validate:"required,min=1,exists=genres"`
}

// Entity builds a new video; opened defaults to false
func (f *VideoForm) Entity() *model.Video {
	return &model.Video{
		Title:        f.Title,
		Description:  f.Description,
		YearLaunched: intOr(f.YearLaunched, 0),
		Opened:       boolOr(f.Opened, false),
		Rating:       model.Rating(f.Rating),
		Duration:     intOr(f.Duration, 0),
	}
}

func (f *VideoForm) Fields() Fields {
	fields := Fields{
		"title":         f.Title,
		"description":   f.Description,
		"year_launched": intOr(f.YearLaunched, 0),
		"rating":        f.Rating,
		"duration":      intOr(f.Duration, 0),
	}
	if f.Opened != nil {
		fields["opened"] = *f.Opened
	}
	return fields
}

func (f *VideoForm) Links() relation.Links {
	return relation.Links{
		CategoryIDs: f.CategoryIDs,
		GenreIDs:    f.GenreIDs,
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
