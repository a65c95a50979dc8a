package catalog

import (
	"github.com/user/catalog-api/internal/model"
	"github.com/user/catalog-api/internal/relation"
)

// Resource describes one entity type: its name, the relations it owns and
// the associations loaded when it is read back.
type Resource struct {
	Name      string
	Relations []relation.Relation
	Preloads  []string
}

// Relation looks up an owned relation by payload name
func (r Resource) Relation(name string) (relation.Relation, bool) {
	for _, rel := range r.Relations {
		if rel.Name == name {
			return rel, true
		}
	}
	return relation.Relation{}, false
}

// Relation payload names
const (
	CategoryIDs = "category_id"
	GenreIDs    = "genre_id"
)

// CategoriesResource describes categories
func CategoriesResource() Resource {
	return Resource{Name: "categories"}
}

// CastMembersResource describes cast members
func CastMembersResource() Resource {
	return Resource{Name: "cast_members"}
}

// GenresResource describes genres and their category links
func GenresResource() Resource {
	return Resource{
		Name: "genres",
		Relations: []relation.Relation{
			{
				Name:        CategoryIDs,
				JoinTable:   model.CategoryGenreTable,
				OwnerKey:    "genre_id",
				TargetKey:   "category_id",
				TargetTable: "categories",
			},
		},
		Preloads: []string{"Categories"},
	}
}

// VideosResource describes videos and their category and genre links
func VideosResource() Resource {
	return Resource{
		Name: "videos",
		Relations: []relation.Relation{
			{
				Name:        CategoryIDs,
				JoinTable:   model.CategoryVideoTable,
				OwnerKey:    "video_id",
				TargetKey:   "category_id",
				TargetTable: "categories",
			},
			{
				Name:        GenreIDs,
				JoinTable:   model.GenreVideoTable,
				OwnerKey:    "video_id",
				TargetKey:   "genre_id",
				TargetTable: "genres",
			},
		},
		Preloads: []string{"Categories", "Genres"},
	}
}
