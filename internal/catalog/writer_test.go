package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/user/catalog-api/internal/config"
	"github.com/user/catalog-api/internal/model"
	"github.com/user/catalog-api/internal/relation"
	"github.com/user/catalog-api/internal/store"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory catalog with n live categories and n live
// genres, numbered 1..n
func setupTestDB(t *testing.T, n int) *gorm.DB {
	t.Helper()
	s, err := store.Open(&config.DBConfig{Driver: config.DriverSQLite, Path: ":memory:", MaxConns: 1})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	db := s.DB()
	for i := 0; i < n; i++ {
		if err := db.Create(&model.Category{Name: "category", IsActive: true}).Error; err != nil {
			t.Fatalf("failed to seed category: %v", err)
		}
		if err := db.Create(&model.Genre{Name: "genre", IsActive: true}).Error; err != nil {
			t.Fatalf("failed to seed genre: %v", err)
		}
	}
	return db
}

func newVideo(title string) *model.Video {
	return &model.Video{
		Title:        title,
		Description:  "description",
		YearLaunched: 2010,
		Rating:       model.Rating14,
		Duration:     90,
	}
}

func links(db *gorm.DB, t *testing.T, rel relation.Relation, ownerID uint) []uint {
	t.Helper()
	ids, err := relation.Current(db, rel, ownerID)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	return ids
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

func TestWriter_CreateVideoWithRelations(t *testing.T) {
	db := setupTestDB(t, 5)
	ctx := context.Background()
	res := VideosResource()
	w := NewWriter[model.Video](db, res)

	video, err := w.Create(ctx, newVideo("Title"), relation.Links{
		CategoryIDs: {1},
		GenreIDs:    {5},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if video.ID == 0 {
		t.Fatal("Create() returned video without id")
	}
	if got := video.CategoryIDs(); !reflect.DeepEqual(got, []uint{1}) {
		t.Errorf("reloaded categories = %v, want [1]", got)
	}
	if got := video.GenreIDs(); !reflect.DeepEqual(got, []uint{5}) {
		t.Errorf("reloaded genres = %v, want [5]", got)
	}
	if video.DeletedAt.Valid {
		t.Error("new video should not be soft-deleted")
	}
	if video.CreatedAt.IsZero() || video.UpdatedAt.IsZero() {
		t.Error("new video should carry timestamps")
	}

	if n := countRows(t, db, model.CategoryVideoTable); n != 1 {
		t.Errorf("%s has %d rows, want 1", model.CategoryVideoTable, n)
	}
	if n := countRows(t, db, model.GenreVideoTable); n != 1 {
		t.Errorf("%s has %d rows, want 1", model.GenreVideoTable, n)
	}
}

func TestWriter_UpdateReplacesRelationSet(t *testing.T) {
	db := setupTestDB(t, 3)
	ctx := context.Background()
	res := VideosResource()
	w := NewWriter[model.Video](db, res)
	cats, _ := res.Relation(CategoryIDs)

	video, err := w.Create(ctx, newVideo("Title"), relation.Links{CategoryIDs: {1, 2}, GenreIDs: {1}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := w.Update(ctx, video.ID, Fields{"title": "New title"}, relation.Links{CategoryIDs: {2, 3}, GenreIDs: {1}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Title != "New title" {
		t.Errorf("Title = %q, want %q", updated.Title, "New title")
	}
	if got := links(db, t, cats, video.ID); !reflect.DeepEqual(got, []uint{2, 3}) {
		t.Errorf("category links = %v, want [2 3]", got)
	}
	if got := updated.CategoryIDs(); !reflect.DeepEqual(got, []uint{2, 3}) {
		t.Errorf("reloaded categories = %v, want [2 3]", got)
	}
}

func TestWriter_UpdateKeepsOmittedRelations(t *testing.T) {
	db := setupTestDB(t, 3)
	ctx := context.Background()
	res := VideosResource()
	w := NewWriter[model.Video](db, res)
	genres, _ := res.Relation(GenreIDs)

	video, err := w.Create(ctx, newVideo("Title"), relation.Links{CategoryIDs: {1}, GenreIDs: {2, 3}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := w.Update(ctx, video.ID, Fields{"duration": 120}, relation.Links{CategoryIDs: {2}}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got := links(db, t, genres, video.ID); !reflect.DeepEqual(got, []uint{2, 3}) {
		t.Errorf("genre links = %v, want [2 3] untouched", got)
	}
}

func TestWriter_CreateRollsBackOnRelationFailure(t *testing.T) {
	db := setupTestDB(t, 2)
	ctx := context.Background()

	// The genre relation points at a join table that does not exist, so the
	// write fails after the scalar insert and the category sync.
	res := VideosResource()
	res.Relations[1].JoinTable = "missing_join"
	w := NewWriter[model.Video](db, res)

	before := countRows(t, db, "videos")

	_, err := w.Create(ctx, newVideo("Doomed"), relation.Links{CategoryIDs: {1, 2}, GenreIDs: {1}})
	if err == nil {
		t.Fatal("Create() expected error, got nil")
	}

	if after := countRows(t, db, "videos"); after != before {
		t.Errorf("videos count = %d after failed create, want %d", after, before)
	}
	if n := countRows(t, db, model.CategoryVideoTable); n != 0 {
		t.Errorf("%s has %d rows after failed create, want 0", model.CategoryVideoTable, n)
	}
}

func TestWriter_UpdateRollsBackOnRelationFailure(t *testing.T) {
	db := setupTestDB(t, 3)
	ctx := context.Background()
	res := VideosResource()
	cats, _ := res.Relation(CategoryIDs)

	video, err := NewWriter[model.Video](db, res).Create(ctx, newVideo("Original"), relation.Links{CategoryIDs: {1}, GenreIDs: {1}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	broken := VideosResource()
	broken.Relations[1].JoinTable = "missing_join"
	w := NewWriter[model.Video](db, broken)

	_, err = w.Update(ctx, video.ID, Fields{"title": "Changed", "duration": 5}, relation.Links{CategoryIDs: {2, 3}, GenreIDs: {2}})
	if err == nil {
		t.Fatal("Update() expected error, got nil")
	}

	var got model.Video
	if err := db.First(&got, video.ID).Error; err != nil {
		t.Fatalf("failed to read video: %v", err)
	}
	if got.Title != "Original" || got.Duration != 90 {
		t.Errorf("video after failed update = (%q, %d), want (%q, %d)", got.Title, got.Duration, "Original", 90)
	}
	if ids := links(db, t, cats, video.ID); !reflect.DeepEqual(ids, []uint{1}) {
		t.Errorf("category links after failed update = %v, want [1]", ids)
	}
}

func TestWriter_UpdateMissingOrTrashed(t *testing.T) {
	db := setupTestDB(t, 1)
	ctx := context.Background()
	w := NewWriter[model.Category](db, CategoriesResource())

	if _, err := w.Update(ctx, 999, Fields{"name": "x"}, nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update() missing error = %v, want ErrNotFound", err)
	}

	if err := store.NewRepository[model.Category](db).Delete(ctx, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := w.Update(ctx, 1, Fields{"name": "x"}, nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update() trashed error = %v, want ErrNotFound", err)
	}
}

func TestWriter_UnknownRelation(t *testing.T) {
	db := setupTestDB(t, 1)
	w := NewWriter[model.CastMember](db, CastMembersResource())

	member := &model.CastMember{Name: "Someone", Type: model.CastMemberActor}
	_, err := w.Create(context.Background(), member, relation.Links{GenreIDs: {1}})
	if !errors.Is(err, ErrUnknownRelation) {
		t.Fatalf("Create() error = %v, want ErrUnknownRelation", err)
	}
	if n := countRows(t, db, "cast_members"); n != 0 {
		t.Errorf("cast_members has %d rows, want 0", n)
	}
}

func TestWriter_GenreCategories(t *testing.T) {
	db := setupTestDB(t, 3)
	ctx := context.Background()
	w := NewWriter[model.Genre](db, GenresResource())

	genre, err := w.Create(ctx, &model.Genre{Name: "Thriller", IsActive: false}, relation.Links{CategoryIDs: {3}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if genre.IsActive {
		t.Error("IsActive = true, want false as submitted")
	}
	if len(genre.Categories) != 1 || genre.Categories[0].ID != 3 {
		t.Errorf("Categories = %v, want [3]", genre.Categories)
	}

	genre, err = w.Update(ctx, genre.ID, Fields{"is_active": true}, relation.Links{CategoryIDs: {1, 2}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !genre.IsActive {
		t.Error("IsActive = false after update, want true")
	}
	if len(genre.Categories) != 2 {
		t.Errorf("Categories = %v, want two", genre.Categories)
	}
}
