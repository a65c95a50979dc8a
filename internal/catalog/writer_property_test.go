package catalog

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/user/catalog-api/internal/model"
	"github.com/user/catalog-api/internal/relation"
)

const seeded = 8

func genLinkSet() gopter.Gen {
	return gen.SliceOf(gen.UIntRange(1, seeded)).SuchThat(func(ids []uint) bool {
		return len(ids) > 0
	})
}

func expectedSet(ids []uint) []uint {
	seen := make(map[uint]bool)
	var out []uint
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Property: after any valid create the join rows equal the submitted sets
func TestProperty_CreateLinksEqualSubmitted(t *testing.T) {
	db := setupTestDB(t, seeded)
	res := VideosResource()
	w := NewWriter[model.Video](db, res)
	cats, _ := res.Relation(CategoryIDs)
	genres, _ := res.Relation(GenreIDs)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("join rows equal submitted ID sets", prop.ForAll(
		func(categoryIDs, genreIDs []uint) bool {
			video, err := w.Create(context.Background(), newVideo("Generated"), relation.Links{
				CategoryIDs: categoryIDs,
				GenreIDs:    genreIDs,
			})
			if err != nil {
				return false
			}

			gotCats, err := relation.Current(db, cats, video.ID)
			if err != nil {
				return false
			}
			gotGenres, err := relation.Current(db, genres, video.ID)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(gotCats, expectedSet(categoryIDs)) &&
				reflect.DeepEqual(gotGenres, expectedSet(genreIDs))
		},
		genLinkSet(),
		genLinkSet(),
	))

	properties.TestingRun(t)
}

// Property: an update fully replaces the previous set rather than merging
func TestProperty_UpdateReplacesSet(t *testing.T) {
	db := setupTestDB(t, seeded)
	res := VideosResource()
	w := NewWriter[model.Video](db, res)
	cats, _ := res.Relation(CategoryIDs)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("links after update equal the new set", prop.ForAll(
		func(before, after []uint) bool {
			ctx := context.Background()
			video, err := w.Create(ctx, newVideo("Generated"), relation.Links{CategoryIDs: before, GenreIDs: {1}})
			if err != nil {
				return false
			}
			if _, err := w.Update(ctx, video.ID, Fields{}, relation.Links{CategoryIDs: after}); err != nil {
				return false
			}

			got, err := relation.Current(db, cats, video.ID)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(got, expectedSet(after))
		},
		genLinkSet(),
		genLinkSet(),
	))

	properties.TestingRun(t)
}
