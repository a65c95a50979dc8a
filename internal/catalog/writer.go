// Package catalog persists catalog entities together with the
// many-to-many links they own.
//
// A Writer is configured with a Resource describing one entity type. Each
// Create or Update runs in a single transaction: the scalar row is written
// and every relation present in the payload is synced to exactly the
// submitted ID set. Any failure rolls the whole write back, the scalar
// insert or update included. Nothing is visible to other connections
// until commit.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/user/catalog-api/internal/relation"
	"github.com/user/catalog-api/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnknownRelation is returned when a payload names a relation the
// resource does not own
var ErrUnknownRelation = errors.New("unknown relation")

// Fields maps column names to the scalar values an update writes
type Fields map[string]interface{}

// Entity is implemented by pointers to persisted models
type Entity[T any] interface {
	*T
	Key() uint
}

// Writer creates and updates one entity type with its relations
type Writer[T any, P Entity[T]] struct {
	db   *gorm.DB
	res  Resource
	repo *store.Repository[T]
}

// NewWriter creates a writer for the entity type T described by res
func NewWriter[T any, P Entity[T]](db *gorm.DB, res Resource) *Writer[T, P] {
	return &Writer[T, P]{
		db:   db,
		res:  res,
		repo: store.NewRepository[T](db),
	}
}

// Resource returns the configuration the writer was built with
func (w *Writer[T, P]) Resource() Resource {
	return w.res
}

// Create inserts entity and links it to the given relation sets, then
// returns the committed row with its relations loaded.
func (w *Writer[T, P]) Create(ctx context.Context, entity P, links relation.Links) (P, error) {
	if err := w.checkLinks(links); err != nil {
		return nil, err
	}

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(entity).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", w.res.Name, err)
		}
		return w.syncRelations(tx, entity.Key(), links)
	})
	if err != nil {
		log.Warn().Err(err).Str("resource", w.res.Name).Msg("Create rolled back")
		return nil, err
	}

	return w.reload(ctx, entity.Key())
}

// Update applies fields to the live row id and replaces the given relation
// sets, then returns the committed row with its relations loaded.
// Soft-deleted rows are not updated; store.ErrNotFound is returned instead.
func (w *Writer[T, P]) Update(ctx context.Context, id uint, fields Fields, links relation.Links) (P, error) {
	if err := w.checkLinks(links); err != nil {
		return nil, err
	}

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := P(new(T))
		if err := tx.First(current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			return fmt.Errorf("failed to load %s %d: %w", w.res.Name, id, err)
		}

		if len(fields) > 0 {
			result := tx.Model(current).Omit(clause.Associations).Updates(map[string]interface{}(fields))
			if result.Error != nil {
				return fmt.Errorf("failed to update %s %d: %w", w.res.Name, id, result.Error)
			}
		}

		return w.syncRelations(tx, id, links)
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Str("resource", w.res.Name).Uint("id", id).Msg("Update rolled back")
		}
		return nil, err
	}

	return w.reload(ctx, id)
}

func (w *Writer[T, P]) syncRelations(tx *gorm.DB, ownerID uint, links relation.Links) error {
	for _, rel := range w.res.Relations {
		ids, ok := links[rel.Name]
		if !ok {
			continue
		}

		change, err := relation.Sync(tx, rel, ownerID, ids)
		if err != nil {
			return err
		}

		if !change.Empty() {
			log.Debug().
				Str("resource", w.res.Name).
				Uint("id", ownerID).
				Str("relation", rel.Name).
				Interface("attached", change.Attached).
				Interface("detached", change.Detached).
				Msg("Relation synced")
		}
	}
	return nil
}

func (w *Writer[T, P]) checkLinks(links relation.Links) error {
	for name := range links {
		if _, ok := w.res.Relation(name); !ok {
			return fmt.Errorf("%w %q for %s", ErrUnknownRelation, name, w.res.Name)
		}
	}
	return nil
}

func (w *Writer[T, P]) reload(ctx context.Context, id uint) (P, error) {
	row, err := w.repo.Find(ctx, id, store.Scope{Preloads: w.res.Preloads})
	if err != nil {
		return nil, fmt.Errorf("failed to reload %s %d: %w", w.res.Name, id, err)
	}
	return P(row), nil
}
