// Package relation replaces many-to-many link sets stored in join tables.
//
// A join table holds only paired foreign keys. Sync rewrites the pairs of
// one owner row so that afterwards they equal a target ID set exactly:
// pairs missing from the target are removed, new ones are inserted and
// pairs present on both sides are left alone.
package relation

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// Relation describes a many-to-many link owned by one entity
type Relation struct {
	Name        string // payload key carrying the target IDs, e.g. "category_id"
	JoinTable   string
	OwnerKey    string // join column referencing the owner row
	TargetKey   string // join column referencing the target row
	TargetTable string
}

// Links maps a relation name to the complete set of IDs the owner should
// be linked to. A relation missing from Links is not touched; a relation
// present with no IDs is cleared.
type Links map[string][]uint

// Change reports the pairs a Sync added and removed
type Change struct {
	Attached []uint
	Detached []uint
}

// Empty reports whether the sync left the join table unchanged
func (c Change) Empty() bool {
	return len(c.Attached) == 0 && len(c.Detached) == 0
}

// Diff compares the current and target ID sets. attach holds IDs only in
// target, detach holds IDs only in current. Duplicates are collapsed and
// both results are sorted ascending.
func Diff(current, target []uint) (attach, detach []uint) {
	cur := toSet(current)
	tgt := toSet(target)

	for id := range tgt {
		if _, ok := cur[id]; !ok {
			attach = append(attach, id)
		}
	}
	for id := range cur {
		if _, ok := tgt[id]; !ok {
			detach = append(detach, id)
		}
	}

	sortIDs(attach)
	sortIDs(detach)
	return attach, detach
}

// Sync replaces the owner's pairs in rel.JoinTable with ids. It must run on
// a transaction handle: a failure part way leaves partial changes that only
// the caller's rollback undoes.
func Sync(tx *gorm.DB, rel Relation, ownerID uint, ids []uint) (Change, error) {
	current, err := Current(tx, rel, ownerID)
	if err != nil {
		return Change{}, err
	}

	attach, detach := Diff(current, ids)

	if len(detach) > 0 {
		query := fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s IN ?",
			tx.Statement.Quote(rel.JoinTable), tx.Statement.Quote(rel.OwnerKey), tx.Statement.Quote(rel.TargetKey))
		if err := tx.Exec(query, ownerID, detach).Error; err != nil {
			return Change{}, fmt.Errorf("failed to detach %s: %w", rel.Name, err)
		}
	}

	if len(attach) > 0 {
		rows := make([]map[string]interface{}, 0, len(attach))
		for _, id := range attach {
			rows = append(rows, map[string]interface{}{
				rel.OwnerKey:  ownerID,
				rel.TargetKey: id,
			})
		}
		if err := tx.Table(rel.JoinTable).Create(rows).Error; err != nil {
			return Change{}, fmt.Errorf("failed to attach %s: %w", rel.Name, err)
		}
	}

	return Change{Attached: attach, Detached: detach}, nil
}

// Current returns the target IDs the owner is linked to, sorted ascending
func Current(db *gorm.DB, rel Relation, ownerID uint) ([]uint, error) {
	var ids []uint
	result := db.Table(rel.JoinTable).
		Where(fmt.Sprintf("%s = ?", db.Statement.Quote(rel.OwnerKey)), ownerID).
		Order(rel.TargetKey).
		Pluck(rel.TargetKey, &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to read %s links: %w", rel.Name, result.Error)
	}
	return ids, nil
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortIDs(ids []uint) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
