package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
)

type entryRepository struct {
	db *entryTable
}

var _ entry.Repository = (*entryRepository)(nil) // interface compliance check

func NewEntryRepository(db *DB) *entryRepository {
	return &entryRepository{db: db.entry}
}

func (repo *entryRepository) CreateEntry(ctx context.Context, e entry.StudyEntry) (entry.StudyEntry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.closed {
		return entry.StudyEntry{}, ErrClosed
	}

	repo.db.pkCount++
	e.ID = repo.db.pkCount
	e.Version = 1
	repo.db.table[e.ID] = &e
	return e, nil
}

func (repo *entryRepository) QueryEntries(ctx context.Context, filter *entry.QueryFilter, ordering []core.DBOrdering) ([]entry.StudyEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.closed {
		return nil, ErrClosed
	}

	entries := make([]entry.StudyEntry, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		if filter.Match(*e) {
			entries = append(entries, *e)
		}
	}

	ordering = entry.EffectiveOrdering(ordering)
	sort.Slice(entries, func(i, j int) bool {
		for _, ord := range ordering {
			c := compare(entries[i], entries[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return entries, nil
}

// compare returns -1, 0 or 1 comparing a and b on the given column.
func compare(a, b entry.StudyEntry, field string) int {
	switch field {
	case "id":
		return cmpInt(a.ID, b.ID)
	case "date":
		return a.Date.Compare(b.Date)
	case "course":
		return strings.Compare(a.Course, b.Course)
	case "hours":
		switch {
		case a.Hours < b.Hours:
			return -1
		case a.Hours > b.Hours:
			return 1
		}
		return 0
	case "status":
		return strings.Compare(string(a.Status), string(b.Status))
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (repo *entryRepository) GetEntry(ctx context.Context, id int) (entry.StudyEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.closed {
		return entry.StudyEntry{}, ErrClosed
	}

	if e, ok := repo.db.table[id]; ok {
		return *e, nil
	}
	return entry.StudyEntry{}, entry.ErrNotFound
}

func (repo *entryRepository) EntryExists(ctx context.Context, id int) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.closed {
		return false, ErrClosed
	}

	_, ok := repo.db.table[id]
	return ok, nil
}

func (repo *entryRepository) UpdateEntry(ctx context.Context, e entry.StudyEntry) (entry.StudyEntry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.closed {
		return entry.StudyEntry{}, ErrClosed
	}

	curr, ok := repo.db.table[e.ID]
	if !ok || (e.Version > 0 && e.Version != curr.Version) {
		return entry.StudyEntry{}, entry.ErrConflict
	}
	e.Version = curr.Version + 1
	repo.db.table[e.ID] = &e
	return e, nil
}

func (repo *entryRepository) DeleteEntry(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.closed {
		return ErrClosed
	}

	delete(repo.db.table, id)
	return nil
}
