package entry

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
)

var (
	// errors
	ErrNotFound = errors.New("study entry not found")
	ErrConflict = errors.New("study entry was modified or deleted concurrently")
)

// OrderingFields maps the orderable API field names to their storage column.
var OrderingFields = map[string]string{
	"id":     "id",
	"date":   "date",
	"course": "course",
	"hours":  "hours",
	"status": "status",
}

// DefaultOrdering lists the most recent entries first.
var DefaultOrdering = []core.DBOrdering{{Field: "date"}, {Field: "id"}}

type (
	Repository interface {
		CreateEntry(ctx context.Context, e StudyEntry) (StudyEntry, error)
		// QueryEntries applies filter (nil means all entries) and ordering (DefaultOrdering when empty).
		QueryEntries(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]StudyEntry, error)
		GetEntry(ctx context.Context, id int) (StudyEntry, error)
		EntryExists(ctx context.Context, id int) (bool, error)
		// UpdateEntry returns ErrConflict when no row matches the ID (and the Version, when non-zero).
		UpdateEntry(ctx context.Context, e StudyEntry) (StudyEntry, error)
		// DeleteEntry is a no-op when the entry does not exist.
		DeleteEntry(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CleanOrdering drops unknown fields and maps the others to their column.
func CleanOrdering(ordering []core.DBOrdering) []core.DBOrdering {
	cleaned := make([]core.DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if col, ok := OrderingFields[ord.Field]; ok {
			cleaned = append(cleaned, core.DBOrdering{Field: col, Ascending: ord.Ascending})
		}
	}
	return cleaned
}

// EffectiveOrdering is the ordering repositories apply: DefaultOrdering when empty,
// with id as the final tie-breaker.
func EffectiveOrdering(ordering []core.DBOrdering) []core.DBOrdering {
	if len(ordering) == 0 {
		return DefaultOrdering
	}
	for _, ord := range ordering {
		if ord.Field == "id" {
			return ordering
		}
	}
	return append(ordering[:len(ordering):len(ordering)], core.DBOrdering{Field: "id", Ascending: true})
}

func (svc *Service) Create(ctx context.Context, ne NewEntry) (StudyEntry, error) {
	e, err := ne.toEntry()
	if err != nil {
		return StudyEntry{}, err
	}
	e, err = svc.repo.CreateEntry(ctx, e)
	if err != nil {
		return StudyEntry{}, errors.Wrap(err, "creating entry")
	}
	return e, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]StudyEntry, error) {
	return svc.Query(ctx, nil, nil)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]StudyEntry, error) {
	entries, err := svc.repo.QueryEntries(ctx, filter, CleanOrdering(ordering))
	if err != nil {
		return nil, errors.Wrap(err, "querying entries")
	}
	return entries, nil
}

// Today returns the entries dated today.
func (svc *Service) Today(ctx context.Context, today time.Time) ([]StudyEntry, error) {
	return svc.Query(ctx, &QueryFilter{DateFrom: today, DateTo: today}, nil)
}

func (svc *Service) GetByID(ctx context.Context, id int) (StudyEntry, error) {
	return svc.repo.GetEntry(ctx, id)
}

// Update replaces the entry's fields.
// A store conflict is resolved by checking whether the entry still exists:
// ErrNotFound when it was deleted, ErrConflict otherwise.
func (svc *Service) Update(ctx context.Context, id int, ue UpdateEntry) (StudyEntry, error) {
	e, err := ue.toEntry()
	if err != nil {
		return StudyEntry{}, err
	}
	e.ID = id
	e.Version = ue.Version

	updated, err := svc.repo.UpdateEntry(ctx, e)
	if err == nil {
		return updated, nil
	}
	if errors.Cause(err) != ErrConflict {
		return StudyEntry{}, errors.Wrap(err, "updating entry")
	}

	exists, xerr := svc.repo.EntryExists(ctx, id)
	if xerr != nil {
		return StudyEntry{}, errors.Wrap(xerr, "checking entry existence")
	}
	if !exists {
		return StudyEntry{}, ErrNotFound
	}
	return StudyEntry{}, err
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if err := svc.repo.DeleteEntry(ctx, id); err != nil {
		return errors.Wrap(err, "deleting entry")
	}
	return nil
}
