package entry_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
	"github.com/trezcool/studyplanner/storage/database/inmem"
	testutil "github.com/trezcool/studyplanner/tests"
)

// racingRepo simulates another request changing or deleting the entry between read and write.
type racingRepo struct {
	entry.Repository
	deleteOnUpdate bool
}

func (repo *racingRepo) UpdateEntry(ctx context.Context, e entry.StudyEntry) (entry.StudyEntry, error) {
	if repo.deleteOnUpdate {
		if err := repo.Repository.DeleteEntry(ctx, e.ID); err != nil {
			return entry.StudyEntry{}, err
		}
	}
	return entry.StudyEntry{}, errors.Wrap(entry.ErrConflict, "updating entry")
}

func hours(h float64) *float64 { return &h }

func newValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	entry.InitValidators(validate, translator)
	return validate
}

func TestNewEntry_Validate(t *testing.T) {
	validate := newValidator()
	valid := entry.NewEntry{
		Date:   "2025-03-14",
		Course: "Math",
		Hours:  hours(2),
		Status: entry.StatusPlanned,
	}

	tests := []struct {
		name      string
		mutate    func(ne *entry.NewEntry)
		wantField string
	}{
		{name: "valid", mutate: func(ne *entry.NewEntry) {}},
		{name: "zero hours", mutate: func(ne *entry.NewEntry) { ne.Hours = hours(0) }},
		{name: "24 hours", mutate: func(ne *entry.NewEntry) { ne.Hours = hours(24) }},
		{name: "missing date", mutate: func(ne *entry.NewEntry) { ne.Date = "" }, wantField: "date"},
		{name: "bad date", mutate: func(ne *entry.NewEntry) { ne.Date = "14/03/2025" }, wantField: "date"},
		{name: "missing course", mutate: func(ne *entry.NewEntry) { ne.Course = "" }, wantField: "course"},
		{name: "blank course", mutate: func(ne *entry.NewEntry) { ne.Course = "   " }, wantField: "course"},
		{name: "course too long", mutate: func(ne *entry.NewEntry) { ne.Course = string(make([]byte, 101)) }, wantField: "course"},
		{name: "missing hours", mutate: func(ne *entry.NewEntry) { ne.Hours = nil }, wantField: "hours"},
		{name: "negative hours", mutate: func(ne *entry.NewEntry) { ne.Hours = hours(-1) }, wantField: "hours"},
		{name: "too many hours", mutate: func(ne *entry.NewEntry) { ne.Hours = hours(24.5) }, wantField: "hours"},
		{name: "unknown status", mutate: func(ne *entry.NewEntry) { ne.Status = "Done" }, wantField: "status"},
		{name: "status is case-sensitive", mutate: func(ne *entry.NewEntry) { ne.Status = "completed" }, wantField: "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ne := valid
			tt.mutate(&ne)
			err := ne.Validate(validate)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs), "want validation errors, got %v", err)
			require.Len(t, vErrs, 1)
			assert.Equal(t, tt.wantField, vErrs[0].Field())
		})
	}
}

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := entry.NewService(inmem.NewEntryRepository(inmem.Open()))

	created, err := svc.Create(ctx, entry.NewEntry{
		Date:            "2025-03-14",
		Course:          "Math",
		TaskDescription: "Chapter 3",
		Hours:           hours(1.5),
		Status:          entry.StatusInProgress,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 1, created.Version)
	assert.Equal(t, testutil.Date(t, "2025-03-14"), created.Date)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := svc.Update(ctx, created.ID, entry.UpdateEntry{NewEntry: entry.NewEntry{
		Date:   "2025-03-15",
		Course: "Math",
		Hours:  hours(2),
		Status: entry.StatusCompleted,
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, entry.StatusCompleted, updated.Status)
	assert.Empty(t, updated.TaskDescription)

	t.Run("stale version conflicts", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, entry.UpdateEntry{
			NewEntry: entry.NewEntry{Date: "2025-03-15", Course: "Math", Hours: hours(3), Status: entry.StatusCompleted},
			Version:  1,
		})
		assert.Equal(t, entry.ErrConflict, errors.Cause(err))
	})

	t.Run("update unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, 9999, entry.UpdateEntry{
			NewEntry: entry.NewEntry{Date: "2025-03-15", Course: "Math", Hours: hours(3), Status: entry.StatusCompleted},
		})
		assert.Equal(t, entry.ErrNotFound, errors.Cause(err))
	})

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.Equal(t, entry.ErrNotFound, errors.Cause(err))

	assert.NoError(t, svc.Delete(ctx, created.ID), "deleting twice is a no-op")
}

func TestService_Update_conflictResolution(t *testing.T) {
	ctx := context.Background()
	ue := entry.UpdateEntry{NewEntry: entry.NewEntry{
		Date:   "2025-03-14",
		Course: "Math",
		Hours:  hours(1),
		Status: entry.StatusPlanned,
	}}

	tests := []struct {
		name           string
		deleteOnUpdate bool
		wantErr        error
	}{
		{name: "entry deleted concurrently", deleteOnUpdate: true, wantErr: entry.ErrNotFound},
		{name: "entry modified concurrently", deleteOnUpdate: false, wantErr: entry.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := inmem.NewEntryRepository(inmem.Open())
			e := testutil.CreateEntry(t, base, testutil.Date(t, "2025-03-14"), "Math", 1, entry.StatusPlanned)
			svc := entry.NewService(&racingRepo{Repository: base, deleteOnUpdate: tt.deleteOnUpdate})

			_, err := svc.Update(ctx, e.ID, ue)
			assert.Equal(t, tt.wantErr, errors.Cause(err))
		})
	}
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	repo := inmem.NewEntryRepository(inmem.Open())
	svc := entry.NewService(repo)

	e1 := testutil.CreateEntry(t, repo, testutil.Date(t, "2025-03-10"), "Math", 1, entry.StatusPlanned)
	e2 := testutil.CreateEntry(t, repo, testutil.Date(t, "2025-03-12"), "Physics", 2, entry.StatusCompleted)
	e3 := testutil.CreateEntry(t, repo, testutil.Date(t, "2025-03-12"), "Math", 3, entry.StatusCompleted)
	e4 := testutil.CreateEntry(t, repo, testutil.Date(t, "2025-03-14"), "Math", 4, entry.StatusInProgress)

	tests := []struct {
		name     string
		filter   *entry.QueryFilter
		ordering []core.DBOrdering
		want     []entry.StudyEntry
	}{
		{name: "default ordering", want: []entry.StudyEntry{e4, e3, e2, e1}},
		{name: "by course", filter: &entry.QueryFilter{Course: "Math"}, want: []entry.StudyEntry{e4, e3, e1}},
		{name: "by status", filter: &entry.QueryFilter{Status: entry.StatusCompleted}, want: []entry.StudyEntry{e3, e2}},
		{
			name:   "date range",
			filter: &entry.QueryFilter{DateFrom: testutil.Date(t, "2025-03-11"), DateTo: testutil.Date(t, "2025-03-13")},
			want:   []entry.StudyEntry{e3, e2},
		},
		{
			name:     "hours ascending",
			ordering: []core.DBOrdering{{Field: "hours", Ascending: true}},
			want:     []entry.StudyEntry{e1, e2, e3, e4},
		},
		{
			name:     "course then id",
			ordering: []core.DBOrdering{{Field: "course", Ascending: true}},
			want:     []entry.StudyEntry{e1, e3, e4, e2},
		},
		{
			name:     "unknown fields are ignored",
			ordering: []core.DBOrdering{{Field: "password"}},
			want:     []entry.StudyEntry{e4, e3, e2, e1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Query(ctx, tt.filter, tt.ordering)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	today, err := svc.Today(ctx, testutil.Date(t, "2025-03-12"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []entry.StudyEntry{e2, e3}, today)
}
