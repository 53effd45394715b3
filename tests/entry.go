package testutil

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
)

// RunEntryRepositoryTests checks the behavior every entry.Repository adapter shares.
// newRepo must return an empty repository.
func RunEntryRepositoryTests(t *testing.T, newRepo func(t *testing.T) entry.Repository) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		repo := newRepo(t)
		e := CreateEntry(t, repo, Date(t, "2025-03-14"), "Math", 1.5, entry.StatusInProgress, "Chapter 3")
		assert.NotZero(t, e.ID)
		assert.Equal(t, 1, e.Version)

		got, err := repo.GetEntry(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, e, got)

		_, err = repo.GetEntry(ctx, e.ID+100)
		assert.Equal(t, entry.ErrNotFound, errors.Cause(err))
	})

	t.Run("exists", func(t *testing.T) {
		repo := newRepo(t)
		e := CreateEntry(t, repo, Date(t, "2025-03-14"), "Math", 1, entry.StatusPlanned)

		ok, err := repo.EntryExists(ctx, e.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.EntryExists(ctx, e.ID+100)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("query", func(t *testing.T) {
		repo := newRepo(t)
		e1 := CreateEntry(t, repo, Date(t, "2025-03-10"), "Math", 1, entry.StatusPlanned)
		e2 := CreateEntry(t, repo, Date(t, "2025-03-12"), "Physics", 2, entry.StatusCompleted)
		e3 := CreateEntry(t, repo, Date(t, "2025-03-12"), "Math", 3, entry.StatusCompleted)

		tests := []struct {
			name     string
			filter   *entry.QueryFilter
			ordering []core.DBOrdering
			want     []entry.StudyEntry
		}{
			{name: "all, default ordering", want: []entry.StudyEntry{e3, e2, e1}},
			{name: "course", filter: &entry.QueryFilter{Course: "Math"}, want: []entry.StudyEntry{e3, e1}},
			{name: "status", filter: &entry.QueryFilter{Status: entry.StatusPlanned}, want: []entry.StudyEntry{e1}},
			{
				name:   "single day",
				filter: &entry.QueryFilter{DateFrom: Date(t, "2025-03-12"), DateTo: Date(t, "2025-03-12")},
				want:   []entry.StudyEntry{e3, e2},
			},
			{name: "from", filter: &entry.QueryFilter{DateFrom: Date(t, "2025-03-11")}, want: []entry.StudyEntry{e3, e2}},
			{name: "to", filter: &entry.QueryFilter{DateTo: Date(t, "2025-03-11")}, want: []entry.StudyEntry{e1}},
			{
				name:     "hours ascending",
				ordering: []core.DBOrdering{{Field: "hours", Ascending: true}},
				want:     []entry.StudyEntry{e1, e2, e3},
			},
			{
				name:     "course ascending, id tie-break",
				ordering: []core.DBOrdering{{Field: "course", Ascending: true}},
				want:     []entry.StudyEntry{e1, e3, e2},
			},
			{name: "no match", filter: &entry.QueryFilter{Course: "Art"}, want: []entry.StudyEntry{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.QueryEntries(ctx, tt.filter, tt.ordering)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("update", func(t *testing.T) {
		repo := newRepo(t)
		e := CreateEntry(t, repo, Date(t, "2025-03-14"), "Math", 1, entry.StatusPlanned)

		e.Course = "Physics"
		e.Hours = 2.5
		e.Status = entry.StatusCompleted
		e.Notes = "done"
		e.Date = Date(t, "2025-03-15")
		updated, err := repo.UpdateEntry(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, "Physics", updated.Course)
		assert.Equal(t, 2.5, updated.Hours)
		assert.Equal(t, Date(t, "2025-03-15"), updated.Date)

		got, err := repo.GetEntry(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		// e still carries version 1
		_, err = repo.UpdateEntry(ctx, e)
		assert.Equal(t, entry.ErrConflict, errors.Cause(err))

		// version 0 skips the version check
		e.Version = 0
		updated, err = repo.UpdateEntry(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, 3, updated.Version)

		e.ID += 100
		_, err = repo.UpdateEntry(ctx, e)
		assert.Equal(t, entry.ErrConflict, errors.Cause(err))
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		e := CreateEntry(t, repo, Date(t, "2025-03-14"), "Math", 1, entry.StatusPlanned)

		require.NoError(t, repo.DeleteEntry(ctx, e.ID))
		_, err := repo.GetEntry(ctx, e.ID)
		assert.Equal(t, entry.ErrNotFound, errors.Cause(err))

		assert.NoError(t, repo.DeleteEntry(ctx, e.ID))
	})
}
