package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
)

const (
	entryColumns = "id, date, course, task_description, hours, status, notes, version"
	entryTable   = "study_entries"
)

type entryRow struct {
	ID              int       `db:"id"`
	Date            time.Time `db:"date"`
	Course          string    `db:"course"`
	TaskDescription string    `db:"task_description"`
	Hours           float64   `db:"hours"`
	Status          string    `db:"status"`
	Notes           string    `db:"notes"`
	Version         int       `db:"version"`
}

func (r entryRow) toEntry() entry.StudyEntry {
	return entry.StudyEntry{
		ID:              r.ID,
		Date:            core.DateOf(r.Date),
		Course:          r.Course,
		TaskDescription: r.TaskDescription,
		Hours:           r.Hours,
		Status:          entry.Status(r.Status),
		Notes:           r.Notes,
		Version:         r.Version,
	}
}

type entryRepository struct {
	db *sqlx.DB
}

var _ entry.Repository = (*entryRepository)(nil) // interface compliance check

func NewEntryRepository(db *sqlx.DB) *entryRepository {
	return &entryRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to entry.ErrNotFound
func (repo entryRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return entry.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo entryRepository) CreateEntry(ctx context.Context, e entry.StudyEntry) (entry.StudyEntry, error) {
	q := repo.db.Rebind("INSERT INTO " + entryTable +
		" (date, course, task_description, hours, status, notes, version)" +
		" VALUES (?, ?, ?, ?, ?, ?, 1) RETURNING id, version")
	err := repo.db.QueryRowxContext(ctx, q,
		e.Date, e.Course, e.TaskDescription, e.Hours, string(e.Status), e.Notes,
	).Scan(&e.ID, &e.Version)
	if err != nil {
		return entry.StudyEntry{}, errors.Wrap(err, "inserting entry")
	}
	return e, nil
}

func (repo entryRepository) QueryEntries(ctx context.Context, filter *entry.QueryFilter, ordering []core.DBOrdering) ([]entry.StudyEntry, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter != nil {
		if filter.Course != "" {
			where = append(where, "course = ?")
			args = append(args, filter.Course)
		}
		if filter.Status != "" {
			where = append(where, "status = ?")
			args = append(args, string(filter.Status))
		}
		if !filter.DateFrom.IsZero() {
			where = append(where, "date >= ?")
			args = append(args, filter.DateFrom)
		}
		if !filter.DateTo.IsZero() {
			where = append(where, "date <= ?")
			args = append(args, filter.DateTo)
		}
	}

	q := "SELECT " + entryColumns + " FROM " + entryTable
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + orderBy(ordering)

	var rows []entryRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting entries")
	}
	entries := make([]entry.StudyEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toEntry())
	}
	return entries, nil
}

// orderBy expects columns cleaned by entry.CleanOrdering.
func orderBy(ordering []core.DBOrdering) string {
	ordering = entry.EffectiveOrdering(ordering)
	parts := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		parts = append(parts, ord.String())
	}
	return strings.Join(parts, ", ")
}

func (repo entryRepository) GetEntry(ctx context.Context, id int) (entry.StudyEntry, error) {
	var r entryRow
	q := repo.db.Rebind("SELECT " + entryColumns + " FROM " + entryTable + " WHERE id = ?")
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return entry.StudyEntry{}, repo.trapNoRowsErr(err, "selecting entry")
	}
	return r.toEntry(), nil
}

func (repo entryRepository) EntryExists(ctx context.Context, id int) (bool, error) {
	var found bool
	q := repo.db.Rebind("SELECT EXISTS (SELECT 1 FROM " + entryTable + " WHERE id = ?)")
	if err := repo.db.GetContext(ctx, &found, q, id); err != nil {
		return false, errors.Wrap(err, "checking entry")
	}
	return found, nil
}

func (repo entryRepository) UpdateEntry(ctx context.Context, e entry.StudyEntry) (entry.StudyEntry, error) {
	args := []interface{}{e.Date, e.Course, e.TaskDescription, e.Hours, string(e.Status), e.Notes, e.ID}
	q := "UPDATE " + entryTable + " SET date = ?, course = ?, task_description = ?, hours = ?, status = ?, notes = ?," +
		" version = version + 1 WHERE id = ?"
	if e.Version > 0 {
		q += " AND version = ?"
		args = append(args, e.Version)
	}
	q += " RETURNING version"

	err := repo.db.QueryRowxContext(ctx, repo.db.Rebind(q), args...).Scan(&e.Version)
	if err == sql.ErrNoRows {
		return entry.StudyEntry{}, entry.ErrConflict
	}
	if err != nil {
		return entry.StudyEntry{}, errors.Wrap(err, "updating entry")
	}
	return e, nil
}

func (repo entryRepository) DeleteEntry(ctx context.Context, id int) error {
	q := repo.db.Rebind("DELETE FROM " + entryTable + " WHERE id = ?")
	if _, err := repo.db.ExecContext(ctx, q, id); err != nil {
		return errors.Wrap(err, "deleting entry")
	}
	return nil
}
