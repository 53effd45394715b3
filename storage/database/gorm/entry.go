package gormrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
)

type studyEntry struct {
	ID              int       `gorm:"primaryKey;autoIncrement"`
	Date            time.Time `gorm:"not null;index"`
	Course          string    `gorm:"size:100;not null"`
	TaskDescription string    `gorm:"size:500;not null"`
	Hours           float64   `gorm:"not null"`
	Status          string    `gorm:"size:50;not null"`
	Notes           string    `gorm:"size:500;not null"`
	Version         int       `gorm:"not null"`
}

func (studyEntry) TableName() string { return "study_entries" }

func fromEntry(e entry.StudyEntry) studyEntry {
	return studyEntry{
		ID:              e.ID,
		Date:            e.Date,
		Course:          e.Course,
		TaskDescription: e.TaskDescription,
		Hours:           e.Hours,
		Status:          string(e.Status),
		Notes:           e.Notes,
		Version:         e.Version,
	}
}

func (m studyEntry) toEntry() entry.StudyEntry {
	return entry.StudyEntry{
		ID:              m.ID,
		Date:            core.DateOf(m.Date.UTC()),
		Course:          m.Course,
		TaskDescription: m.TaskDescription,
		Hours:           m.Hours,
		Status:          entry.Status(m.Status),
		Notes:           m.Notes,
		Version:         m.Version,
	}
}

type entryRepository struct {
	db *gorm.DB
}

var _ entry.Repository = (*entryRepository)(nil) // interface compliance check

// NewEntryRepository migrates the study_entries table and returns its repository.
func NewEntryRepository(db *gorm.DB) (*entryRepository, error) {
	if err := db.AutoMigrate(&studyEntry{}); err != nil {
		return nil, errors.Wrap(err, "migrating study entries")
	}
	return &entryRepository{db: db}, nil
}

func (repo entryRepository) CreateEntry(ctx context.Context, e entry.StudyEntry) (entry.StudyEntry, error) {
	m := fromEntry(e)
	m.ID = 0
	m.Version = 1
	if err := repo.db.WithContext(ctx).Create(&m).Error; err != nil {
		return entry.StudyEntry{}, errors.Wrap(err, "inserting entry")
	}
	return m.toEntry(), nil
}

func (repo entryRepository) QueryEntries(ctx context.Context, filter *entry.QueryFilter, ordering []core.DBOrdering) ([]entry.StudyEntry, error) {
	tx := repo.db.WithContext(ctx).Model(&studyEntry{})
	if filter != nil {
		if filter.Course != "" {
			tx = tx.Where("course = ?", filter.Course)
		}
		if filter.Status != "" {
			tx = tx.Where("status = ?", string(filter.Status))
		}
		if !filter.DateFrom.IsZero() {
			tx = tx.Where("date >= ?", filter.DateFrom)
		}
		if !filter.DateTo.IsZero() {
			tx = tx.Where("date <= ?", filter.DateTo)
		}
	}
	for _, ord := range entry.EffectiveOrdering(ordering) {
		tx = tx.Order(ord.String())
	}

	var models []studyEntry
	if err := tx.Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "selecting entries")
	}
	entries := make([]entry.StudyEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, m.toEntry())
	}
	return entries, nil
}

func (repo entryRepository) GetEntry(ctx context.Context, id int) (entry.StudyEntry, error) {
	var m studyEntry
	err := repo.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entry.StudyEntry{}, entry.ErrNotFound
	}
	if err != nil {
		return entry.StudyEntry{}, errors.Wrap(err, "selecting entry")
	}
	return m.toEntry(), nil
}

func (repo entryRepository) EntryExists(ctx context.Context, id int) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&studyEntry{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "checking entry")
	}
	return count > 0, nil
}

func (repo entryRepository) UpdateEntry(ctx context.Context, e entry.StudyEntry) (entry.StudyEntry, error) {
	tx := repo.db.WithContext(ctx).Model(&studyEntry{}).Where("id = ?", e.ID)
	if e.Version > 0 {
		tx = tx.Where("version = ?", e.Version)
	}
	res := tx.Updates(map[string]interface{}{
		"date":             e.Date,
		"course":           e.Course,
		"task_description": e.TaskDescription,
		"hours":            e.Hours,
		"status":           string(e.Status),
		"notes":            e.Notes,
		"version":          gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return entry.StudyEntry{}, errors.Wrap(res.Error, "updating entry")
	}
	if res.RowsAffected == 0 {
		return entry.StudyEntry{}, entry.ErrConflict
	}

	updated, err := repo.GetEntry(ctx, e.ID)
	if err == entry.ErrNotFound {
		return entry.StudyEntry{}, entry.ErrConflict
	}
	return updated, err
}

func (repo entryRepository) DeleteEntry(ctx context.Context, id int) error {
	if err := repo.db.WithContext(ctx).Delete(&studyEntry{}, id).Error; err != nil {
		return errors.Wrap(err, "deleting entry")
	}
	return nil
}
