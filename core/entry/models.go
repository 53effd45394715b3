package entry

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studyplanner/core"
)

type Status string

const (
	StatusPlanned    Status = "Planned"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

var Statuses = []Status{StatusPlanned, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// StudyEntry is one logged unit of study activity.
type StudyEntry struct {
	ID              int       `json:"id"`
	Date            time.Time `json:"date"` // calendar date, midnight UTC
	Course          string    `json:"course"`
	TaskDescription string    `json:"task_description"`
	Hours           float64   `json:"hours"`
	Status          Status    `json:"status"`
	Notes           string    `json:"notes"`
	Version         int       `json:"version"`
}

func (e StudyEntry) MarshalJSON() ([]byte, error) {
	type alias StudyEntry
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(e), e.Date.Format(core.DateLayout)})
}

// NewEntry contains information needed to create a new StudyEntry.
type NewEntry struct {
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
	Course          string   `json:"course" validate:"required,notblank,max=100"`
	TaskDescription string   `json:"task_description" validate:"max=500"`
	Hours           *float64 `json:"hours" validate:"required,min=0,max=24"`
	Status          Status   `json:"status" validate:"required,studystatus"`
	Notes           string   `json:"notes" validate:"max=500"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	return validate.Struct(ne)
}

func (ne NewEntry) toEntry() (StudyEntry, error) {
	date, err := core.ParseDate(ne.Date)
	if err != nil {
		return StudyEntry{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
	}
	e := StudyEntry{
		Date:            date,
		Course:          ne.Course,
		TaskDescription: ne.TaskDescription,
		Status:          ne.Status,
		Notes:           ne.Notes,
	}
	if ne.Hours != nil {
		e.Hours = *ne.Hours
	}
	return e, nil
}

// UpdateEntry replaces every mutable field of an existing StudyEntry.
// When Version is set the update only applies to that version of the entry.
type UpdateEntry struct {
	NewEntry
	Version int `json:"version" validate:"min=0"`
}

func (ue *UpdateEntry) Validate(validate *validator.Validate) error {
	return validate.Struct(ue)
}

// QueryFilter applies an AND operation on its non-zero fields.
type QueryFilter struct {
	Course   string
	Status   Status
	DateFrom time.Time // inclusive
	DateTo   time.Time // inclusive
}

func (f *QueryFilter) Match(e StudyEntry) bool {
	if f == nil {
		return true
	}
	if f.Course != "" && e.Course != f.Course {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if !f.DateFrom.IsZero() && e.Date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && e.Date.After(f.DateTo) {
		return false
	}
	return true
}
