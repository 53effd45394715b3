// Package testutil holds helpers shared by the test suites.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
)

// NewTestConfig returns a configuration using in-memory stores and the console mail backend.
func NewTestConfig() *core.Config {
	return &core.Config{
		TestMode: true,
		AppName:  "Study Planner",
		Env:      "TEST",
		Build:    "test",
		Timezone: "UTC",
		Server: core.ServerConfig{
			Host:            ":0",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: core.DatabaseConfig{Engine: "memory"},
		TipStore: core.TipStoreConfig{Path: ":memory:"},
		Mail: core.MailConfig{
			Backend:          "console",
			FromName:         "Study Planner",
			FromEmail:        "noreply@test.local",
			SummaryRecipient: "student@test.local",
			Timeout:          5 * time.Second,
		},
	}
}

// Date parses a YYYY-MM-DD date, failing the test on error.
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("Date(%q) failed: %v", s, err)
	}
	return d
}

// FreezeNow makes core.NowFunc return now for the duration of the test.
func FreezeNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := core.NowFunc
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = prev })
}

type entryCreator interface {
	CreateEntry(ctx context.Context, e entry.StudyEntry) (entry.StudyEntry, error)
}

func CreateEntry(
	t *testing.T,
	repo entryCreator,
	date time.Time,
	course string,
	hours float64,
	status entry.Status,
	desc ...string,
) entry.StudyEntry {
	t.Helper()
	e := entry.StudyEntry{
		Date:   core.DateOf(date),
		Course: course,
		Hours:  hours,
		Status: status,
	}
	if len(desc) > 0 {
		e.TaskDescription = desc[0]
	}
	e, err := repo.CreateEntry(context.Background(), e)
	if err != nil {
		t.Fatalf("CreateEntry() failed: %v", err)
	}
	return e
}
