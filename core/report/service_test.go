package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
	"github.com/trezcool/studyplanner/core/report"
	"github.com/trezcool/studyplanner/core/tip"
	emailsvc "github.com/trezcool/studyplanner/services/email"
	"github.com/trezcool/studyplanner/storage/database/inmem"
	testutil "github.com/trezcool/studyplanner/tests"
)

var now = time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)

type staticTips []string

func (t staticTips) ListTips(context.Context) ([]string, error) { return t, nil }

type failingMailer struct{}

func (failingMailer) SendMessages(context.Context, ...*core.EmailMessage) error {
	return errors.New("dial tcp: connection refused")
}

func setup(t *testing.T, mailSvc core.EmailService) (*report.Service, entry.Repository) {
	testutil.FreezeNow(t, now)
	conf := testutil.NewTestConfig()
	repo := inmem.NewEntryRepository(inmem.Open())
	return report.NewService(repo, staticTips(tip.SeedTips), mailSvc, conf), repo
}

func TestService_Dashboard(t *testing.T) {
	svc, repo := setup(t, nil)
	testutil.CreateEntry(t, repo, now, "Math", 2, entry.StatusCompleted)
	testutil.CreateEntry(t, repo, now, "Math", 1, entry.StatusPlanned)
	testutil.CreateEntry(t, repo, now.AddDate(0, 0, -8), "Physics", 5, entry.StatusCompleted)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.TasksThisWeek)
	assert.Equal(t, 3, d.HoursLast7Days)
	assert.Equal(t, 2, d.TodayTasks)
	assert.Equal(t, 50.0, d.CompletionRate)
	assert.Len(t, d.TodayEntries, 2)
}

func TestService_Reports(t *testing.T) {
	svc, repo := setup(t, nil)
	testutil.CreateEntry(t, repo, now, "Math", 3, entry.StatusCompleted)
	testutil.CreateEntry(t, repo, now, "Math", 2, entry.StatusCompleted)
	testutil.CreateEntry(t, repo, now.AddDate(0, 0, -20), "Physics", 4, entry.StatusPlanned)

	r, err := svc.Reports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []report.CourseSummary{
		{Course: "Math", TotalHours: 5, EntryCount: 2},
		{Course: "Physics", TotalHours: 4, EntryCount: 1},
	}, r.CourseSummaries)
	assert.Equal(t, 9, r.TotalHoursAllTime)
	assert.Equal(t, 2, r.EntriesLast7Days)
	assert.Equal(t, tip.SeedTips, r.StudyTips)
}

func TestService_SendTodaySummary(t *testing.T) {
	t.Run("no entries today", func(t *testing.T) {
		mailSvc := emailsvc.NewConsoleServiceMock(testutil.NewTestConfig())
		svc, repo := setup(t, mailSvc)
		testutil.CreateEntry(t, repo, now.AddDate(0, 0, -1), "Math", 2, entry.StatusCompleted)

		count, err := svc.SendTodaySummary(context.Background())
		assert.Equal(t, report.ErrNoEntriesToday, errors.Cause(err))
		assert.Zero(t, count)
		assert.Empty(t, mailSvc.SentMessages())
	})

	t.Run("sends today's entries", func(t *testing.T) {
		mailSvc := emailsvc.NewConsoleServiceMock(testutil.NewTestConfig())
		svc, repo := setup(t, mailSvc)
		testutil.CreateEntry(t, repo, now, "Math", 2, entry.StatusCompleted, "Chapter 3 exercises")
		testutil.CreateEntry(t, repo, now, "Physics", 1.5, entry.StatusInProgress, "Lab report")
		testutil.CreateEntry(t, repo, now.AddDate(0, 0, -1), "History", 1, entry.StatusPlanned)

		count, err := svc.SendTodaySummary(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		sent := mailSvc.SentMessages()
		require.Len(t, sent, 1)
		msg := sent[0]
		assert.Equal(t, "Today's Study Summary", msg.Subject)
		require.Len(t, msg.To, 1)
		assert.Equal(t, "student@test.local", msg.To[0].Address)
		assert.Contains(t, msg.HTMLContent, "<b>Math</b> - Chapter 3 exercises (2h) - Completed")
		assert.Contains(t, msg.HTMLContent, "<b>Physics</b> - Lab report (1.5h) - In Progress")
		assert.NotContains(t, msg.HTMLContent, "History")
		assert.Contains(t, msg.TextContent, "Math - Chapter 3 exercises (2h) - Completed")
	})

	t.Run("transport failure", func(t *testing.T) {
		svc, repo := setup(t, failingMailer{})
		e := testutil.CreateEntry(t, repo, now, "Math", 2, entry.StatusCompleted)

		_, err := svc.SendTodaySummary(context.Background())
		var mailErr *report.MailError
		require.True(t, errors.As(err, &mailErr))
		assert.Contains(t, err.Error(), "connection refused")

		got, err := repo.GetEntry(context.Background(), e.ID)
		require.NoError(t, err)
		assert.Equal(t, e, got)
	})
}
