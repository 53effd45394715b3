package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/studyplanner/core/entry"
	testutil "github.com/trezcool/studyplanner/tests"
)

func Test_reportApi(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	testutil.FreezeNow(t, now)

	t.Run("empty store", func(t *testing.T) {
		app := setup(t)
		runHTTPTests(t, app, []httpTest{
			{
				name:     "dashboard",
				method:   http.MethodGet,
				path:     "/api/dashboard",
				wantCode: http.StatusOK,
				wantData: []byte(`{
					"tasks_this_week": 0,
					"hours_last_7_days": 0,
					"today_tasks": 0,
					"completed_this_week": 0,
					"completion_rate": 0,
					"today_entries": []
				}`),
			},
			{
				name:     "reports",
				method:   http.MethodGet,
				path:     "/api/reports",
				wantCode: http.StatusOK,
				wantData: []byte(`{
					"course_summaries": [],
					"total_hours_all_time": 0,
					"entries_last_7_days": 0,
					"study_tips": [
						"Break your study sessions into focused 25-minute blocks.",
						"Review your notes within 24 hours to improve retention.",
						"Alternate between different courses to avoid burnout."
					]
				}`),
			},
		})
	})

	t.Run("with entries", func(t *testing.T) {
		app := setup(t)
		e1 := testutil.CreateEntry(t, app.repo, now, "Math", 2, entry.StatusCompleted)
		e2 := testutil.CreateEntry(t, app.repo, now, "Math", 1, entry.StatusPlanned)
		testutil.CreateEntry(t, app.repo, now.AddDate(0, 0, -6), "Physics", 4, entry.StatusCompleted)
		testutil.CreateEntry(t, app.repo, now.AddDate(0, 0, -3), "Physics", 1, entry.StatusInProgress)
		testutil.CreateEntry(t, app.repo, now.AddDate(0, 0, -7), "Physics", 0.5, entry.StatusCompleted)

		runHTTPTests(t, app, []httpTest{
			{
				name:     "dashboard",
				method:   http.MethodGet,
				path:     "/api/dashboard",
				wantCode: http.StatusOK,
				wantData: []byte(`{
					"tasks_this_week": 4,
					"hours_last_7_days": 8,
					"today_tasks": 2,
					"completed_this_week": 2,
					"completion_rate": 50,
					"today_entries": ` + string(marshallList(t, e2, e1)) + `
				}`),
			},
			{
				name:     "reports",
				method:   http.MethodGet,
				path:     "/api/reports",
				wantCode: http.StatusOK,
				wantData: []byte(`{
					"course_summaries": [
						{"course": "Physics", "total_hours": 6, "entry_count": 3},
						{"course": "Math", "total_hours": 3, "entry_count": 2}
					],
					"total_hours_all_time": 8,
					"entries_last_7_days": 4,
					"study_tips": [
						"Break your study sessions into focused 25-minute blocks.",
						"Review your notes within 24 hours to improve retention.",
						"Alternate between different courses to avoid burnout."
					]
				}`),
			},
		})
	})
}
