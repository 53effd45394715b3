// Package report derives the dashboard and course reports from study entries.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/trezcool/studyplanner/core/entry"
)

// windowDays is the length of the trailing window, today included.
const windowDays = 7

type (
	Dashboard struct {
		TasksThisWeek     int                `json:"tasks_this_week"`
		HoursLast7Days    int                `json:"hours_last_7_days"`
		TodayTasks        int                `json:"today_tasks"`
		CompletedThisWeek int                `json:"completed_this_week"`
		CompletionRate    float64            `json:"completion_rate"`
		TodayEntries      []entry.StudyEntry `json:"today_entries"`
	}

	CourseSummary struct {
		Course     string `json:"course"`
		TotalHours int    `json:"total_hours"`
		EntryCount int    `json:"entry_count"`
	}

	CourseReport struct {
		CourseSummaries   []CourseSummary `json:"course_summaries"`
		TotalHoursAllTime int             `json:"total_hours_all_time"`
		EntriesLast7Days  int             `json:"entries_last_7_days"`
	}
)

// Round rounds half to even: 2.5 -> 2, 3.5 -> 4.
func Round(x float64) int {
	return int(math.RoundToEven(x))
}

// WeekStart is the first day of the trailing window ending on today.
func WeekStart(today time.Time) time.Time {
	return today.AddDate(0, 0, -(windowDays - 1))
}

// InWindow reports whether date is within [WeekStart(today), today].
func InWindow(date, today time.Time) bool {
	return !date.Before(WeekStart(today)) && !date.After(today)
}

// ComputeDashboard computes the dashboard counters for today.
// Dates must be calendar dates as produced by core.DateOf.
func ComputeDashboard(entries []entry.StudyEntry, today time.Time) Dashboard {
	d := Dashboard{TodayEntries: make([]entry.StudyEntry, 0)}

	var hours float64
	for _, e := range entries {
		if InWindow(e.Date, today) {
			d.TasksThisWeek++
			hours += e.Hours
			if e.Status == entry.StatusCompleted {
				d.CompletedThisWeek++
			}
		}
		if e.Date.Equal(today) {
			d.TodayTasks++
			d.TodayEntries = append(d.TodayEntries, e)
		}
	}

	d.HoursLast7Days = Round(hours)
	if d.TasksThisWeek > 0 {
		d.CompletionRate = float64(d.CompletedThisWeek) / float64(d.TasksThisWeek) * 100
	}
	return d
}

// ComputeCourseSummaries groups entries by their exact course name.
// Summaries are sorted by total hours, descending; ties keep the order courses were first seen in.
func ComputeCourseSummaries(entries []entry.StudyEntry, today time.Time) CourseReport {
	r := CourseReport{CourseSummaries: make([]CourseSummary, 0)}

	idx := make(map[string]int) // course -> position in sums
	var sums []float64
	var total float64
	for _, e := range entries {
		i, ok := idx[e.Course]
		if !ok {
			i = len(r.CourseSummaries)
			idx[e.Course] = i
			r.CourseSummaries = append(r.CourseSummaries, CourseSummary{Course: e.Course})
			sums = append(sums, 0)
		}
		sums[i] += e.Hours
		r.CourseSummaries[i].EntryCount++

		total += e.Hours
		if InWindow(e.Date, today) {
			r.EntriesLast7Days++
		}
	}

	for i := range r.CourseSummaries {
		r.CourseSummaries[i].TotalHours = Round(sums[i])
	}
	sort.SliceStable(r.CourseSummaries, func(i, j int) bool {
		return r.CourseSummaries[i].TotalHours > r.CourseSummaries[j].TotalHours
	})

	r.TotalHoursAllTime = Round(total)
	return r
}
