package entry

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		entries []StudyEntry
		want    string
	}{
		{
			name: "header only",
			want: "Date,Course,TaskDescription,Hours,Status,Notes\n",
		},
		{
			name: "comma in notes is replaced, never quoted",
			entries: []StudyEntry{{
				Date:            date,
				Course:          "Math",
				TaskDescription: "Exercises",
				Hours:           1.5,
				Status:          StatusCompleted,
				Notes:           "hard, but fun",
			}},
			want: "Date,Course,TaskDescription,Hours,Status,Notes\n" +
				"2025-03-14,Math,Exercises,1.5,Completed,hard  but fun\n",
		},
		{
			name: "every text field is cleaned",
			entries: []StudyEntry{
				{Date: date, Course: "Math, II", TaskDescription: "a,b", Hours: 2, Status: StatusInProgress},
				{Date: date.AddDate(0, 0, -1), Course: `"Quoted"`, Hours: 0.25, Status: StatusPlanned, Notes: "x"},
			},
			want: "Date,Course,TaskDescription,Hours,Status,Notes\n" +
				"2025-03-14,Math  II,a b,2,In Progress,\n" +
				"2025-03-13,\"Quoted\",,0.25,Planned,x\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteCSV(&buf, tt.entries))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename(time.Date(2025, 3, 4, 9, 7, 59, 0, time.Local))
	assert.Equal(t, "DailyEntries_20250304_0907.csv", got)
}
