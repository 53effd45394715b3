package entry

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/studyplanner/core"
)

const csvHeader = "Date,Course,TaskDescription,Hours,Status,Notes"

// ExportFilename names a CSV export made at t.
func ExportFilename(t time.Time) string {
	return "DailyEntries_" + t.Format("20060102_1504") + ".csv"
}

// WriteCSV writes entries as CSV rows, in order.
// Commas inside text fields are replaced with spaces; fields are never quoted.
func WriteCSV(w io.Writer, entries []StudyEntry) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(csvHeader + "\n"); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.Date.Format(core.DateLayout),
			csvClean(e.Course),
			csvClean(e.TaskDescription),
			strconv.FormatFloat(e.Hours, 'f', -1, 64),
			csvClean(string(e.Status)),
			csvClean(e.Notes),
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func csvClean(s string) string {
	return strings.ReplaceAll(s, ",", " ")
}
