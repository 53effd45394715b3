package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
)

var orderingParam = "ordering"

// Ordering binds `?ordering=-date,course` (a leading "-" sorts descending).
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// EntryQuery holds the entry list filters.
type EntryQuery struct {
	Course   string `query:"course" json:"course"`
	Status   string `query:"status" json:"status" validate:"omitempty,studystatus"`
	DateFrom string `query:"date_from" json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `query:"date_to" json:"date_to" validate:"omitempty,datetime=2006-01-02"`
}

func (q *EntryQuery) Clean() {
	q.Status = core.CleanString(q.Status)
	q.DateFrom = core.CleanString(q.DateFrom)
	q.DateTo = core.CleanString(q.DateTo)
}

// Filter must be called on a validated EntryQuery.
func (q EntryQuery) Filter() *entry.QueryFilter {
	filter := &entry.QueryFilter{
		Course: q.Course,
		Status: entry.Status(q.Status),
	}
	filter.DateFrom, _ = core.ParseDate(q.DateFrom)
	filter.DateTo, _ = core.ParseDate(q.DateTo)
	return filter
}
