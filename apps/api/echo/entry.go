package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
	"github.com/trezcool/studyplanner/core/report"
)

var (
	errEntryNotFoundInCtx = errors.New("entry object not found in echo.Context")

	noEntriesTodayMsg = "No study entries found for today."
)

type entryApi struct {
	svc       *entry.Service
	reportSvc *report.Service
	validate  *validator.Validate
}

func registerEntryAPI(g *echo.Group, svc *entry.Service, reportSvc *report.Service, validate *validator.Validate) {
	api := entryApi{
		svc:       svc,
		reportSvc: reportSvc,
		validate:  validate,
	}

	eg := g.Group("/entries")
	eg.GET("", api.query)
	eg.POST("", api.create)
	eg.GET("/export", api.export)
	eg.POST("/summary", api.sendSummary)

	// detail endpoints
	eg.DELETE("/:id", api.destroy)
	dg := eg.Group("/:id", entryObjectMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
}

// Handlers

func (api *entryApi) query(ctx echo.Context) error {
	var q EntryQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to EntryQuery")
	}
	q.Clean()
	if err := api.validate.Struct(q); err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	entries, err := api.svc.Query(ctx.Request().Context(), q.Filter(), ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying entries")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *entryApi) create(ctx echo.Context) error {
	var data entry.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	e, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating entry")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *entryApi) retrieve(ctx echo.Context) error {
	e, ok := ctx.Get(ctxObjectKey).(entry.StudyEntry)
	if !ok {
		return errors.Wrap(errEntryNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *entryApi) update(ctx echo.Context) error {
	e, ok := ctx.Get(ctxObjectKey).(entry.StudyEntry)
	if !ok {
		return errors.Wrap(errEntryNotFoundInCtx, "retrieving object from context")
	}

	var data entry.UpdateEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	updated, err := api.svc.Update(ctx.Request().Context(), e.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating entry")
	}
	return ctx.JSON(http.StatusOK, updated)
}

// destroy succeeds whether or not the entry exists.
func (api *entryApi) destroy(ctx echo.Context) error {
	var id int
	if err := echo.PathParamsBinder(ctx).Int("id", &id).BindError(); err != nil {
		return errHttpNotFound
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting entry")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *entryApi) export(ctx echo.Context) error {
	entries, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying entries")
	}

	var buf bytes.Buffer
	if err = entry.WriteCSV(&buf, entries); err != nil {
		return errors.Wrap(err, "writing csv")
	}

	filename := entry.ExportFilename(core.NowFunc())
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (api *entryApi) sendSummary(ctx echo.Context) error {
	count, err := api.reportSvc.SendTodaySummary(ctx.Request().Context())
	if err != nil {
		if errors.Cause(err) == report.ErrNoEntriesToday {
			return ctx.JSON(http.StatusOK, SummaryResponse{Message: noEntriesTodayMsg})
		}
		var mailErr *report.MailError
		if errors.As(err, &mailErr) {
			return errHttpMailFailure.WithInternal(err)
		}
		return errors.Wrap(err, "sending today's summary")
	}
	return ctx.JSON(http.StatusOK, SummaryResponse{
		Message: "Today's summary has been sent.",
		Sent:    true,
		Entries: count,
	})
}

type (
	SuccessResponse struct {
		Success string `json:"success"`
	}

	SummaryResponse struct {
		Message string `json:"message"`
		Sent    bool   `json:"sent"`
		Entries int    `json:"entries"`
	}
)
