package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core/report"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, svc *report.Service) {
	api := reportApi{svc: svc}

	g.GET("/dashboard", api.dashboard)
	g.GET("/reports", api.reports)
}

func (api *reportApi) dashboard(ctx echo.Context) error {
	d, err := api.svc.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing dashboard")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *reportApi) reports(ctx echo.Context) error {
	r, err := api.svc.Reports(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing reports")
	}
	return ctx.JSON(http.StatusOK, r)
}
