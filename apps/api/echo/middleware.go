package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core/entry"
)

const ctxObjectKey = "object"

// entryObjectMiddleware loads the entry named by the `:id` path param into the context.
func entryObjectMiddleware(svc *entry.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := strconv.Atoi(ctx.Param("id"))
			if err != nil {
				return errHttpNotFound
			}
			e, err := svc.GetByID(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == entry.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding entry by ID")
			}
			ctx.Set(ctxObjectKey, e)
			return next(ctx)
		}
	}
}
