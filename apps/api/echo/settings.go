package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
)

const (
	userNameCookie = "UserName"
	themeCookie    = "theme"
	cookieMaxAge   = 30 * 24 * time.Hour

	nameEmptyMsg = "Name cannot be empty."
)

type settingsApi struct {
	validate *validator.Validate
}

func registerSettingsAPI(g *echo.Group, validate *validator.Validate) {
	api := settingsApi{validate: validate}

	sg := g.Group("/settings")
	sg.GET("", api.retrieve)
	sg.POST("", api.save)
	sg.DELETE("", api.clear)
}

func cookieValue(ctx echo.Context, name string) string {
	c, err := ctx.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func setCookie(ctx echo.Context, name, value string, maxAge time.Duration) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		c.Expires = core.NowFunc().Add(maxAge)
		c.MaxAge = int(maxAge.Seconds())
	} else {
		c.Expires = time.Unix(0, 0)
		c.MaxAge = -1
	}
	ctx.SetCookie(c)
}

func (api *settingsApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, Settings{
		Name:  cookieValue(ctx, userNameCookie),
		Theme: cookieValue(ctx, themeCookie),
	})
}

func (api *settingsApi) save(ctx echo.Context) error {
	var data Settings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Settings")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	setCookie(ctx, userNameCookie, data.Name, cookieMaxAge)
	if data.Theme != "" {
		setCookie(ctx, themeCookie, data.Theme, cookieMaxAge)
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Your name has been saved."})
}

func (api *settingsApi) clear(ctx echo.Context) error {
	setCookie(ctx, userNameCookie, "", 0)
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Saved name has been cleared."})
}

type Settings struct {
	Name  string `json:"name"`
	Theme string `json:"theme" validate:"omitempty,oneof=light dark"`
}

func (s *Settings) Validate(validate *validator.Validate) error {
	s.Name = core.CleanString(s.Name)
	s.Theme = core.CleanString(s.Theme, true /* lower */)
	if s.Name == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "name", Error: nameEmptyMsg})
	}
	return validate.Struct(s)
}
