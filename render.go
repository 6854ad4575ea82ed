package cleanblog

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// page builds the chrome shared by every HTML response. It consumes pending
// flashes, so call it once per request and before writing the body.
func (a *App) page(c echo.Context, title string) Page {
	return Page{
		Site:    a.Config,
		User:    CurrentUser(c),
		Flashes: takeFlashes(c),
		CSRF:    CsrfToken(c),
		Title:   title,
	}
}

// redirectWithFlash queues msg and answers 303 See Other to target.
func redirectWithFlash(c echo.Context, target, msg string) error {
	if err := addFlash(c, msg); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, target)
}
