package folio

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes component as the 200 response body.
func Render(c echo.Context, component templ.Component) error {
	return RenderStatus(c, http.StatusOK, component)
}

// RenderStatus writes component as an HTML response with the given status.
// A response that something already wrote is left alone, so the error views
// cannot clobber a partially sent page.
func RenderStatus(c echo.Context, status int, component templ.Component) error {
	res := c.Response()
	if res.Committed {
		return nil
	}
	res.Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	res.WriteHeader(status)
	return component.Render(c.Request().Context(), res)
}
