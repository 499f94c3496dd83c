package folio

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/devmert/folio/markdown"
)

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	posts := a.Posts.Posts()
	if tag != "" {
		posts = a.Posts.PostsByTag(tag)
	}
	tags := a.Posts.Tags()

	if c.Request().Header.Get("HX-Request") == "true" {
		switch c.QueryParam("partial") {
		case "blog":
			if a.Views.BlogSection != nil {
				return Render(c, a.Views.BlogSection(posts, tag, tags))
			}
		case "home":
			if a.Views.HomePartial != nil {
				return Render(c, a.Views.HomePartial(posts, tag, tags, a.Config.URL))
			}
		}
	}
	return Render(c, a.Views.Home(posts, tag, tags, a.Config.URL))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Posts.FindBySlug(slug)
	if err != nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}

	body, err := a.Content.Resolve(c.Request().Context(), post)
	if err != nil {
		// The reader canceled the request; there is nobody to render for.
		return err
	}
	view := a.Views.ComingSoon(post)
	if body.Present {
		view = markdown.Markdown(body.Text)
	}
	related := a.Posts.Related(slug, 3)

	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "post" && a.Views.PostPartial != nil {
		return Render(c, a.Views.PostPartial(post, view, related, a.Config.URL))
	}
	return Render(c, a.Views.Post(post, view, related, a.Config.URL))
}

type contentDoc struct {
	Content string `json:"content"`
}

// handleContent is the content-resolution endpoint: it serves raw files
// from the content directory as {"content": ...} documents, the same shape
// HTTPSource consumes. Pointing one site's CONTENT_URL at another site's
// /api/content splits the page server and the content host across
// deployments. Only simple filenames are accepted.
func (a *App) handleContent(c echo.Context) error {
	name := c.Param("name")
	if strings.ContainsAny(name, "/\\") || !filepath.IsLocal(name) {
		return echo.NewHTTPError(http.StatusBadRequest, "content name must be a simple filename")
	}

	text, err := DirSource{Dir: a.Config.ContentDir}.Resolve(c.Request().Context(), name)
	if errors.Is(err, ErrContentNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "content not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contentDoc{Content: text})
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Posts.Slugs())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Posts.Posts())
}

func (a *App) handleRobots(c echo.Context) error {
	sitemapURL := strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml"
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\n\nSitemap: "+sitemapURL+"\n")
}

func (a *App) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"posts":  len(a.Posts.Slugs()),
	})
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	// A canceled request has no reader left: nothing to render, and not a
	// server failure worth an error log.
	if errors.Is(err, context.Canceled) {
		return
	}
	he, ok := err.(*echo.HTTPError)
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.log.Error("server error",
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
	}

	// API routes answer in JSON; pages get the user's error views.
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		a.Echo.DefaultHTTPErrorHandler(err, c)
		return
	}
	if code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	if code >= 500 {
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
