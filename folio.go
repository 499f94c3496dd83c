// Package folio is the engine behind a personal portfolio and blog site,
// built with Go, Echo, and templ. It serves a post catalog from a JSON data
// file, resolves post bodies from inline content or a content source, and
// renders them through a small markdown dialect, with RSS, sitemap, and
// Prometheus metrics out of the box.
//
// Users provide their own templ components via the ViewFuncs struct and own
// every pixel of the site; folio handles routing, middleware, content
// resolution, and rendering.
package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ViewFuncs holds user-provided templ components that the engine calls when
// rendering pages. Home, Post, ComingSoon, NotFound, and ServerError are
// required; the partial variants are optional and fall back to the full
// page when nil.
//
// Post and PostPartial receive the rendered post body as a component: the
// markdown output when the body is present, or the ComingSoon component
// when it is absent.
type ViewFuncs struct {
	Home        func(posts []Post, activeTag string, tags []string, siteURL string) templ.Component
	HomePartial func(posts []Post, activeTag string, tags []string, siteURL string) templ.Component
	BlogSection func(posts []Post, activeTag string, tags []string) templ.Component
	Post        func(post Post, body templ.Component, related []Post, siteURL string) templ.Component
	PostPartial func(post Post, body templ.Component, related []Post, siteURL string) templ.Component
	ComingSoon  func(post Post) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

func (v ViewFuncs) check() error {
	switch {
	case v.Home == nil:
		return errors.New("folio: ViewFuncs.Home is required")
	case v.Post == nil:
		return errors.New("folio: ViewFuncs.Post is required")
	case v.ComingSoon == nil:
		return errors.New("folio: ViewFuncs.ComingSoon is required")
	case v.NotFound == nil:
		return errors.New("folio: ViewFuncs.NotFound is required")
	case v.ServerError == nil:
		return errors.New("folio: ViewFuncs.ServerError is required")
	}
	return nil
}

// App is the central folio application. It wires together the post registry,
// content loader, handlers, middleware, and user-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Posts   *Registry
	Content *Loader
	Views   ViewFuncs

	log          *zap.Logger
	source       Source
	limiter      *RateLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a folio App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// init wires everything below the listener: logger, registry, content
// source, loader, limiter, middleware, and routes.
func (a *App) init() error {
	if err := a.Views.check(); err != nil {
		return err
	}
	if a.log == nil {
		a.log = newLogger(a.Config)
	}

	reg, err := LoadRegistry(a.Config.PostsPath)
	if err != nil {
		return fmt.Errorf("folio: load posts: %w", err)
	}
	a.Posts = reg

	if a.source == nil {
		if a.Config.ContentURL != "" {
			a.source = HTTPSource{BaseURL: a.Config.ContentURL}
		} else {
			a.source = DirSource{Dir: a.Config.ContentDir}
		}
	}
	a.Content = NewLoader(a.source, a.Config.ContentTTL, a.log)
	a.limiter = NewRateLimiter(a.Config.ContentRateLimit, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.log.Info("folio ready",
		zap.String("site", a.Config.Name),
		zap.Int("posts", len(a.Posts.Slugs())))
	return nil
}

// Start initializes the app and starts the HTTP server. It blocks until the
// server stops.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and flushes the logger.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Engine assets ship embedded and are served under /public/, falling
	// through to the user's static dir for everything else.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/partials.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", a.handleHealth)
	e.GET("/blog/", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)

	e.GET("/api/content/:name", a.handleContent, a.contentRateLimit)

	if a.Config.MetricsEnabled {
		e.GET("/metrics", metricsHandler())
	}
}
