// Package bootship is a small content site server that renders through the
// Bootship theme. It stores posts, pages, projects and attachments in SQLite,
// resolves public URLs into a theme.Request per view, and ships an admin for
// editing items, including the project contractor field.
package bootship

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/eringen/bootship/theme"
)

// App is the central application. It wires together the store, cache,
// theme, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *SiteCache
	Theme  *theme.Theme

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	themeOpts    []theme.Option
	adminViews   *adminViews
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store, sets up the theme, ensures the bootstrap
// administrator exists and registers middleware and routes. Start calls it;
// tests call it directly and drive a.Echo with httptest.
func (a *App) Init() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("bootship: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("bootship: SessionSecret is required")
	}

	lang, err := language.Parse(a.Config.Language)
	if err != nil {
		return fmt.Errorf("bootship: site language %q: %w", a.Config.Language, err)
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("bootship: init store: %w", err)
		}
		a.Store = store
	}
	if err := a.ensureAdmin(); err != nil {
		return fmt.Errorf("bootship: bootstrap admin: %w", err)
	}

	a.Cache = NewSiteCache(a.Store, a.Config.ItemCacheTTL)

	if err := a.SetupTheme(lang); err != nil {
		return err
	}

	views, err := parseAdminViews()
	if err != nil {
		return fmt.Errorf("bootship: admin views: %w", err)
	}
	a.adminViews = views

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// SetupTheme builds the theme for the site language and runs its setup.
func (a *App) SetupTheme(lang language.Tag) error {
	opts := append([]theme.Option{theme.WithLogger(a.Echo.Logger)}, a.themeOpts...)
	a.Theme = theme.New(theme.Config{
		TemplateURI: a.Config.ThemeURI,
		UploadsURI:  "/public/" + uploadsSubdir,
		Language:    lang,
	}, opts...)
	if err := a.Theme.Setup(); err != nil {
		return fmt.Errorf("bootship: theme setup: %w", err)
	}
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) ensureAdmin() error {
	n, err := a.Store.CountUsers()
	if err != nil || n > 0 {
		return err
	}
	_, err = a.Store.CreateUser(a.Config.AdminUser, a.Config.AdminUser, RoleAdministrator, a.Config.AdminPassword)
	if err == nil {
		a.Echo.Logger.Infof("created administrator %q", a.Config.AdminUser)
	}
	return err
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed/", a.handleFeed)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/new/:type/", a.handleAdminNew)
	e.GET("/admin/edit/:id/", a.handleAdminEdit)
	e.POST("/admin/save/", a.handleAdminSave)
	e.POST("/admin/autosave/", a.handleAdminAutosave)
	e.POST("/admin/ajax/save/", a.handleAdminAjaxSave)
	e.DELETE("/admin/item/:id/", a.handleAdminDelete)
	e.GET("/admin/media/", a.handleMediaList)
	e.POST("/admin/media/upload/", a.handleMediaUpload)

	// Everything else resolves through the theme.
	e.GET("/*", a.handleView)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
