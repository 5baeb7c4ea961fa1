package bootship

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/eringen/bootship/theme"
)

// SiteConfig holds all configuration for a Bootship site.
type SiteConfig struct {
	Name        string `env:"SITE_NAME"`        // Site name (default "Bootship")
	URL         string `env:"SITE_URL"`         // Canonical URL (default "http://localhost:3000")
	Description string `env:"SITE_DESCRIPTION"` // Tagline, shown on the home page title
	Language    string `env:"SITE_LANGUAGE"`    // BCP 47 fallback language (default "en-US")

	Addr         string `env:"ADDR"`          // Listen address (default ":3000")
	DatabasePath string `env:"DATABASE_PATH"` // SQLite path (default "data/bootship.db")
	StaticDir    string `env:"STATIC_DIR"`    // Public files (default "public")
	ThemeURI     string `env:"THEME_URI"`     // Theme asset base URI (default "/public/theme")

	PostsPerPage int           `env:"POSTS_PER_PAGE"` // Default listing size when the option is unset (default 10)
	ItemCacheTTL time.Duration `env:"ITEM_CACHE_TTL"` // Site snapshot cache TTL (default 5min)

	AdminUser     string `env:"ADMIN_USER"`           // Login of the bootstrap administrator (default "admin")
	AdminPassword string `env:"ADMIN_PASSWORD"`       // Required: bootstrap administrator password
	SessionSecret string `env:"ADMIN_SESSION_SECRET"` // Required: session encryption secret
	CookieSecure  bool   `env:"COOKIE_SECURE"`        // Set true for HTTPS
}

// LoadConfig reads the configuration from the environment. Defaults are
// applied by New.
func LoadConfig() (SiteConfig, error) {
	cfg, err := env.ParseAs[SiteConfig]()
	if err != nil {
		return SiteConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Bootship"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Language == "" {
		c.Language = "en-US"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/bootship.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.ThemeURI == "" {
		c.ThemeURI = "/public/theme"
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = 10
	}
	if c.ItemCacheTTL == 0 {
		c.ItemCacheTTL = 5 * time.Minute
	}
	if c.AdminUser == "" {
		c.AdminUser = "admin"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for public files, overriding STATIC_DIR.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithThemeOptions passes options (helper overrides, a logger, template
// files) to the theme when it is created.
func WithThemeOptions(opts ...theme.Option) Option {
	return func(a *App) {
		a.themeOpts = append(a.themeOpts, opts...)
	}
}
