// Package theme is the Bootship theme: the template renderer, the asset and
// capability declarations, the title and body class composers and the
// "project" content type with its contractor field.
//
// The host (the bootship package) owns storage, routing and sessions. It
// builds one Request per page view and hands it to Theme.Render; the theme
// only reads from the Host interface and writes a single custom field through
// MetaWriter on save.
package theme

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eringen/bootship/i18n"
)

// TextDomain is the catalog domain of the theme's strings.
const TextDomain = "bootship"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed languages/*.yaml
var languageFS embed.FS

// Config locates the theme's public files.
type Config struct {
	TemplateURI   string       // base URI of theme assets (default "/public/theme")
	StylesheetURI string       // main stylesheet (default TemplateURI + "/style.css")
	CoreURI       string       // host-provided scripts (default "/public/vendor")
	UploadsURI    string       // attachment files (default "/public/uploads")
	Language      language.Tag // fallback language (default en-US)
}

func (c *Config) setDefaults() {
	if c.TemplateURI == "" {
		c.TemplateURI = "/public/theme"
	}
	c.TemplateURI = strings.TrimSuffix(c.TemplateURI, "/")
	if c.StylesheetURI == "" {
		c.StylesheetURI = c.TemplateURI + "/style.css"
	}
	if c.CoreURI == "" {
		c.CoreURI = "/public/vendor"
	}
	if c.UploadsURI == "" {
		c.UploadsURI = "/public/uploads"
	}
	c.UploadsURI = strings.TrimSuffix(c.UploadsURI, "/")
	if c.Language == language.Und {
		c.Language = language.AmericanEnglish
	}
}

// Logger receives diagnostics. echo.Logger satisfies it.
type Logger interface {
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Theme is the configured theme. It is safe for concurrent use once Setup has
// returned.
type Theme struct {
	cfg     Config
	helpers Helpers
	log     Logger

	setupOnce sync.Once
	setupErr  error
	supports  Supports
	catalog   *i18n.Catalog
	printer   *message.Printer
	tmpl      *template.Template
	templates fs.FS
}

// Option configures a Theme.
type Option func(*Theme)

// WithHelpers replaces the default navigation and meta helpers. Zero fields
// keep the default.
func WithHelpers(h Helpers) Option {
	return func(t *Theme) {
		t.helpers = h.merge(t.helpers)
	}
}

// WithLogger sets the diagnostics sink.
func WithLogger(l Logger) Option {
	return func(t *Theme) {
		if l != nil {
			t.log = l
		}
	}
}

// WithTemplates swaps the template files, e.g. for a child theme that keeps
// the same template names.
func WithTemplates(fsys fs.FS) Option {
	return func(t *Theme) {
		t.templates = fsys
	}
}

// New creates a theme. Call Setup before rendering.
func New(cfg Config, opts ...Option) *Theme {
	cfg.setDefaults()
	t := &Theme{
		cfg:       cfg,
		log:       nopLogger{},
		templates: templateFS,
	}
	t.helpers = defaultHelpers(t)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Config returns the theme configuration with defaults applied.
func (t *Theme) Config() Config {
	return t.cfg
}

// Setup declares the theme's capabilities, loads its translation catalog and
// parses its templates. Only the first call does any work.
func (t *Theme) Setup() error {
	t.setupOnce.Do(func() {
		cat, err := i18n.Load(languageFS, "languages", TextDomain, t.cfg.Language)
		if err != nil {
			t.setupErr = err
			return
		}
		t.catalog = cat
		t.printer = cat.Printer(t.cfg.Language)
		t.supports = t.declareSupport()
		tmpl, err := t.parseTemplates()
		if err != nil {
			t.setupErr = err
			return
		}
		t.tmpl = tmpl
		t.log.Debugf("theme: setup done, %d features, %d templates", len(t.supports.Features), len(tmpl.Templates()))
	})
	return t.setupErr
}

// Supports returns the capabilities declared at setup.
func (t *Theme) Supports() Supports {
	return t.supports
}

// Catalog returns the theme's translation catalog.
func (t *Theme) Catalog() *i18n.Catalog {
	return t.catalog
}

// T translates key in the theme's fallback language. Request.T should be
// preferred while rendering.
func (t *Theme) T(key string, args ...any) string {
	return translate(t.printer, key, args...)
}

// Printer returns a printer for tag, falling back to the theme language.
func (t *Theme) Printer(tag language.Tag) *message.Printer {
	if t.catalog == nil {
		return nil
	}
	return t.catalog.Printer(tag)
}
