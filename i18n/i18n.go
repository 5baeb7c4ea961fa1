// Package i18n loads translation catalogs from YAML files into an x/text
// catalog and hands out printers for negotiated languages.
package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// File is one catalog file: the messages of one domain in one locale.
type File struct {
	Locale   string            `yaml:"locale"`
	Domain   string            `yaml:"domain"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds the translations of one text domain.
type Catalog struct {
	domain   string
	fallback language.Tag
	builder  *catalog.Builder
	tags     []language.Tag
	matcher  language.Matcher
	counts   map[language.Tag]int
}

// Load reads every *.yaml file in dir of fsys whose domain matches domain.
// Files of other domains are ignored. fallback is used for keys missing in
// the negotiated language and must be one of the loaded locales.
func Load(fsys fs.FS, dir, domain string, fallback language.Tag) (*Catalog, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	sort.Strings(paths)

	c := &Catalog{
		domain:   domain,
		fallback: fallback,
		builder:  catalog.NewBuilder(catalog.Fallback(fallback)),
		counts:   map[language.Tag]int{},
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var f File
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if f.Domain != domain {
			continue
		}
		if err := c.add(f); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
	}
	if _, ok := c.counts[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s is not defined for domain %q", fallback, domain)
	}

	sort.Slice(c.tags, func(i, j int) bool {
		// The fallback goes first so the matcher prefers it on ties.
		if c.tags[i] == fallback {
			return true
		}
		if c.tags[j] == fallback {
			return false
		}
		return c.tags[i].String() < c.tags[j].String()
	})
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func (c *Catalog) add(f File) error {
	tag, err := language.Parse(strings.TrimSpace(f.Locale))
	if err != nil {
		return fmt.Errorf("locale %q: %w", f.Locale, err)
	}
	if _, ok := c.counts[tag]; !ok {
		c.tags = append(c.tags, tag)
	}
	keys := make([]string, 0, len(f.Messages))
	for k := range f.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("blank message key")
		}
		if err := c.builder.SetString(tag, k, f.Messages[k]); err != nil {
			return fmt.Errorf("set %q: %w", k, err)
		}
	}
	c.counts[tag] += len(keys)
	return nil
}

// Domain returns the text domain of the catalog.
func (c *Catalog) Domain() string {
	return c.domain
}

// Languages returns the loaded locales, fallback first.
func (c *Catalog) Languages() []language.Tag {
	out := make([]language.Tag, len(c.tags))
	copy(out, c.tags)
	return out
}

// Len returns the number of messages defined for tag.
func (c *Catalog) Len(tag language.Tag) int {
	return c.counts[tag]
}

// Match picks the best loaded locale for the preferred tags.
func (c *Catalog) Match(preferred ...language.Tag) language.Tag {
	if len(preferred) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(preferred...)
	if conf == language.No {
		return c.fallback
	}
	return c.tags[idx]
}

// MatchAccept negotiates an Accept-Language header value.
func (c *Catalog) MatchAccept(accept string) language.Tag {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return c.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil {
		return c.fallback
	}
	return c.Match(tags...)
}

// Printer returns a printer for the best match of tag.
func (c *Catalog) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(c.Match(tag), message.Catalog(c.builder))
}

// Message returns the translation of key in tag without formatting, so a
// "%" in the text is kept as is. Keys missing in tag fall back to the
// fallback locale, then to key itself.
func (c *Catalog) Message(tag language.Tag, key string) string {
	for _, t := range []language.Tag{c.Match(tag), c.fallback} {
		var r plainRenderer
		if err := c.builder.Context(t, &r).Execute(key); err == nil {
			return r.b.String()
		}
	}
	return key
}

// plainRenderer collects message text without interpreting verbs.
type plainRenderer struct {
	b strings.Builder
}

func (r *plainRenderer) Render(s string)       { r.b.WriteString(s) }
func (r *plainRenderer) Arg(i int) interface{} { return nil }
