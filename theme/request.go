package theme

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eringen/bootship/i18n"
)

// QueryKind is the shape of the current request as resolved by the host router.
type QueryKind int

const (
	QueryHome QueryKind = iota
	QuerySingle
	QueryPage
	QueryAttachment
	QueryPostTypeArchive
	QueryCategory
	QueryTag
	QueryAuthor
	QueryDay
	QueryMonth
	QueryYear
	QuerySearch
	QueryNotFound
	QueryFeed
)

var queryKindNames = map[QueryKind]string{
	QueryHome:            "home",
	QuerySingle:          "single",
	QueryPage:            "page",
	QueryAttachment:      "attachment",
	QueryPostTypeArchive: "post-type-archive",
	QueryCategory:        "category",
	QueryTag:             "tag",
	QueryAuthor:          "author",
	QueryDay:             "day",
	QueryMonth:           "month",
	QueryYear:            "year",
	QuerySearch:          "search",
	QueryNotFound:        "404",
	QueryFeed:            "feed",
}

func (k QueryKind) String() string {
	if s, ok := queryKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Request is the navigation context of one request. The host builds it once
// after routing and passes it to every render and filter call; nothing in the
// theme reads ambient state.
type Request struct {
	Kind     QueryKind
	Paged    int
	Page     int
	MaxPages int
	PostType string

	Item   *Item
	Items  []Item
	Term   *Term
	Author *Author
	Date   time.Time
	Search string

	// BaseURL is the first page of the current listing, e.g. "/category/news/".
	BaseURL string

	CustomizePreview bool

	Site        Site
	Settings    Settings
	MultiAuthor bool
	Sidebars    map[string][]Widget
	Menus       map[string][]MenuItem

	Lang    language.Tag
	Printer *message.Printer
	Catalog *i18n.Catalog
	Host    Host
}

func (r *Request) IsHome() bool       { return r.Kind == QueryHome }
func (r *Request) IsFrontPage() bool  { return r.Kind == QueryHome }
func (r *Request) IsFeed() bool       { return r.Kind == QueryFeed }
func (r *Request) IsAttachment() bool { return r.Kind == QueryAttachment }
func (r *Request) Is404() bool        { return r.Kind == QueryNotFound }
func (r *Request) IsSearch() bool     { return r.Kind == QuerySearch }
func (r *Request) IsDay() bool        { return r.Kind == QueryDay }
func (r *Request) IsMonth() bool      { return r.Kind == QueryMonth }
func (r *Request) IsYear() bool       { return r.Kind == QueryYear }

// IsSingular reports whether the request resolved to exactly one item.
func (r *Request) IsSingular() bool {
	switch r.Kind {
	case QuerySingle, QueryPage, QueryAttachment:
		return r.Item != nil
	}
	return false
}

// IsArchive reports whether the request lists items by a shared attribute.
func (r *Request) IsArchive() bool {
	switch r.Kind {
	case QueryPostTypeArchive, QueryCategory, QueryTag, QueryAuthor, QueryDay, QueryMonth, QueryYear:
		return true
	}
	return false
}

// IsDate reports whether the request is a date archive.
func (r *Request) IsDate() bool {
	return r.Kind == QueryDay || r.Kind == QueryMonth || r.Kind == QueryYear
}

// IsPaged reports whether the request is beyond the first listing page.
func (r *Request) IsPaged() bool {
	return r.Paged >= 2
}

// CurrentPage returns the listing page number, never below 1.
func (r *Request) CurrentPage() int {
	if r.Paged < 1 {
		return 1
	}
	return r.Paged
}

// IsActiveSidebar reports whether the sidebar region holds at least one widget.
func (r *Request) IsActiveSidebar(id string) bool {
	return len(r.Sidebars[id]) > 0
}

// PageURL returns the URL of listing page n for the current query.
func (r *Request) PageURL(n int) string {
	base := r.BaseURL
	if base == "" {
		base = "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u := base
	if n > 1 {
		u = base + "page/" + strconv.Itoa(n) + "/"
	}
	if r.Search != "" {
		u += "?s=" + url.QueryEscape(r.Search)
	}
	return u
}

// T translates key through the request's catalog printer.
func (r *Request) T(key string, args ...any) string {
	if r == nil {
		return translate(nil, key, args...)
	}
	return translate(r.Printer, key, args...)
}

// Label translates a fixed string such as a content type label. Unlike T it
// never treats the text as a format.
func (r *Request) Label(key string) string {
	if r == nil || r.Catalog == nil {
		return key
	}
	return r.Catalog.Message(r.Lang, key)
}

func translate(p *message.Printer, key string, args ...any) string {
	if p == nil {
		if len(args) == 0 {
			return key
		}
		return fmt.Sprintf(key, args...)
	}
	return p.Sprintf(key, args...)
}
