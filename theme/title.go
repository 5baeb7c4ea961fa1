package theme

import (
	"strconv"
	"strings"
)

// titlePipeline appends the site name, the tagline on the front page and the
// page number, in that order.
var titlePipeline = Pipeline[titleParts]{
	{
		Name: "site-name",
		Apply: func(r *Request, t titleParts) titleParts {
			t.title += r.Site.Name
			return t
		},
	},
	{
		Name: "site-description",
		When: func(r *Request) bool {
			return r.Site.Description != "" && (r.IsHome() || r.IsFrontPage())
		},
		Apply: func(r *Request, t titleParts) titleParts {
			t.title = t.title + " " + t.sep + " " + r.Site.Description
			return t
		},
	},
	{
		Name: "page-number",
		When: func(r *Request) bool { return r.Paged >= 2 || r.Page >= 2 },
		Apply: func(r *Request, t titleParts) titleParts {
			n := max(r.Paged, r.Page)
			t.title = t.title + " " + t.sep + " " + r.T("Page %s", strconv.Itoa(n))
			return t
		},
	},
}

type titleParts struct {
	title string
	sep   string
}

// ComposeTitle builds the document title from the host's default title for
// the view. Feeds are returned untouched.
func ComposeTitle(r *Request, title, sep string) string {
	if r.IsFeed() {
		return title
	}
	return titlePipeline.Run(r, titleParts{title: title, sep: sep}).title
}

// DefaultTitle is the title the host proposes for the view before filtering,
// with the separator placed on the right: "Hello world | ". It is empty on the
// home page.
func DefaultTitle(r *Request, sep string) string {
	var t string
	switch r.Kind {
	case QuerySingle, QueryPage, QueryAttachment:
		if r.Item != nil {
			t = r.Item.Title
		}
	case QueryPostTypeArchive:
		if pt, ok := postTypes[r.PostType]; ok {
			t = r.Label(pt.Labels.Name)
		}
	case QueryCategory, QueryTag:
		if r.Term != nil {
			t = r.Term.Name
		}
	case QueryAuthor:
		if r.Author != nil {
			t = r.Author.DisplayName
		}
	case QueryDay:
		t = r.Date.Format(dateFormat)
	case QueryMonth:
		t = r.Date.Format(monthFormat)
	case QueryYear:
		t = r.Date.Format(yearFormat)
	case QuerySearch:
		t = r.T("Search Results for “%s”", r.Search)
	case QueryNotFound:
		t = r.T("Page not found")
	}
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	return t + " " + sep + " "
}
