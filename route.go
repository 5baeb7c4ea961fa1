package bootship

import (
	"strconv"
	"strings"
	"time"

	"github.com/eringen/bootship/theme"
)

// Route is a public path resolved to a query shape, before any lookups.
type Route struct {
	Kind     theme.QueryKind
	PostType string // item type of singular and post type archive routes
	Taxonomy string
	Slug     string // item or term slug, author login
	Year     int
	Month    int
	Day      int
	Paged    int // listing page, 0 when absent
	Page     int // page of a multi-page item, 0 when absent
}

// Base returns the first listing page of the route, e.g. "/category/news/".
func (r Route) Base() string {
	switch r.Kind {
	case theme.QueryPostTypeArchive:
		return "/" + r.PostType + "/"
	case theme.QueryCategory:
		return "/category/" + r.Slug + "/"
	case theme.QueryTag:
		return "/tag/" + r.Slug + "/"
	case theme.QueryAuthor:
		return "/author/" + r.Slug + "/"
	case theme.QueryYear:
		return "/" + strconv.Itoa(r.Year) + "/"
	case theme.QueryMonth:
		return "/" + strconv.Itoa(r.Year) + "/" + twoDigits(r.Month) + "/"
	case theme.QueryDay:
		return "/" + strconv.Itoa(r.Year) + "/" + twoDigits(r.Month) + "/" + twoDigits(r.Day) + "/"
	}
	return "/"
}

// DateRange returns the half-open interval of a date archive.
func (r Route) DateRange() (from, to time.Time) {
	switch r.Kind {
	case theme.QueryYear:
		from = time.Date(r.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	case theme.QueryMonth:
		from = time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0)
	case theme.QueryDay:
		from = time.Date(r.Year, time.Month(r.Month), r.Day, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 0, 1)
	}
	return time.Time{}, time.Time{}
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// ParseRoute resolves a request path. The second result is false when no
// route matches.
//
//	/                          home
//	/page/N/                   home, listing page N
//	/blog/<slug>/[N/]          post
//	/project/[page/N/]         project archive
//	/project/<slug>/[N/]       project
//	/attachment/<slug>/        attachment
//	/category/<slug>/[page/N/] category archive, likewise /tag/ and /author/
//	/YYYY/[MM/[DD/]][page/N/]  date archives
//	/<slug>/[N/]               page
func ParseRoute(p string) (Route, bool) {
	segs := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	var rt Route

	if n := len(segs); n >= 2 && segs[n-2] == "page" {
		paged, ok := positive(segs[n-1])
		if !ok {
			return Route{}, false
		}
		rt.Paged = paged
		segs = segs[:n-2]
	}
	singular := func(r Route, rest []string) (Route, bool) {
		if rt.Paged != 0 {
			return Route{}, false
		}
		switch len(rest) {
		case 0:
			return r, true
		case 1:
			n, ok := positive(rest[0])
			if !ok {
				return Route{}, false
			}
			r.Page = n
			return r, true
		}
		return Route{}, false
	}

	if len(segs) == 0 {
		rt.Kind = theme.QueryHome
		return rt, true
	}

	switch segs[0] {
	case "blog":
		if len(segs) == 1 {
			rt.Kind = theme.QueryHome
			return rt, true
		}
		rt.Kind, rt.PostType, rt.Slug = theme.QuerySingle, theme.TypePost, segs[1]
		return singular(rt, segs[2:])
	case theme.TypeProject:
		if len(segs) == 1 {
			rt.Kind, rt.PostType = theme.QueryPostTypeArchive, theme.TypeProject
			return rt, true
		}
		rt.Kind, rt.PostType, rt.Slug = theme.QuerySingle, theme.TypeProject, segs[1]
		return singular(rt, segs[2:])
	case "attachment":
		if len(segs) != 2 || rt.Paged != 0 {
			return Route{}, false
		}
		rt.Kind, rt.PostType, rt.Slug = theme.QueryAttachment, theme.TypeAttachment, segs[1]
		return rt, true
	case "category", "tag", "author":
		if len(segs) != 2 {
			return Route{}, false
		}
		rt.Slug = segs[1]
		switch segs[0] {
		case "category":
			rt.Kind, rt.Taxonomy = theme.QueryCategory, theme.TaxonomyCategory
		case "tag":
			rt.Kind, rt.Taxonomy = theme.QueryTag, theme.TaxonomyTag
		default:
			rt.Kind = theme.QueryAuthor
		}
		return rt, true
	}

	if year, ok := parseYear(segs[0]); ok && len(segs) <= 3 {
		rt.Year, rt.Kind = year, theme.QueryYear
		if len(segs) >= 2 {
			m, ok := positive(segs[1])
			if !ok || m > 12 {
				return Route{}, false
			}
			rt.Month, rt.Kind = m, theme.QueryMonth
		}
		if len(segs) == 3 {
			d, ok := positive(segs[2])
			last := time.Date(rt.Year, time.Month(rt.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
			if !ok || d > last {
				return Route{}, false
			}
			rt.Day, rt.Kind = d, theme.QueryDay
		}
		return rt, true
	}

	rt.Kind, rt.PostType, rt.Slug = theme.QueryPage, theme.TypePage, segs[0]
	return singular(rt, segs[1:])
}

func positive(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func parseYear(s string) (int, bool) {
	if len(s) != 4 {
		return 0, false
	}
	return positive(s)
}
