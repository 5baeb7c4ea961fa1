package bootship

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/eringen/bootship/theme"
)

// Option keys the theme reads.
const (
	OptionBlogName        = "blogname"
	OptionBlogDescription = "blogdescription"
	OptionThreadComments  = "thread_comments"
	OptionShowAvatars     = "show_avatars"
	OptionPostsPerPage    = "posts_per_page"
)

// LangParam selects a catalog language, overriding Accept-Language.
const LangParam = "lang"

func (a *App) handleView(c echo.Context) error {
	rt, ok := ParseRoute(c.Request().URL.Path)
	if !ok {
		rt = Route{Kind: theme.QueryNotFound}
	}
	req, err := a.BuildRequest(c, rt)
	if err != nil {
		return err
	}
	code := http.StatusOK
	if req.Is404() {
		code = http.StatusNotFound
	}
	return RenderStatus(c, code, a.Theme.Render(req))
}

// BuildRequest performs the lookups for rt and returns the navigation
// context of the view. A route whose item, term or author does not exist
// yields a 404 request, not an error.
func (a *App) BuildRequest(c echo.Context, rt Route) (*theme.Request, error) {
	snap, err := a.Cache.Snapshot()
	if err != nil {
		return nil, err
	}
	req := a.baseRequest(c, snap)
	req.Kind = rt.Kind
	req.Paged = rt.Paged
	req.Page = rt.Page
	req.PostType = rt.PostType
	req.BaseURL = rt.Base()

	q := ItemQuery{Types: []string{theme.TypePost}}
	switch rt.Kind {
	case theme.QueryNotFound:
		return req, nil
	case theme.QueryHome:
		if s := strings.TrimSpace(c.QueryParam("s")); s != "" {
			req.Kind = theme.QuerySearch
			req.Search = s
			q.Types = []string{theme.TypePost, theme.TypePage, theme.TypeProject}
			q.Search = s
		}
	case theme.QuerySingle, theme.QueryPage, theme.QueryAttachment:
		it, err := a.Store.ItemBySlug(rt.PostType, rt.Slug, false)
		if errors.Is(err, ErrNotFound) {
			return a.notFound(req), nil
		}
		if err != nil {
			return nil, err
		}
		if rt.Page > len(theme.SplitPages(it.Content)) {
			return a.notFound(req), nil
		}
		req.Item = &it
		req.Items = []theme.Item{it}
		return req, nil
	case theme.QueryPostTypeArchive:
		q.Types = []string{rt.PostType}
	case theme.QueryCategory, theme.QueryTag:
		term, err := a.Store.TermBySlug(rt.Taxonomy, rt.Slug)
		if errors.Is(err, ErrNotFound) {
			return a.notFound(req), nil
		}
		if err != nil {
			return nil, err
		}
		req.Term = &term
		q.Taxonomy, q.TermSlug = rt.Taxonomy, rt.Slug
	case theme.QueryAuthor:
		u, err := a.Store.UserByLogin(rt.Slug)
		if errors.Is(err, ErrNotFound) {
			return a.notFound(req), nil
		}
		if err != nil {
			return nil, err
		}
		author := u.Author()
		req.Author = &author
		q.Author = u.Login
	case theme.QueryYear, theme.QueryMonth, theme.QueryDay:
		q.From, q.To = rt.DateRange()
		req.Date = q.From
	}

	perPage := req.Settings.PostsPerPage
	q.Limit = perPage
	q.Offset = (req.CurrentPage() - 1) * perPage
	items, total, err := a.Store.ListItems(q)
	if err != nil {
		return nil, err
	}
	req.MaxPages = (total + perPage - 1) / perPage
	if req.Paged > 1 && req.Paged > req.MaxPages {
		return a.notFound(req), nil
	}
	req.Items = items
	return req, nil
}

func (a *App) notFound(req *theme.Request) *theme.Request {
	req.Kind = theme.QueryNotFound
	req.Item, req.Items, req.Term, req.Author = nil, nil, nil, nil
	req.Paged, req.Page, req.MaxPages = 0, 0, 0
	return req
}

// baseRequest fills the site-wide part of a request: identity, options,
// widgets, menus and the negotiated language.
func (a *App) baseRequest(c echo.Context, snap Snapshot) *theme.Request {
	tag := a.negotiateLanguage(c)
	return &theme.Request{
		Site: theme.Site{
			Name:        snap.Option(OptionBlogName, a.Config.Name),
			Description: snap.Option(OptionBlogDescription, a.Config.Description),
			URL:         a.Config.URL,
			Charset:     "UTF-8",
			Language:    tag.String(),
		},
		Settings: theme.Settings{
			ThreadComments: snap.Flag(OptionThreadComments, true),
			ShowAvatars:    snap.Flag(OptionShowAvatars, true),
			PostsPerPage:   snap.Int(OptionPostsPerPage, a.Config.PostsPerPage),
		},
		MultiAuthor:      snap.MultiAuthor,
		Sidebars:         snap.Sidebars,
		Menus:            snap.Menus,
		CustomizePreview: c.QueryParam("customize_preview") == "1" && IsAdmin(c),
		Lang:             tag,
		Printer:          a.Theme.Printer(tag),
		Catalog:          a.Theme.Catalog(),
		Host:             a.Store,
	}
}

func (a *App) negotiateLanguage(c echo.Context) language.Tag {
	cat := a.Theme.Catalog()
	if v := strings.TrimSpace(c.QueryParam(LangParam)); v != "" {
		if tag, err := language.Parse(v); err == nil {
			return cat.Match(tag)
		}
	}
	return cat.MatchAccept(c.Request().Header.Get("Accept-Language"))
}

func (a *App) handleFeed(c echo.Context) error {
	items, _, err := a.Store.ListItems(ItemQuery{Types: []string{theme.TypePost}, Limit: 20})
	if err != nil {
		return err
	}
	snap, err := a.Cache.Snapshot()
	if err != nil {
		return err
	}
	req := a.baseRequest(c, snap)
	req.Kind = theme.QueryFeed
	return a.renderRSS(c, req, items)
}

func (a *App) handleSitemap(c echo.Context) error {
	items, err := a.Store.ListAllItems()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, items)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nDisallow: /admin/\nSitemap: " + BuildURL(a.Config.URL) + "sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = c.String(code, http.StatusText(code))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func (a *App) renderNotFound(c echo.Context) {
	req, err := a.BuildRequest(c, Route{Kind: theme.QueryNotFound})
	if err != nil {
		c.Logger().Errorf("not found page: %v", err)
		_ = c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}
	if err := RenderStatus(c, http.StatusNotFound, a.Theme.Render(req)); err != nil {
		c.Logger().Errorf("not found page: %v", err)
	}
}
