package theme

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/bootship/markdown"
)

// TitleSeparator separates the parts of the document title.
const TitleSeparator = "|"

// Page is the data every template executes with.
type Page struct {
	Req      *Request
	Template string

	ctx    context.Context
	head   []Asset
	footer []Asset
}

// Entry is the data of the content partials.
type Entry struct {
	Page *Page
	Item Item
}

// Req returns the request of the enclosing page.
func (e Entry) Req() *Request {
	return e.Page.Req
}

// Render resolves the template for r and returns the full document.
func (t *Theme) Render(r *Request) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if t.tmpl == nil {
			return fmt.Errorf("theme: render before setup")
		}
		name := t.ResolveTemplate(r)
		p := &Page{Req: r, Template: name, ctx: ctx}
		p.head, p.footer = t.splitAssets(r)
		return templ.FromGoHTML(t.tmpl.Lookup(name), p).Render(ctx, w)
	})
}

// RenderTemplate renders one named template, e.g. a partial for an async
// fragment.
func (t *Theme) RenderTemplate(name string, r *Request) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if t.tmpl == nil || t.tmpl.Lookup(name) == nil {
			return fmt.Errorf("theme: unknown template %q", name)
		}
		p := &Page{Req: r, Template: name, ctx: ctx}
		p.head, p.footer = t.splitAssets(r)
		return templ.FromGoHTML(t.tmpl.Lookup(name), p).Render(ctx, w)
	})
}

func (t *Theme) splitAssets(r *Request) (head, footer []Asset) {
	head, footer, skipped := t.EnqueueAssets(r).Split()
	for _, h := range skipped {
		t.log.Warnf("theme: asset %q skipped, unresolved dependencies", h)
	}
	return head, footer
}

func (p *Page) context() context.Context {
	if p.ctx == nil {
		return context.Background()
	}
	return p.ctx
}

func (p *Page) html(c templ.Component) (template.HTML, error) {
	return templ.ToGoHTML(p.context(), c)
}

func (t *Theme) parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("bootship").Funcs(t.funcMap()).ParseFS(t.templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

func (t *Theme) funcMap() template.FuncMap {
	return template.FuncMap{
		"title": func(p *Page) string {
			return ComposeTitle(p.Req, DefaultTitle(p.Req, TitleSeparator), TitleSeparator)
		},
		"bodyClass": func(p *Page) string {
			return strings.Join(BodyClasses(p.Req, BaseBodyClasses(p.Req)), " ")
		},
		"headAssets": func(p *Page) (template.HTML, error) {
			out, err := p.html(AssetTags(p.head))
			if err != nil {
				return "", err
			}
			if t.supports.Has("automatic-feed-links") {
				out += template.HTML(fmt.Sprintf(`<link rel="alternate" type="application/rss+xml" title="%s" href="%s">`+"\n",
					esc(p.Req.T("%s Feed", p.Req.Site.Name)), esc(strings.TrimSuffix(p.Req.Site.URL, "/")+"/feed/")))
			}
			return out, nil
		},
		"footerAssets": func(p *Page) (template.HTML, error) {
			return p.html(AssetTags(p.footer))
		},
		"navMenu": func(p *Page, location, class string) (template.HTML, error) {
			return p.html(t.RenderNavMenu(p.Req, location, class))
		},
		"sidebar": func(p *Page, id string) (template.HTML, error) {
			return p.html(t.RenderSidebar(p.Req, id))
		},
		"activeSidebar": func(p *Page, id string) bool {
			return p.Req.IsActiveSidebar(id)
		},
		"pagingNav": func(p *Page) (template.HTML, error) {
			return p.html(t.helpers.PagingNav(p.Req))
		},
		"postNav": func(p *Page) (template.HTML, error) {
			return p.html(t.helpers.PostNav(p.Req))
		},
		"attachedImage": func(p *Page) (template.HTML, error) {
			return p.html(t.helpers.AttachedImage(p.Req))
		},
		"entryMeta": func(e Entry) (template.HTML, error) {
			return e.Page.html(t.helpers.EntryMeta(e.Page.Req, e.Item))
		},
		"entryDate": func(e Entry) (template.HTML, error) {
			return e.Page.html(t.helpers.EntryDate(e.Page.Req, e.Item))
		},
		"linkPages": func(e Entry) (template.HTML, error) {
			return e.Page.html(LinkPages(e.Page.Req, e.Item))
		},
		"entry": func(p *Page, item any) (Entry, error) {
			switch it := item.(type) {
			case Item:
				return Entry{Page: p, Item: it}, nil
			case *Item:
				if it != nil {
					return Entry{Page: p, Item: *it}, nil
				}
			}
			return Entry{}, fmt.Errorf("entry: unexpected %T", item)
		},
		"body": func(e Entry) (template.HTML, error) {
			page := 1
			if e.Page.Req.IsSingular() {
				page = e.Page.Req.Page
			}
			return e.Page.html(markdown.Markdown(PageContent(e.Item.Content, page)))
		},
		"excerpt": func(e Entry) string {
			if e.Item.Excerpt != "" {
				return e.Item.Excerpt
			}
			return truncateWords(markdown.Plain(PageContent(e.Item.Content, 1)), 55)
		},
		"thumbnail": func(e Entry) template.HTML {
			if e.Item.ThumbnailFile == "" {
				return ""
			}
			size := t.supports.ThumbnailSize
			return template.HTML(fmt.Sprintf(`<img width="%d" height="%d" src="%s" class="attachment-post-thumbnail wp-post-image" alt="%s">`,
				size.Width, size.Height, esc(t.UploadURL(SizedFilename(e.Item.ThumbnailFile, size))), esc(e.Item.Title)))
		},
		"meta": func(item Item, key string) string {
			return item.Meta[key]
		},
		"isSingular": func(p *Page) bool {
			return p.Req.IsSingular()
		},
		"archiveTitle": func(p *Page) string {
			return ArchiveTitle(p.Req)
		},
		"t": func(p *Page, key string, args ...any) string {
			return p.Req.T(key, args...)
		},
		"home": func(p *Page) string {
			if p.Req.Site.URL == "" {
				return "/"
			}
			return strings.TrimSuffix(p.Req.Site.URL, "/") + "/"
		},
		"themeURI": func() string {
			return t.cfg.TemplateURI
		},
		"contentWidth": ContentWidth,
		"formatName":   FormatName,
	}
}

// ArchiveTitle is the heading of a listing page.
func ArchiveTitle(r *Request) string {
	switch r.Kind {
	case QueryDay:
		return r.T("Daily Archives: %s", r.Date.Format(dateFormat))
	case QueryMonth:
		return r.T("Monthly Archives: %s", r.Date.Format(monthFormat))
	case QueryYear:
		return r.T("Yearly Archives: %s", r.Date.Format(yearFormat))
	case QueryCategory, QueryTag:
		if r.Term != nil {
			return r.Term.Name
		}
	case QueryAuthor:
		if r.Author != nil {
			return r.Author.DisplayName
		}
	case QueryPostTypeArchive:
		if pt, ok := postTypes[r.PostType]; ok {
			return r.Label(pt.Labels.Name)
		}
	}
	return r.T("Archives")
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + " …"
}
