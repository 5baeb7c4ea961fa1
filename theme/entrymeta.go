package theme

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
)

const (
	dateFormat  = "January 2, 2006"
	monthFormat = "January 2006"
	yearFormat  = "2006"
)

// PageBreak splits an item body into pages.
const PageBreak = "<!--nextpage-->"

var formatNames = map[string]string{
	"aside":   "Aside",
	"audio":   "Audio",
	"chat":    "Chat",
	"gallery": "Gallery",
	"image":   "Image",
	"link":    "Link",
	"quote":   "Quote",
	"status":  "Status",
	"video":   "Video",
}

// FormatName returns the display name of a post format, "Standard" for none.
func FormatName(format string) string {
	if n, ok := formatNames[format]; ok {
		return n
	}
	return "Standard"
}

// EntryMeta renders the byline of an item: sticky badge, date, terms and
// author.
func (t *Theme) EntryMeta(r *Request, item Item) templ.Component {
	return t.helpers.EntryMeta(r, item)
}

// EntryDate renders the permalinked date of an item.
func (t *Theme) EntryDate(r *Request, item Item) templ.Component {
	return t.helpers.EntryDate(r, item)
}

func (t *Theme) entryMeta(r *Request, item Item) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if item.Sticky && r.IsHome() && !r.IsPaged() {
			if _, err := io.WriteString(w, `<span class="featured-post">`+esc(r.T("Sticky"))+`</span>`); err != nil {
				return err
			}
		}
		if item.Format != "link" && item.Type == TypePost {
			if err := t.helpers.EntryDate(r, item).Render(ctx, w); err != nil {
				return err
			}
		}
		var b strings.Builder
		if list := termList(item.Categories, r.T(", "), "category tag"); list != "" {
			b.WriteString(`<span class="categories-links">` + list + `</span>`)
		}
		if list := termList(item.Tags, r.T(", "), "tag"); list != "" {
			b.WriteString(`<span class="tags-links">` + list + `</span>`)
		}
		if item.Type == TypePost && item.Author.Login != "" {
			fmt.Fprintf(&b, `<span class="author vcard"><a class="url fn n" href="%s" title="%s" rel="author">%s</a></span>`,
				esc(item.Author.Link()),
				esc(r.T("View all posts by %s", item.Author.DisplayName)),
				esc(item.Author.DisplayName))
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func termList(terms []Term, sep, rel string) string {
	links := make([]string, 0, len(terms))
	for _, term := range terms {
		links = append(links, `<a href="`+esc(term.Link)+`" rel="`+rel+`">`+esc(term.Name)+`</a>`)
	}
	return strings.Join(links, sep)
}

func (t *Theme) entryDate(r *Request, item Item) templ.Component {
	return fragment(func(b *strings.Builder) error {
		fmt.Fprintf(b, `<span class="date"><a href="%s" title="%s" rel="bookmark"><time class="entry-date" datetime="%s">%s</time></a></span>`,
			esc(item.Link),
			esc(r.T("Permalink to %s", item.Title)),
			esc(item.Date.Format(time.RFC3339)),
			esc(EntryDateText(r, item)))
		return nil
	})
}

// EntryDateText is the visible date of an item. Chat and status posts are
// prefixed with their format name.
func EntryDateText(r *Request, item Item) string {
	date := item.Date.Format(dateFormat)
	if item.Format == "chat" || item.Format == "status" {
		return r.T("%[1]s on %[2]s", FormatName(item.Format), date)
	}
	return date
}

// SplitPages splits content on PageBreak. There is always at least one page.
func SplitPages(content string) []string {
	pages := strings.Split(content, PageBreak)
	for i := range pages {
		pages[i] = strings.TrimSpace(pages[i])
	}
	return pages
}

// PageContent returns page n (1-based) of content, clamping out-of-range
// values to the nearest page.
func PageContent(content string, n int) string {
	pages := SplitPages(content)
	n = min(max(n, 1), len(pages))
	return pages[n-1]
}

// LinkPages renders links to the pages of a multi-page item. Single page
// items render nothing.
func LinkPages(r *Request, item Item) templ.Component {
	pages := len(SplitPages(item.Content))
	if pages < 2 {
		return templ.NopComponent
	}
	cur := max(r.Page, 1)
	return fragment(func(b *strings.Builder) error {
		b.WriteString(`<div class="page-links"><span class="page-links-title">` + esc(r.T("Pages:")) + `</span>`)
		for i := 1; i <= pages; i++ {
			n := strconv.Itoa(i)
			if i == cur {
				b.WriteString(` <span>` + n + `</span>`)
				continue
			}
			href := item.Link
			if i > 1 {
				href = strings.TrimSuffix(item.Link, "/") + "/" + n + "/"
			}
			b.WriteString(` <a href="` + esc(href) + `">` + n + `</a>`)
		}
		b.WriteString(`</div>`)
		return nil
	})
}
