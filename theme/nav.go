package theme

import (
	"strings"

	"github.com/a-h/templ"
)

// PagingNav renders older/newer links for listings.
func (t *Theme) PagingNav(r *Request) templ.Component {
	return t.helpers.PagingNav(r)
}

// PostNav renders previous/next links for a single item.
func (t *Theme) PostNav(r *Request) templ.Component {
	return t.helpers.PostNav(r)
}

// HasNextPosts reports whether an older page exists after the current one.
func HasNextPosts(r *Request) bool {
	return r.CurrentPage() < r.MaxPages
}

// HasPreviousPosts reports whether a newer page exists before the current one.
func HasPreviousPosts(r *Request) bool {
	return r.CurrentPage() > 1
}

func (t *Theme) pagingNav(r *Request) templ.Component {
	if r.MaxPages < 2 {
		return templ.NopComponent
	}
	return fragment(func(b *strings.Builder) error {
		b.WriteString(`<nav class="navigation paging-navigation" role="navigation">`)
		b.WriteString(`<h1 class="screen-reader-text">` + esc(r.T("Posts navigation")) + `</h1>`)
		b.WriteString(`<div class="nav-links">`)
		if HasNextPosts(r) {
			b.WriteString(`<div class="nav-previous"><a href="` + esc(r.PageURL(r.CurrentPage()+1)) + `">`)
			b.WriteString(r.T(`<span class="meta-nav">&larr;</span> Older posts`))
			b.WriteString(`</a></div>`)
		}
		if HasPreviousPosts(r) {
			b.WriteString(`<div class="nav-next"><a href="` + esc(r.PageURL(r.CurrentPage()-1)) + `">`)
			b.WriteString(r.T(`Newer posts <span class="meta-nav">&rarr;</span>`))
			b.WriteString(`</a></div>`)
		}
		b.WriteString(`</div></nav>`)
		return nil
	})
}

// AdjacentItems returns the items the single-item navigation links to. On an
// attachment "previous" is the parent item; otherwise it is the earlier item
// sharing a category. "next" is the later item without term constraint.
func AdjacentItems(r *Request) (prev, next *Item, err error) {
	if r.Item == nil || r.Host == nil {
		return nil, nil, nil
	}
	item := *r.Item
	if r.IsAttachment() {
		if item.ParentID != 0 {
			prev, err = r.Host.ItemByID(item.ParentID)
		}
	} else {
		prev, err = r.Host.Adjacent(item, true, true)
	}
	if err != nil {
		return nil, nil, err
	}
	next, err = r.Host.Adjacent(item, false, false)
	if err != nil {
		return nil, nil, err
	}
	return prev, next, nil
}

func (t *Theme) postNav(r *Request) templ.Component {
	return fragment(func(b *strings.Builder) error {
		prev, next, err := AdjacentItems(r)
		if err != nil {
			return err
		}
		if prev == nil && next == nil {
			return nil
		}
		b.WriteString(`<nav class="navigation post-navigation" role="navigation">`)
		b.WriteString(`<h1 class="screen-reader-text">` + esc(r.T("Post navigation")) + `</h1>`)
		b.WriteString(`<div class="nav-links">`)
		b.WriteString(`<div class="nav-previous">`)
		if prev != nil {
			b.WriteString(`<span class="nav-links__label">` + esc(r.T("Previous Article")) + `</span> `)
			b.WriteString(`<a href="` + esc(prev.Link) + `" rel="prev">` + esc(prev.Title) + `</a>`)
		}
		b.WriteString(`</div>`)
		b.WriteString(`<div class="nav-next">`)
		if next != nil {
			b.WriteString(`<span class="nav-links__label">` + esc(r.T("Next Article")) + `</span> `)
			b.WriteString(`<a href="` + esc(next.Link) + `" rel="next">` + esc(next.Title) + `</a>`)
		}
		b.WriteString(`</div>`)
		b.WriteString(`</div></nav>`)
		return nil
	})
}
