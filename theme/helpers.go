package theme

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Helpers are the template tags a child configuration may replace. They are
// resolved once when the Theme is built; templates always call through
// Theme.helpers.
type Helpers struct {
	PagingNav      func(r *Request) templ.Component
	PostNav        func(r *Request) templ.Component
	EntryMeta      func(r *Request, item Item) templ.Component
	EntryDate      func(r *Request, item Item) templ.Component
	AttachedImage  func(r *Request) templ.Component
	AttachmentSize ImageSize
}

func (h Helpers) merge(base Helpers) Helpers {
	if h.PagingNav == nil {
		h.PagingNav = base.PagingNav
	}
	if h.PostNav == nil {
		h.PostNav = base.PostNav
	}
	if h.EntryMeta == nil {
		h.EntryMeta = base.EntryMeta
	}
	if h.EntryDate == nil {
		h.EntryDate = base.EntryDate
	}
	if h.AttachedImage == nil {
		h.AttachedImage = base.AttachedImage
	}
	if h.AttachmentSize.Width == 0 || h.AttachmentSize.Height == 0 {
		h.AttachmentSize = base.AttachmentSize
	}
	return h
}

func defaultHelpers(t *Theme) Helpers {
	return Helpers{
		PagingNav:      t.pagingNav,
		PostNav:        t.postNav,
		EntryMeta:      t.entryMeta,
		EntryDate:      t.entryDate,
		AttachedImage:  t.attachedImage,
		AttachmentSize: AttachmentSize,
	}
}

// Helpers returns the resolved helper set.
func (t *Theme) Helpers() Helpers {
	return t.helpers
}

// fragment builds a component from a function that writes markup into b.
// Nothing is written to w when fn fails.
func fragment(fn func(b *strings.Builder) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		if err := fn(&b); err != nil {
			return err
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func esc(s string) string {
	return templ.EscapeString(s)
}
