package theme

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(renderString(t, c)))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// fakeHost serves fixed neighbours and galleries.
type fakeHost struct {
	items       map[int64]*Item
	prev, next  *Item
	attachments map[int64][]Item
	err         error

	calls []string
}

func (h *fakeHost) ItemByID(id int64) (*Item, error) {
	h.calls = append(h.calls, "ItemByID")
	return h.items[id], h.err
}

func (h *fakeHost) Adjacent(_ Item, previous, sameTerm bool) (*Item, error) {
	if previous {
		if !sameTerm {
			return nil, errors.New("previous must be term constrained")
		}
		h.calls = append(h.calls, "Adjacent(prev)")
		return h.prev, h.err
	}
	if sameTerm {
		return nil, errors.New("next must not be term constrained")
	}
	h.calls = append(h.calls, "Adjacent(next)")
	return h.next, h.err
}

func (h *fakeHost) Attachments(parentID int64) ([]Item, error) {
	return h.attachments[parentID], h.err
}

func TestPagingNav(t *testing.T) {
	th := New(Config{})
	tests := []struct {
		name      string
		req       Request
		wantNav   bool
		wantOlder string
		wantNewer string
	}{
		{"single page", Request{MaxPages: 1, Paged: 1}, false, "", ""},
		{"no pages", Request{}, false, "", ""},
		{"first of three", Request{MaxPages: 3, BaseURL: "/category/news/"}, true, "/category/news/page/2/", ""},
		{"middle", Request{MaxPages: 3, Paged: 2, BaseURL: "/category/news/"}, true, "/category/news/page/3/", "/category/news/"},
		{"last", Request{MaxPages: 3, Paged: 3}, true, "", "/page/2/"},
		{"search keeps query", Request{MaxPages: 2, Search: "a b"}, true, "/page/2/?s=a+b", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, th.PagingNav(&tt.req))
			if !tt.wantNav {
				if out != "" {
					t.Errorf("rendered %q, want nothing", out)
				}
				return
			}
			doc := renderDoc(t, th.PagingNav(&tt.req))
			older, hasOlder := doc.Find(".nav-previous a").Attr("href")
			newer, hasNewer := doc.Find(".nav-next a").Attr("href")
			if hasOlder != (tt.wantOlder != "") || older != tt.wantOlder {
				t.Errorf("older = %q, want %q", older, tt.wantOlder)
			}
			if hasNewer != (tt.wantNewer != "") || newer != tt.wantNewer {
				t.Errorf("newer = %q, want %q", newer, tt.wantNewer)
			}
		})
	}
}

func TestPostNav(t *testing.T) {
	th := New(Config{})
	parent := &Item{ID: 1, Title: "Gallery", Link: "/blog/gallery/"}
	earlier := &Item{ID: 2, Title: "Earlier", Link: "/blog/earlier/"}
	later := &Item{ID: 3, Title: "Later", Link: "/blog/later/"}

	t.Run("both sides", func(t *testing.T) {
		h := &fakeHost{prev: earlier, next: later}
		doc := renderDoc(t, th.PostNav(&Request{Kind: QuerySingle, Item: &Item{ID: 9}, Host: h}))
		if href, _ := doc.Find(`.nav-previous a[rel="prev"]`).Attr("href"); href != earlier.Link {
			t.Errorf("prev = %q", href)
		}
		if href, _ := doc.Find(`.nav-next a[rel="next"]`).Attr("href"); href != later.Link {
			t.Errorf("next = %q", href)
		}
	})

	t.Run("only next", func(t *testing.T) {
		h := &fakeHost{next: later}
		doc := renderDoc(t, th.PostNav(&Request{Kind: QuerySingle, Item: &Item{ID: 9}, Host: h}))
		if doc.Find(".nav-previous").Length() != 1 || doc.Find(".nav-previous a").Length() != 0 {
			t.Error("previous slot should be present and empty")
		}
		if doc.Find(".nav-next a").Length() != 1 {
			t.Error("next link missing")
		}
	})

	t.Run("neither", func(t *testing.T) {
		out := renderString(t, th.PostNav(&Request{Kind: QuerySingle, Item: &Item{ID: 9}, Host: &fakeHost{}}))
		if out != "" {
			t.Errorf("rendered %q, want nothing", out)
		}
	})

	t.Run("attachment previous is parent", func(t *testing.T) {
		h := &fakeHost{items: map[int64]*Item{1: parent}, prev: earlier}
		r := &Request{Kind: QueryAttachment, Item: &Item{ID: 9, Type: TypeAttachment, ParentID: 1}, Host: h}
		doc := renderDoc(t, th.PostNav(r))
		if href, _ := doc.Find(`a[rel="prev"]`).Attr("href"); href != parent.Link {
			t.Errorf("prev = %q, want parent", href)
		}
		for _, c := range h.calls {
			if c == "Adjacent(prev)" {
				t.Error("attachment looked up an adjacent previous item")
			}
		}
	})

	t.Run("host error", func(t *testing.T) {
		h := &fakeHost{err: errors.New("db down")}
		var b strings.Builder
		err := th.PostNav(&Request{Kind: QuerySingle, Item: &Item{ID: 9}, Host: h}).Render(context.Background(), &b)
		if err == nil || b.Len() != 0 {
			t.Errorf("err = %v, output %q", err, b.String())
		}
	})
}

func TestNextAttachmentLink(t *testing.T) {
	a := Item{ID: 1, Link: "/a/"}
	b := Item{ID: 2, Link: "/b/"}
	c := Item{ID: 3, Link: "/c/"}
	tests := []struct {
		name     string
		current  Item
		siblings []Item
		want     string
	}{
		{"gallery of one", a, []Item{a}, "/a/"},
		{"no gallery", a, nil, "/a/"},
		{"next in sequence", a, []Item{a, b, c}, "/b/"},
		{"wraps after last", c, []Item{a, b, c}, "/a/"},
		{"not in gallery", Item{ID: 9, Link: "/z/"}, []Item{a, b}, "/a/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextAttachmentLink(tt.current, tt.siblings); got != tt.want {
				t.Errorf("NextAttachmentLink = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAttachedImage(t *testing.T) {
	th := New(Config{UploadsURI: "/files/"})
	first := Item{ID: 1, Type: TypeAttachment, MimeType: "image/jpeg", File: "one.jpg", Title: "One", ParentID: 7, Link: "/one/"}
	second := Item{ID: 2, Type: TypeAttachment, MimeType: "image/jpeg", File: "two.jpg", Title: "Two", ParentID: 7, Link: "/two/"}
	pdf := Item{ID: 3, Type: TypeAttachment, MimeType: "application/pdf", File: "doc.pdf", ParentID: 7, Link: "/doc/"}
	h := &fakeHost{attachments: map[int64][]Item{7: {first, pdf, second}}}

	doc := renderDoc(t, th.AttachedImage(&Request{Kind: QueryAttachment, Item: &second, Host: h}))
	a := doc.Find(`a[rel="attachment"]`)
	if href, _ := a.Attr("href"); href != "/one/" {
		t.Errorf("href = %q, want wrap to first image", href)
	}
	img := a.Find("img")
	if src, _ := img.Attr("src"); src != "/files/two-724x724.jpg" {
		t.Errorf("src = %q", src)
	}
	if w, _ := img.Attr("width"); w != "724" {
		t.Errorf("width = %q", w)
	}

	custom := New(Config{}, WithHelpers(Helpers{AttachmentSize: ImageSize{Name: "big", Width: 1200, Height: 900}}))
	doc = renderDoc(t, custom.AttachedImage(&Request{Kind: QueryAttachment, Item: &first, Host: h}))
	if src, _ := doc.Find("img").Attr("src"); src != "/public/uploads/one-1200x900.jpg" {
		t.Errorf("custom size src = %q", src)
	}
}

func TestSizedFilename(t *testing.T) {
	if got := SizedFilename("photo.jpg", PostThumbnailSize); got != "photo-728x300.jpg" {
		t.Errorf("SizedFilename = %q", got)
	}
	if got := SizedFilename("noext", AttachmentSize); got != "noext-724x724" {
		t.Errorf("SizedFilename = %q", got)
	}
}

func TestWithHelpersReplacesOnlyGivenFields(t *testing.T) {
	th := New(Config{}, WithHelpers(Helpers{
		PagingNav: func(*Request) templ.Component { return templ.Raw("<p>custom</p>") },
	}))
	if got := renderString(t, th.PagingNav(&Request{})); got != "<p>custom</p>" {
		t.Errorf("PagingNav = %q", got)
	}
	if got := renderString(t, th.PostNav(&Request{})); got != "" {
		t.Errorf("default PostNav without item = %q", got)
	}
	if th.Helpers().AttachmentSize != AttachmentSize {
		t.Errorf("AttachmentSize = %+v", th.Helpers().AttachmentSize)
	}
}
