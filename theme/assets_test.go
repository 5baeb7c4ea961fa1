package theme

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

func handles(assets []Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Handle
	}
	return out
}

func TestAssetsFirstDeclarationWins(t *testing.T) {
	a := NewAssets("/core")
	a.Enqueue(Asset{Kind: Style, Handle: "main", Src: "/one.css"})
	a.Enqueue(Asset{Kind: Style, Handle: "main", Src: "/two.css"})
	a.EnqueueHandle(Style, "main")

	if diff := cmp.Diff([]string{"main"}, a.Queued(Style)); diff != "" {
		t.Errorf("Queued mismatch (-want +got):\n%s", diff)
	}
	got, _ := a.Get(Style, "main")
	if got.Src != "/one.css" || got.Media != "all" {
		t.Errorf("registered = %+v", got)
	}
	// Styles and scripts have separate namespaces.
	if !a.Register(Asset{Kind: Script, Handle: "main", Src: "/main.js"}) {
		t.Error("script handle clashed with style handle")
	}
}

func TestAssetsResolveOrdersDependencies(t *testing.T) {
	a := NewAssets("/core")
	a.Enqueue(Asset{Kind: Script, Handle: "app", Deps: []string{"bootstrap", "jquery"}, InFooter: true})
	a.Enqueue(Asset{Kind: Script, Handle: "bootstrap", Deps: []string{"jquery", "popper"}, InFooter: true})
	a.Enqueue(Asset{Kind: Script, Handle: "popper", InFooter: true})
	a.Enqueue(Asset{Kind: Script, Handle: "broken", Deps: []string{"missing"}})
	a.Enqueue(Asset{Kind: Script, Handle: "loop-a", Deps: []string{"loop-b"}})
	a.Enqueue(Asset{Kind: Script, Handle: "loop-b", Deps: []string{"loop-a"}})

	ordered, skipped := a.Resolve(Script)
	if diff := cmp.Diff([]string{"jquery", "popper", "bootstrap", "app"}, handles(ordered)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	for _, h := range []string{"broken", "loop-a"} {
		if !strings.Contains(strings.Join(skipped, ","), h) {
			t.Errorf("skipped %v does not report %s", skipped, h)
		}
	}
}

func TestAssetsSplitPromotesHeadDependencies(t *testing.T) {
	a := NewAssets("/core")
	a.Enqueue(Asset{Kind: Style, Handle: "site", Src: "/site.css"})
	a.EnqueueHandle(Script, "jquery-masonry")
	a.Enqueue(Asset{Kind: Script, Handle: "head-app", Src: "/app.js", Deps: []string{"masonry"}})

	head, footer, skipped := a.Split()
	if len(skipped) != 0 {
		t.Errorf("skipped = %v", skipped)
	}
	if diff := cmp.Diff([]string{"site", "jquery", "masonry", "head-app"}, handles(head)); diff != "" {
		t.Errorf("head mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"jquery-masonry"}, handles(footer)); diff != "" {
		t.Errorf("footer mismatch (-want +got):\n%s", diff)
	}
}

func TestAssetTag(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		want  string
	}{
		{
			name:  "style",
			asset: Asset{Kind: Style, Handle: "main", Src: "/main.css", Ver: "1"},
			want:  `<link rel="stylesheet" id="main-css" href="/main.css?ver=1" media="all">`,
		},
		{
			name:  "script with query",
			asset: Asset{Kind: Script, Handle: "app", Src: "/app.js?x=1", Ver: "2"},
			want:  `<script src="/app.js?x=1&amp;ver=2" id="app-js"></script>`,
		},
		{
			name:  "legacy only",
			asset: Asset{Kind: Style, Handle: "ie", Src: "/ie.css", Conditional: "lt IE 9"},
			want:  "<!--[if lt IE 9]>\n" + `<link rel="stylesheet" id="ie-css" href="/ie.css" media="all">` + "\n<![endif]-->",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.asset.Tag(); got != tt.want {
				t.Errorf("Tag =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func newSetupTheme(t *testing.T, opts ...Option) *Theme {
	t.Helper()
	th := New(Config{TemplateURI: "/t/"}, opts...)
	if err := th.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return th
}

func TestEnqueueAssetsBaseline(t *testing.T) {
	th := newSetupTheme(t)
	a := th.EnqueueAssets(&Request{Kind: QueryHome})

	for _, h := range []string{"bootship-script", "popper", "bootstrap", "wow", "slick"} {
		if !a.Enqueued(Script, h) {
			t.Errorf("script %s not enqueued", h)
		}
	}
	for _, h := range []string{"bootship-fonts", "bootstrap", "bootstrap-icons", "bootship-theme", "bootship-default", "bootship-style", "fontawesome", "animate", "hover", "slick", "slick-theme", "bootship-ie"} {
		if !a.Enqueued(Style, h) {
			t.Errorf("style %s not enqueued", h)
		}
	}
	for _, h := range []string{"comment-reply", "jquery-masonry", "bootship-customizer"} {
		if a.Enqueued(Script, h) {
			t.Errorf("conditional script %s enqueued on a bare home page", h)
		}
	}

	bs, _ := a.Get(Script, "bootstrap")
	if bs.Ver != "5.3.3" || !cmp.Equal(bs.Deps, []string{"jquery", "popper"}) {
		t.Errorf("bootstrap script = %+v", bs)
	}
	ie, _ := a.Get(Style, "bootship-ie")
	if ie.Conditional != "lt IE 9" || ie.Src != "/t/css/ie.css" {
		t.Errorf("legacy stylesheet = %+v", ie)
	}
	style, _ := a.Get(Style, "bootship-style")
	if style.Src != "/t/style.css" {
		t.Errorf("main stylesheet src = %q", style.Src)
	}
}

func TestEnqueueAssetsConditionalRules(t *testing.T) {
	th := newSetupTheme(t)
	open := &Item{ID: 1, Type: TypePost, CommentStatus: "open"}
	tests := []struct {
		name   string
		req    Request
		handle string
		want   bool
	}{
		{"comment reply", Request{Kind: QuerySingle, Item: open, Settings: Settings{ThreadComments: true}}, "comment-reply", true},
		{"comments closed", Request{Kind: QuerySingle, Item: &Item{ID: 1}, Settings: Settings{ThreadComments: true}}, "comment-reply", false},
		{"threading off", Request{Kind: QuerySingle, Item: open}, "comment-reply", false},
		{"not singular", Request{Kind: QueryHome, Item: open, Settings: Settings{ThreadComments: true}}, "comment-reply", false},
		{"masonry", Request{Sidebars: map[string][]Widget{MainSidebar: {{}}}}, "jquery-masonry", true},
		{"masonry secondary only", Request{Sidebars: map[string][]Widget{SecondarySidebar: {{}}}}, "jquery-masonry", false},
		{"customizer", Request{CustomizePreview: true}, "bootship-customizer", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := th.EnqueueAssets(&tt.req).Enqueued(Script, tt.handle); got != tt.want {
				t.Errorf("Enqueued(%s) = %v, want %v", tt.handle, got, tt.want)
			}
		})
	}
}

func togglePrinter(t *testing.T, sourceSans, bitter string) *message.Printer {
	t.Helper()
	b := catalog.NewBuilder()
	if err := b.SetString(language.English, "Source Sans 3 font: on or off", sourceSans); err != nil {
		t.Fatal(err)
	}
	if err := b.SetString(language.English, "Bitter font: on or off", bitter); err != nil {
		t.Fatal(err)
	}
	return message.NewPrinter(language.English, message.Catalog(b))
}

func TestFontsURL(t *testing.T) {
	tests := []struct {
		name           string
		sourceSans     string
		bitter         string
		wantFamilies   []string
		wantEmptyValue bool
	}{
		{"both", "on", "on", []string{"Source Sans 3", "Bitter"}, false},
		{"bitter off", "on", "off", []string{"Source Sans 3"}, false},
		{"source sans off", "off", "on", []string{"Bitter"}, false},
		{"both off", "off", "off", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FontsURL(togglePrinter(t, tt.sourceSans, tt.bitter))
			if tt.wantEmptyValue {
				if got != "" {
					t.Errorf("FontsURL = %q, want empty", got)
				}
				return
			}
			u, err := url.Parse(got)
			if err != nil {
				t.Fatal(err)
			}
			if u.Host != "fonts.googleapis.com" || u.Query().Get("subset") != "latin,latin-ext" {
				t.Errorf("FontsURL = %q", got)
			}
			var families []string
			for _, f := range strings.Split(u.Query().Get("family"), "|") {
				families = append(families, strings.SplitN(f, ":", 2)[0])
			}
			if diff := cmp.Diff(tt.wantFamilies, families); diff != "" {
				t.Errorf("families mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := FontsURL(nil); !strings.Contains(got, "Bitter") {
		t.Errorf("untranslated FontsURL = %q", got)
	}
}
