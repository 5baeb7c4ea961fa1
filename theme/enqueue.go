package theme

import (
	"net/url"
	"strings"

	"golang.org/x/text/message"
)

// MainSidebar is the footer widget region.
const MainSidebar = "sidebar-1"

const fontAwesomeURL = "https://use.fontawesome.com/releases/v5.15.4/css/all.css"

// enqueueRules returns the theme's asset declarations as ordered
// (predicate, declarations) pairs.
func (t *Theme) enqueueRules() Pipeline[*Assets] {
	uri := strings.TrimSuffix(t.cfg.TemplateURI, "/")
	return Pipeline[*Assets]{
		{
			Name: "comment-reply",
			When: func(r *Request) bool {
				return r.IsSingular() && r.Item.CommentsOpen() && r.Settings.ThreadComments
			},
			Apply: func(_ *Request, a *Assets) *Assets {
				a.EnqueueHandle(Script, "comment-reply")
				return a
			},
		},
		{
			Name: "jquery-masonry",
			When: func(r *Request) bool { return r.IsActiveSidebar(MainSidebar) },
			Apply: func(_ *Request, a *Assets) *Assets {
				a.EnqueueHandle(Script, "jquery-masonry")
				return a
			},
		},
		{
			Name: "scripts",
			Apply: func(_ *Request, a *Assets) *Assets {
				a.Enqueue(Asset{Kind: Script, Handle: "bootship-script", Src: uri + "/js/functions.js", Deps: []string{"jquery", "wow", "slick"}, Ver: "2020-08-09", InFooter: true})
				a.Enqueue(Asset{Kind: Script, Handle: "popper", Src: uri + "/js/popper.js", Ver: "1.16.1", InFooter: true})
				a.Enqueue(Asset{Kind: Script, Handle: "bootstrap", Src: uri + "/js/bootstrap.js", Deps: []string{"jquery", "popper"}, Ver: "5.3.3", InFooter: true})
				a.Enqueue(Asset{Kind: Script, Handle: "wow", Src: uri + "/js/wow.js", Deps: []string{"jquery"}, Ver: "1.3.0", InFooter: true})
				a.Enqueue(Asset{Kind: Script, Handle: "slick", Src: uri + "/js/slick.js", Deps: []string{"jquery"}, Ver: "1.8.1", InFooter: true})
				return a
			},
		},
		{
			Name: "styles",
			Apply: func(r *Request, a *Assets) *Assets {
				if fonts := FontsURL(r.Printer); fonts != "" {
					a.Enqueue(Asset{Kind: Style, Handle: "bootship-fonts", Src: fonts})
				}
				a.Enqueue(Asset{Kind: Style, Handle: "bootstrap", Src: uri + "/css/bootstrap.css", Ver: "5.3.3"})
				a.Enqueue(Asset{Kind: Style, Handle: "bootstrap-icons", Src: uri + "/css/bootstrap-icons.css", Ver: "1.11.3"})
				a.Enqueue(Asset{Kind: Style, Handle: "bootship-theme", Src: uri + "/css/theme.css", Ver: "2021-11-28"})
				a.Enqueue(Asset{Kind: Style, Handle: "bootship-default", Src: uri + "/css/default.css", Ver: "2021-11-28"})
				a.Enqueue(Asset{Kind: Style, Handle: "bootship-style", Src: t.cfg.StylesheetURI, Ver: "2016-08-09"})
				a.Enqueue(Asset{Kind: Style, Handle: "fontawesome", Src: fontAwesomeURL, Ver: "5.15.4"})
				a.Enqueue(Asset{Kind: Style, Handle: "animate", Src: uri + "/css/animate.css", Ver: "4.1.1"})
				a.Enqueue(Asset{Kind: Style, Handle: "hover", Src: uri + "/css/hover.css", Ver: "2.3.2"})
				a.Enqueue(Asset{Kind: Style, Handle: "slick", Src: uri + "/css/slick.css", Ver: "v1.8.1"})
				a.Enqueue(Asset{Kind: Style, Handle: "slick-theme", Src: uri + "/css/slick-theme.css", Ver: "v1.8.1"})
				return a
			},
		},
		{
			Name: "legacy-ie",
			Apply: func(_ *Request, a *Assets) *Assets {
				a.Enqueue(Asset{Kind: Style, Handle: "bootship-ie", Src: uri + "/css/ie.css", Deps: []string{"bootship-style"}, Ver: "2016-08-09"})
				a.SetConditional(Style, "bootship-ie", "lt IE 9")
				return a
			},
		},
		{
			Name: "customizer-preview",
			When: func(r *Request) bool { return r.CustomizePreview },
			Apply: func(_ *Request, a *Assets) *Assets {
				a.Enqueue(Asset{Kind: Script, Handle: "bootship-customizer", Src: uri + "/js/theme-customizer.js", Deps: []string{"customize-preview"}, Ver: "20130226", InFooter: true})
				return a
			},
		},
	}
}

// EnqueueAssets builds the declaration list for r.
func (t *Theme) EnqueueAssets(r *Request) *Assets {
	return t.enqueueRules().Run(r, NewAssets(t.cfg.CoreURI))
}

// FontsURL returns the Google Fonts stylesheet for Source Sans 3 and Bitter.
// Each family can be turned off by translating its toggle message to "off";
// the URL is empty when both are off.
func FontsURL(p *message.Printer) string {
	sourceSans := translate(p, "Source Sans 3 font: on or off")
	bitter := translate(p, "Bitter font: on or off")
	if sourceSans == "off" && bitter == "off" {
		return ""
	}
	var families []string
	if sourceSans != "off" {
		families = append(families, "Source Sans 3:200,300,400,500,600,700,800,900,200italic,300italic,400italic,500italic,600italic,700italic,800italic,900italic")
	}
	if bitter != "off" {
		families = append(families, "Bitter:400,700")
	}
	q := url.Values{}
	q.Set("family", strings.Join(families, "|"))
	q.Set("subset", "latin,latin-ext")
	return "//fonts.googleapis.com/css?" + q.Encode()
}
