package theme

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Sidebar is a widget region registered at boot.
type Sidebar struct {
	ID           string
	Name         string
	Description  string
	BeforeWidget string // %1$s is the widget id, %2$s its class
	AfterWidget  string
	BeforeTitle  string
	AfterTitle   string
}

func registeredSidebars() []Sidebar {
	return []Sidebar{
		{
			ID:           MainSidebar,
			Name:         "Main Widget Area",
			Description:  "Appears in the footer section of the site.",
			BeforeWidget: `<aside id="%1$s" class="widget %2$s">`,
			AfterWidget:  `</aside>`,
			BeforeTitle:  `<h3 class="widget-title">`,
			AfterTitle:   `</h3>`,
		},
		{
			ID:           SecondarySidebar,
			Name:         "Secondary Widget Area",
			Description:  "Appears on posts and pages in the sidebar.",
			BeforeWidget: `<aside id="%1$s" class="widget %2$s">`,
			AfterWidget:  `</aside>`,
			BeforeTitle:  `<h3 class="widget-title">`,
			AfterTitle:   `</h3>`,
		},
	}
}

// Sidebar returns the registered region with id.
func (t *Theme) Sidebar(id string) (Sidebar, bool) {
	for _, s := range t.supports.Sidebars {
		if s.ID == id {
			return s, true
		}
	}
	return Sidebar{}, false
}

// RenderSidebar emits the widgets of a region wrapped in its registered
// markup. Unknown or empty regions render nothing.
func (t *Theme) RenderSidebar(r *Request, id string) templ.Component {
	sb, ok := t.Sidebar(id)
	widgets := r.Sidebars[id]
	if !ok || len(widgets) == 0 {
		return templ.NopComponent
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		for _, wg := range widgets {
			before := strings.NewReplacer(
				"%1$s", templ.EscapeString(wg.WidgetID),
				"%2$s", templ.EscapeString(wg.Class),
			).Replace(sb.BeforeWidget)
			b.WriteString(before)
			if wg.Title != "" {
				b.WriteString(sb.BeforeTitle + templ.EscapeString(wg.Title) + sb.AfterTitle)
			}
			// Widget content is trusted admin HTML, like the host's text widget.
			b.WriteString(wg.Content)
			b.WriteString(sb.AfterWidget)
			b.WriteString("\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// RenderNavMenu emits a menu location as a <ul>. Empty locations render
// nothing.
func (t *Theme) RenderNavMenu(r *Request, location, class string) templ.Component {
	items := r.Menus[location]
	if _, ok := t.supports.NavMenus[location]; !ok || len(items) == 0 {
		return templ.NopComponent
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<ul id="menu-` + templ.EscapeString(location) + `" class="` + templ.EscapeString(class) + `">`)
		for _, it := range items {
			b.WriteString(`<li class="menu-item nav-item"><a class="nav-link" href="` + templ.EscapeString(it.URL) + `">` + templ.EscapeString(it.Label) + `</a></li>`)
		}
		b.WriteString(`</ul>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
