package bootship

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/bootship/theme"
)

type adminViews struct {
	tmpl *template.Template
}

func parseAdminViews() (*adminViews, error) {
	tmpl, err := template.New("admin").Funcs(template.FuncMap{
		"date": func(it theme.Item) string {
			if it.Date.IsZero() {
				return ""
			}
			return it.Date.Format(adminDateLayout)
		},
		"terms":  TermNames,
		"format": theme.FormatName,
	}).ParseFS(adminTemplates, "admin/*.html")
	if err != nil {
		return nil, err
	}
	return &adminViews{tmpl: tmpl}, nil
}

func (v *adminViews) render(c echo.Context, name string, data any) error {
	t := v.tmpl.Lookup(name)
	if t == nil {
		return fmt.Errorf("admin template %q not found", name)
	}
	return Render(c, templ.FromGoHTML(t, data))
}

type adminPage struct {
	Title  string
	CSRF   string
	User   User
	Msg    string
	Styles []string
}

func (v *adminViews) login(c echo.Context, failed bool) error {
	return v.render(c, "login", struct {
		adminPage
		Failed bool
	}{adminPage{Title: "Log In", CSRF: CsrfToken(c)}, failed})
}

func (v *adminViews) dashboard(c echo.Context, u User, items []theme.Item, types []string, msg string) error {
	return v.render(c, "dashboard", struct {
		adminPage
		Items []theme.Item
		Types []string
	}{adminPage{Title: "Dashboard", CSRF: CsrfToken(c), User: u, Msg: msg}, items, types})
}

type adminMetaBox struct {
	ID    string
	Title string
	Body  template.HTML
}

var postFormats = []string{"", "aside", "audio", "chat", "gallery", "image", "link", "quote", "status", "video"}

func (v *adminViews) edit(c echo.Context, th *theme.Theme, u User, it theme.Item, msg string) error {
	var boxes []adminMetaBox
	for _, mb := range th.MetaBoxes(it.Type) {
		body, err := templ.ToGoHTML(c.Request().Context(), mb.Render(it))
		if err != nil {
			return fmt.Errorf("meta box %s: %w", mb.ID, err)
		}
		boxes = append(boxes, adminMetaBox{ID: mb.ID, Title: mb.Title, Body: body})
	}
	title := "Edit " + strings.ToUpper(it.Type[:1]) + it.Type[1:]
	if pt, ok := th.PostType(it.Type); ok {
		title = pt.Labels.EditItem
		if it.ID == 0 {
			title = pt.Labels.AddNewItem
		}
	}
	return v.render(c, "edit", struct {
		adminPage
		Item      theme.Item
		MetaBoxes []adminMetaBox
		Formats   []string
		HasTerms  bool
	}{
		adminPage: adminPage{Title: title, CSRF: CsrfToken(c), User: u, Msg: msg, Styles: th.Supports().EditorStyles},
		Item:      it,
		MetaBoxes: boxes,
		Formats:   postFormats,
		HasTerms:  it.Type == theme.TypePost,
	})
}

func (v *adminViews) media(c echo.Context, th *theme.Theme, u User, items []theme.Item, msg string) error {
	type mediaRow struct {
		theme.Item
		URL   string
		Thumb string
	}
	rows := make([]mediaRow, len(items))
	for i, it := range items {
		rows[i] = mediaRow{
			Item:  it,
			URL:   th.UploadURL(it.File),
			Thumb: th.UploadURL(theme.SizedFilename(it.File, theme.PostThumbnailSize)),
		}
	}
	return v.render(c, "media", struct {
		adminPage
		Items []mediaRow
	}{adminPage{Title: "Media Library", CSRF: CsrfToken(c), User: u, Msg: msg}, rows})
}
