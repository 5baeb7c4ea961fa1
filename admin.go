package bootship

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/bootship/theme"
)

const adminDateLayout = "2006-01-02"

func (a *App) handleAdmin(c echo.Context) error {
	u, ok := a.CurrentUser(c)
	if !ok {
		return a.adminViews.login(c, false)
	}
	return a.renderAdminDashboard(c, u, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	u, err := a.Store.Authenticate(strings.TrimSpace(c.FormValue("login")), c.FormValue("password"))
	if errors.Is(err, ErrInvalidLogin) {
		a.loginLimiter.Record(ip)
		return a.adminViews.login(c, true)
	}
	if err != nil {
		return err
	}
	if err := setUserSession(c, u); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) renderAdminDashboard(c echo.Context, u User, msg string) error {
	items, err := a.Store.ListAllItems(a.editableTypes()...)
	if err != nil {
		return err
	}
	return a.adminViews.dashboard(c, u, items, a.editableTypes(), msg)
}

// editableTypes lists the content types the admin can create: the built-in
// ones followed by the theme's registered types.
func (a *App) editableTypes() []string {
	types := []string{theme.TypePost, theme.TypePage}
	for _, p := range a.Theme.Supports().PostTypes {
		if p.ShowUI {
			types = append(types, p.Name)
		}
	}
	return types
}

func (a *App) editableType(typ string) bool {
	for _, t := range a.editableTypes() {
		if t == typ {
			return true
		}
	}
	return false
}

func (a *App) handleAdminNew(c echo.Context) error {
	u, ok := a.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	typ := c.Param("type")
	if !a.editableType(typ) {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if !u.Can("edit_posts", theme.Item{}) {
		return echo.NewHTTPError(http.StatusForbidden)
	}
	return a.adminViews.edit(c, a.Theme, u, theme.Item{Type: typ, Author: u.Author(), Status: theme.StatusDraft}, c.QueryParam("msg"))
}

func (a *App) handleAdminEdit(c echo.Context) error {
	u, ok := a.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	it, err := a.itemParam(c)
	if err != nil {
		return err
	}
	if !u.Can("edit_post", *it) {
		return echo.NewHTTPError(http.StatusForbidden)
	}
	return a.adminViews.edit(c, a.Theme, u, *it, c.QueryParam("msg"))
}

func (a *App) itemParam(c echo.Context) (*theme.Item, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, echo.NewHTTPError(http.StatusNotFound)
	}
	it, err := a.Store.ItemByID(id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound)
	}
	return it, nil
}

// saveMode tells the save hooks how the request arrived.
type saveMode int

const (
	saveFull saveMode = iota
	saveAutosave
	saveAsync
)

func (a *App) handleAdminSave(c echo.Context) error {
	it, err := a.saveItem(c, saveFull)
	if err != nil {
		var fe formError
		if errors.As(err, &fe) {
			return c.Redirect(http.StatusSeeOther, fe.redirect)
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/admin/edit/%d/?msg=saved", it.ID))
}

func (a *App) handleAdminAutosave(c echo.Context) error {
	return a.saveJSON(c, saveAutosave)
}

func (a *App) handleAdminAjaxSave(c echo.Context) error {
	return a.saveJSON(c, saveAsync)
}

type saveResponse struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
}

func (a *App) saveJSON(c echo.Context, mode saveMode) error {
	it, err := a.saveItem(c, mode)
	if err != nil {
		var fe formError
		if errors.As(err, &fe) {
			return echo.NewHTTPError(http.StatusBadRequest, fe.msg)
		}
		return err
	}
	return c.JSON(http.StatusOK, saveResponse{ID: it.ID, Link: it.Link})
}

// formError is a rejected form. The full save redirects back to the editor
// with msg; background saves answer 400.
type formError struct {
	msg      string
	redirect string
}

func (e formError) Error() string { return e.msg }

// saveItem stores the posted item, its terms, then runs the theme's save
// hooks with the same form values.
func (a *App) saveItem(c echo.Context, mode saveMode) (*theme.Item, error) {
	u, ok := a.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized)
	}
	form, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var it theme.Item
	if id, _ := strconv.ParseInt(form.Get("id"), 10, 64); id > 0 {
		existing, err := a.Store.ItemByID(id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, echo.NewHTTPError(http.StatusNotFound)
		}
		it = *existing
	} else {
		typ := form.Get("type")
		if !a.editableType(typ) {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "unknown content type")
		}
		it = theme.Item{Type: typ, Author: u.Author()}
	}
	if !u.Can("edit_post", it) {
		return nil, echo.NewHTTPError(http.StatusForbidden)
	}
	back := "/admin/new/" + it.Type + "/"
	if it.ID != 0 {
		back = fmt.Sprintf("/admin/edit/%d/", it.ID)
	}

	// Background saves never touch a published item: what visitors see
	// only changes through the full editor save.
	live := mode != saveFull && it.ID != 0 && it.Status == theme.StatusPublish
	if !live {
		it.Title = strings.TrimSpace(form.Get("title"))
		it.Content = form.Get("content")
		it.Excerpt = strings.TrimSpace(form.Get("excerpt"))
		if slug := Slugify(form.Get("slug")); slug != "" {
			it.Slug = slug
		}
		if it.Slug == "" && Slugify(it.Title) == "" {
			return nil, formError{msg: "Slug is required. Add a title or slug.", redirect: back + "?msg=Slug+is+required."}
		}
		if d := strings.TrimSpace(form.Get("date")); d != "" {
			date, err := time.Parse(adminDateLayout, d)
			if err != nil {
				return nil, formError{msg: "Invalid date format. Use YYYY-MM-DD.", redirect: back + "?msg=Invalid+date+format."}
			}
			if date.Format(adminDateLayout) != it.Date.Format(adminDateLayout) {
				it.Date = date
			}
		}
	}
	if mode == saveFull {
		it.Status = theme.StatusDraft
		if form.Get("status") == theme.StatusPublish && u.Can("publish_posts", it) {
			it.Status = theme.StatusPublish
		}
		it.Format = form.Get("format")
		it.Sticky = form.Get("sticky") != ""
		it.CommentStatus = "closed"
		if form.Get("comment_status") != "" {
			it.CommentStatus = "open"
		}
		if thumb, err := strconv.ParseInt(form.Get("thumbnail_id"), 10, 64); err == nil && thumb >= 0 {
			it.ThumbnailID = thumb
		}
	}

	if live {
		c.Logger().Debugf("background save of published item %d, content left alone", it.ID)
	} else if err := a.Store.SaveItem(&it); err != nil {
		return nil, err
	}
	if mode == saveFull && it.Type == theme.TypePost {
		if err := a.Store.SetItemTerms(it.ID, theme.TaxonomyCategory, SplitList(form.Get("categories"))); err != nil {
			return nil, err
		}
		if err := a.Store.SetItemTerms(it.ID, theme.TaxonomyTag, SplitList(form.Get("tags"))); err != nil {
			return nil, err
		}
	}

	req := theme.SaveRequest{
		Item:     it,
		Actor:    u,
		Form:     form,
		Autosave: mode == saveAutosave,
		Async:    mode == saveAsync,
	}
	if mode != saveFull {
		c.Logger().Debugf("background save of item %d, custom fields left alone", it.ID)
	}
	for _, hook := range a.Theme.SaveHooks() {
		if _, err := hook(a.Store, req); err != nil {
			return nil, fmt.Errorf("save hook for item %d: %w", it.ID, err)
		}
	}

	a.Cache.Invalidate()
	return &it, nil
}

func (a *App) handleAdminDelete(c echo.Context) error {
	u, ok := a.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized)
	}
	it, err := a.itemParam(c)
	if err != nil {
		return err
	}
	if !u.Can("delete_post", *it) {
		return echo.NewHTTPError(http.StatusForbidden)
	}
	if err := a.Store.DeleteItem(it.ID); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.NoContent(http.StatusNoContent)
}
