package bootship

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/eringen/bootship/theme"
)

const testAdminPassword = "correct horse battery"

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	a := New(SiteConfig{
		Name:          "Test Site",
		URL:           "http://example.com",
		Description:   "Just testing",
		DatabasePath:  filepath.Join(dir, "test.db"),
		StaticDir:     filepath.Join(dir, "public"),
		AdminPassword: testAdminPassword,
		SessionSecret: "0123456789abcdef0123456789abcdef",
	})
	a.Echo.Logger.SetOutput(io.Discard)
	if err := a.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// client keeps cookies between requests to the app.
type client struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, a *App) *client {
	return &client{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, target string, form url.Values, header ...string) *httptest.ResponseRecorder {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	req.Host = "example.com"
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.app.Echo.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(target string, header ...string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, target, nil, header...)
}

// csrf returns the token the CSRF middleware issued, fetching a page first
// when no cookie is held yet.
func (c *client) csrf() string {
	c.t.Helper()
	if ck, ok := c.cookies["_csrf"]; ok {
		return ck.Value
	}
	c.get("/admin/")
	ck, ok := c.cookies["_csrf"]
	if !ok {
		c.t.Fatal("no CSRF cookie issued")
	}
	return ck.Value
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	form.Set("_csrf", c.csrf())
	return c.do(http.MethodPost, target, form)
}

func (c *client) login(login, password string) {
	c.t.Helper()
	rec := c.post("/admin/login/", url.Values{"login": {login}, "password": {password}})
	if rec.Code != http.StatusSeeOther {
		c.t.Fatalf("login %s: status %d, want 303", login, rec.Code)
	}
}

func parseDoc(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func seedPost(t *testing.T, a *App, title string, d int, cats ...string) theme.Item {
	t.Helper()
	admin, err := a.Store.UserByLogin("admin")
	if err != nil {
		t.Fatal(err)
	}
	it := mustSave(t, a.Store, theme.Item{Type: theme.TypePost, Title: title, Content: "Body of " + title,
		Status: theme.StatusPublish, Date: day(d), Author: admin.Author()})
	if len(cats) > 0 {
		if err := a.Store.SetItemTerms(it.ID, theme.TaxonomyCategory, cats); err != nil {
			t.Fatal(err)
		}
	}
	return it
}

func TestInitRequiresSecrets(t *testing.T) {
	a := New(SiteConfig{DatabasePath: filepath.Join(t.TempDir(), "x.db")})
	if err := a.Init(); err == nil {
		t.Fatal("Init without AdminPassword succeeded")
	}
}

func TestInitCreatesAdministrator(t *testing.T) {
	a := newTestApp(t)
	u, err := a.Store.Authenticate("admin", testAdminPassword)
	if err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}
	if u.Role != RoleAdministrator {
		t.Errorf("role = %q", u.Role)
	}
}

func TestHomeListsPublishedPosts(t *testing.T) {
	a := newTestApp(t)
	seedPost(t, a, "Older", 1)
	seedPost(t, a, "Newer", 2)
	mustSave(t, a.Store, theme.Item{Type: theme.TypePost, Title: "Hidden draft"})

	rec := newClient(t, a).get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc := parseDoc(t, rec)

	var titles []string
	doc.Find("article .entry-title a").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	if strings.Join(titles, ",") != "Newer,Older" {
		t.Errorf("titles = %v", titles)
	}
	if got := doc.Find("title").Text(); got != "Test Site | Just testing" {
		t.Errorf("title = %q", got)
	}
	body, _ := doc.Find("body").Attr("class")
	for _, want := range []string{"home", "blog", "single-author"} {
		if !strings.Contains(" "+body+" ", " "+want+" ") {
			t.Errorf("body class %q missing %q", body, want)
		}
	}
	if doc.Find(`link[rel="alternate"][type="application/rss+xml"]`).Length() != 1 {
		t.Error("feed link missing from head")
	}
	if doc.Find("nav.paging-navigation").Length() != 0 {
		t.Error("paging nav rendered for a single page")
	}
}

func TestHomePaging(t *testing.T) {
	a := newTestApp(t)
	if err := a.Store.SetOption(OptionPostsPerPage, "1"); err != nil {
		t.Fatal(err)
	}
	seedPost(t, a, "One", 1)
	seedPost(t, a, "Two", 2)
	seedPost(t, a, "Three", 3)
	c := newClient(t, a)

	doc := parseDoc(t, c.get("/page/2/"))
	if got := doc.Find("article .entry-title a").Text(); got != "Two" {
		t.Errorf("page 2 item = %q, want Two", got)
	}
	if got := doc.Find("title").Text(); got != "Test Site | Just testing | Page 2" {
		t.Errorf("title = %q", got)
	}
	if href, _ := doc.Find(".nav-previous a").Attr("href"); href != "/page/3/" {
		t.Errorf("older link = %q", href)
	}
	if href, _ := doc.Find(".nav-next a").Attr("href"); href != "/" {
		t.Errorf("newer link = %q", href)
	}

	if rec := c.get("/page/9/"); rec.Code != http.StatusNotFound {
		t.Errorf("page beyond range status = %d, want 404", rec.Code)
	}
}

func TestSinglePost(t *testing.T) {
	a := newTestApp(t)
	first := seedPost(t, a, "First", 1, "News")
	seedPost(t, a, "Second", 2, "Other")
	third := seedPost(t, a, "Third", 3, "News")

	rec := newClient(t, a).get("/blog/third/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc := parseDoc(t, rec)
	if got := doc.Find("title").Text(); got != "Third | Test Site" {
		t.Errorf("title = %q", got)
	}
	body, _ := doc.Find("body").Attr("class")
	if !strings.Contains(body, "single-post") || !strings.Contains(body, "postid-") {
		t.Errorf("body class = %q", body)
	}
	if got := doc.Find("h1.entry-title").Text(); got != third.Title {
		t.Errorf("entry title = %q", got)
	}
	prev, ok := doc.Find(`nav.post-navigation a[rel="prev"]`).Attr("href")
	if !ok || prev != first.Link {
		t.Errorf("previous link = %q, want %q (same category)", prev, first.Link)
	}
	if doc.Find(`nav.post-navigation a[rel="next"]`).Length() != 0 {
		t.Error("newest post has a next link")
	}
	if got := doc.Find(`.entry-meta a[rel="category tag"]`).Text(); got != "News" {
		t.Errorf("category links = %q", got)
	}
}

func TestNotFound(t *testing.T) {
	a := newTestApp(t)
	c := newClient(t, a)
	for _, path := range []string{"/blog/missing/", "/category/none/", "/author/nobody/", "/a/b/c/d/"} {
		rec := c.get(path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, rec.Code)
			continue
		}
		doc := parseDoc(t, rec)
		if got := doc.Find("h1.page-title").Text(); got != "Not Found" {
			t.Errorf("%s: heading = %q", path, got)
		}
		if body, _ := doc.Find("body").Attr("class"); !strings.Contains(body, "error404") {
			t.Errorf("%s: body class = %q", path, body)
		}
	}
}

func TestProjectShowsContractor(t *testing.T) {
	a := newTestApp(t)
	p := mustSave(t, a.Store, theme.Item{Type: theme.TypeProject, Title: "Bridge", Status: theme.StatusPublish, Date: day(1)})
	if err := a.Store.UpdateMeta(p.ID, theme.ContractorMetaKey, "ACME <Builders>"); err != nil {
		t.Fatal(err)
	}
	c := newClient(t, a)

	doc := parseDoc(t, c.get("/project/bridge/"))
	if got := doc.Find(".project-contractor").Text(); got != "Contractor: ACME <Builders>" {
		t.Errorf("contractor = %q", got)
	}

	doc = parseDoc(t, c.get("/project/"))
	if got := doc.Find("title").Text(); got != "Projects | Test Site" {
		t.Errorf("archive title = %q", got)
	}
	if doc.Find("article").Length() != 1 {
		t.Errorf("archive articles = %d, want 1", doc.Find("article").Length())
	}
}

func TestLanguageNegotiation(t *testing.T) {
	a := newTestApp(t)
	c := newClient(t, a)

	doc := parseDoc(t, c.get("/missing/", "Accept-Language", "pt-BR,pt;q=0.9"))
	if lang, _ := doc.Find("html").Attr("lang"); lang != "pt-BR" {
		t.Errorf("lang = %q, want pt-BR", lang)
	}
	if got := doc.Find("title").Text(); got != "Página não encontrada | Test Site" {
		t.Errorf("title = %q", got)
	}

	doc = parseDoc(t, c.get("/missing/?lang=en-US", "Accept-Language", "pt-BR"))
	if lang, _ := doc.Find("html").Attr("lang"); lang != "en-US" {
		t.Errorf("lang param ignored: %q", lang)
	}
}

func TestFeedSitemapRobots(t *testing.T) {
	a := newTestApp(t)
	seedPost(t, a, "Hello", 1, "News")
	c := newClient(t, a)

	rec := c.get("/feed/")
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("feed content type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"<title>Test Site</title>", "<link>http://example.com/blog/hello/</link>", "<category>News</category>"} {
		if !strings.Contains(body, want) {
			t.Errorf("feed missing %s", want)
		}
	}

	rec = c.get("/sitemap.xml")
	if !strings.Contains(rec.Body.String(), "<loc>http://example.com/blog/hello/</loc>") {
		t.Errorf("sitemap missing post: %s", rec.Body.String())
	}

	rec = c.get("/robots.txt")
	if !strings.Contains(rec.Body.String(), "Disallow: /admin/") {
		t.Errorf("robots = %q", rec.Body.String())
	}
}
