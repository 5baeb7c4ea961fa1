package bootship

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/bootship/markdown"
	"github.com/eringen/bootship/theme"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Creator     string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
}

// renderRSS writes the posts feed. The channel title goes through the
// theme's title composer, which leaves feed titles untouched.
func (a *App) renderRSS(c echo.Context, req *theme.Request, items []theme.Item) error {
	base := a.Config.URL
	out := make([]rssItem, 0, len(items))
	for _, it := range items {
		link := BuildURL(base, it.Link)
		desc := it.Excerpt
		if desc == "" {
			desc = markdown.Plain(theme.PageContent(it.Content, 1))
		}
		var cats []string
		for _, t := range it.Categories {
			cats = append(cats, t.Name)
		}
		out = append(out, rssItem{
			Title:       it.Title,
			Link:        link,
			Description: desc,
			PubDate:     it.Date.UTC().Format(time.RFC1123Z),
			GUID:        link,
			Creator:     it.Author.DisplayName,
			Categories:  cats,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       theme.ComposeTitle(req, req.Site.Name, theme.TitleSeparator),
			Link:        base,
			Description: req.Site.Description,
			Language:    req.Site.Language,
			Items:       out,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
