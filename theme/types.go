package theme

import (
	"strings"
	"time"
)

// Item types known to the host. Custom types registered by the theme (see
// PostTypes) are plain strings too.
const (
	TypePost       = "post"
	TypePage       = "page"
	TypeAttachment = "attachment"
	TypeProject    = "project"
)

// Item statuses.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
	StatusInherit = "inherit"
)

// Taxonomies.
const (
	TaxonomyCategory = "category"
	TaxonomyTag      = "post_tag"
)

// Item is a renderable unit of content: a post, a page, a project or an
// attachment. It is owned by the host's storage layer.
type Item struct {
	ID            int64
	Type          string
	Slug          string
	Title         string
	Content       string
	Excerpt       string
	Author        Author
	Status        string
	Date          time.Time
	Format        string
	ParentID      int64
	MenuOrder     int
	MimeType      string
	File          string
	ThumbnailID   int64
	ThumbnailFile string
	Sticky        bool
	CommentStatus string
	Categories    []Term
	Tags          []Term
	Meta          map[string]string
	Link          string
}

// CommentsOpen reports whether new comments are accepted on the item.
func (i Item) CommentsOpen() bool {
	return i.CommentStatus == "open"
}

// IsImage reports whether the item is an image attachment.
func (i Item) IsImage() bool {
	return i.Type == TypeAttachment && strings.HasPrefix(i.MimeType, "image/")
}

// Author is the public view of an item's author.
type Author struct {
	ID          int64
	Login       string
	DisplayName string
}

// Link returns the author archive URL.
func (a Author) Link() string {
	return "/author/" + a.Login + "/"
}

// Term is a category or tag attached to an item.
type Term struct {
	Taxonomy string
	Slug     string
	Name     string
	Link     string
}

// Widget is one host-managed widget placed in a sidebar region.
type Widget struct {
	SidebarID string
	Position  int
	WidgetID  string
	Class     string
	Title     string
	Content   string
}

// MenuItem is one entry of a navigation menu location.
type MenuItem struct {
	Location string
	Position int
	Label    string
	URL      string
}

// Settings are the host options the theme reads.
type Settings struct {
	ThreadComments bool
	ShowAvatars    bool
	PostsPerPage   int
}

// Site is a snapshot of the site identity for one request.
type Site struct {
	Name        string
	Description string
	URL         string
	Charset     string
	Language    string
}
