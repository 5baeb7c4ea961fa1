package theme

import "strconv"

// SecondarySidebar is the widget region shown next to posts and pages.
const SecondarySidebar = "sidebar-2"

var bodyClassPipeline = Pipeline[[]string]{
	{
		Name:  "single-author",
		When:  func(r *Request) bool { return !r.MultiAuthor },
		Apply: appendClass("single-author"),
	},
	{
		Name: "sidebar",
		When: func(r *Request) bool {
			return r.IsActiveSidebar(SecondarySidebar) && !r.IsAttachment() && !r.Is404()
		},
		Apply: appendClass("sidebar"),
	},
	{
		Name:  "no-avatars",
		When:  func(r *Request) bool { return !r.Settings.ShowAvatars },
		Apply: appendClass("no-avatars"),
	},
}

func appendClass(class string) func(*Request, []string) []string {
	return func(_ *Request, classes []string) []string {
		return append(classes, class)
	}
}

// BodyClasses extends the body class list with the theme's layout tokens.
func BodyClasses(r *Request, classes []string) []string {
	out := make([]string, len(classes), len(classes)+3)
	copy(out, classes)
	return bodyClassPipeline.Run(r, out)
}

// BaseBodyClasses returns the host's default body classes for the view.
func BaseBodyClasses(r *Request) []string {
	var c []string
	switch r.Kind {
	case QueryHome:
		c = append(c, "home", "blog")
	case QuerySingle:
		c = append(c, "single")
		if r.Item != nil {
			c = append(c, "single-"+r.Item.Type, "postid-"+strconv.FormatInt(r.Item.ID, 10))
			format := r.Item.Format
			if format == "" {
				format = "standard"
			}
			c = append(c, "single-format-"+format)
		}
	case QueryPage:
		c = append(c, "page")
		if r.Item != nil {
			c = append(c, "page-id-"+strconv.FormatInt(r.Item.ID, 10))
		}
	case QueryAttachment:
		c = append(c, "attachment", "single")
		if r.Item != nil {
			c = append(c, "attachmentid-"+strconv.FormatInt(r.Item.ID, 10))
		}
	case QueryPostTypeArchive:
		c = append(c, "archive", "post-type-archive", "post-type-archive-"+r.PostType)
	case QueryCategory:
		c = append(c, "archive", "category")
		if r.Term != nil {
			c = append(c, "category-"+r.Term.Slug)
		}
	case QueryTag:
		c = append(c, "archive", "tag")
		if r.Term != nil {
			c = append(c, "tag-"+r.Term.Slug)
		}
	case QueryAuthor:
		c = append(c, "archive", "author")
		if r.Author != nil {
			c = append(c, "author-"+r.Author.Login)
		}
	case QueryDay, QueryMonth, QueryYear:
		c = append(c, "archive", "date")
	case QuerySearch:
		c = append(c, "search")
		if len(r.Items) > 0 {
			c = append(c, "search-results")
		} else {
			c = append(c, "search-no-results")
		}
	case QueryNotFound:
		c = append(c, "error404")
	}
	if r.IsPaged() {
		c = append(c, "paged", "paged-"+strconv.Itoa(r.Paged))
	}
	return c
}
