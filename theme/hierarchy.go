package theme

import "strconv"

// Candidates lists the template names for r from most to least specific.
// "index" is always last.
func Candidates(r *Request) []string {
	var c []string
	switch r.Kind {
	case QueryNotFound:
		c = []string{"404"}
	case QuerySearch:
		c = []string{"search"}
	case QueryAttachment:
		if r.Item != nil && r.Item.MimeType != "" {
			c = append(c, mimeTop(r.Item.MimeType), "attachment")
		} else {
			c = append(c, "attachment")
		}
		c = append(c, "single")
	case QuerySingle:
		if r.Item != nil {
			c = append(c, "single-"+r.Item.Type+"-"+r.Item.Slug, "single-"+r.Item.Type)
		}
		c = append(c, "single")
	case QueryPage:
		if r.Item != nil {
			c = append(c, "page-"+r.Item.Slug, "page-"+strconv.FormatInt(r.Item.ID, 10))
		}
		c = append(c, "page")
	case QueryPostTypeArchive:
		c = []string{"archive-" + r.PostType, "archive"}
	case QueryCategory:
		if r.Term != nil {
			c = append(c, "category-"+r.Term.Slug)
		}
		c = append(c, "category", "archive")
	case QueryTag:
		if r.Term != nil {
			c = append(c, "tag-"+r.Term.Slug)
		}
		c = append(c, "tag", "archive")
	case QueryAuthor:
		if r.Author != nil {
			c = append(c, "author-"+r.Author.Login)
		}
		c = append(c, "author", "archive")
	case QueryDay, QueryMonth, QueryYear:
		c = []string{"date", "archive"}
	case QueryHome:
		c = []string{"front-page", "home"}
	}
	return append(c, "index")
}

func mimeTop(mime string) string {
	for i := 0; i < len(mime); i++ {
		if mime[i] == '/' {
			return mime[:i]
		}
	}
	return mime
}

// ResolveTemplate returns the first candidate for r that the theme ships.
func (t *Theme) ResolveTemplate(r *Request) string {
	for _, name := range Candidates(r) {
		if t.tmpl != nil && t.tmpl.Lookup(name) != nil {
			return name
		}
	}
	return "index"
}
