package bootship

import (
	"net/url"
	"path"
	"strings"

	"github.com/eringen/bootship/theme"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitList splits a comma separated form value into trimmed entries.
func SplitList(s string) []string {
	return FilterEmpty(strings.Split(s, ","))
}

// TermNames returns the display names of terms joined by ", ".
func TermNames(terms []theme.Term) string {
	names := make([]string, len(terms))
	for i, t := range terms {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

// Permalink returns the public path of an item.
func Permalink(typ, slug string) string {
	switch typ {
	case theme.TypePost:
		return "/blog/" + slug + "/"
	case theme.TypePage:
		return "/" + slug + "/"
	case theme.TypeAttachment:
		return "/attachment/" + slug + "/"
	}
	return "/" + typ + "/" + slug + "/"
}

// TermLink returns the archive path of a term.
func TermLink(taxonomy, slug string) string {
	if taxonomy == theme.TaxonomyTag {
		return "/tag/" + slug + "/"
	}
	return "/" + taxonomy + "/" + slug + "/"
}
