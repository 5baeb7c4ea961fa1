package theme

import "sort"

// ImageSize is a named image size. Crop sizes are cut to the exact box;
// the others are scaled to fit inside it.
type ImageSize struct {
	Name   string
	Width  int
	Height int
	Crop   bool
}

// Sizes the theme registers.
var (
	PostThumbnailSize = ImageSize{Name: "post-thumbnail", Width: 728, Height: 300, Crop: true}
	AttachmentSize    = ImageSize{Name: "attachment", Width: 724, Height: 724}
)

// Supports is the set of host features the theme declares at boot. Keys the
// host does not know are kept and ignored.
type Supports struct {
	TextDomain       string
	LanguagesDir     string
	EditorStyles     []string
	Features         map[string][]string
	NavMenus         map[string]string
	ThumbnailSize    ImageSize
	Sidebars         []Sidebar
	PostTypes        []PostType
	DefaultGallery   bool
	SettingTransport map[string]string
}

// Has reports whether feature was declared.
func (s Supports) Has(feature string) bool {
	_, ok := s.Features[feature]
	return ok
}

// HTML5 reports whether fragment uses the modern markup variant.
func (s Supports) HTML5(fragment string) bool {
	for _, f := range s.Features["html5"] {
		if f == fragment {
			return true
		}
	}
	return false
}

// MenuLocations returns the registered menu locations sorted by id.
func (s Supports) MenuLocations() []string {
	out := make([]string, 0, len(s.NavMenus))
	for id := range s.NavMenus {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (t *Theme) declareSupport() Supports {
	uri := t.cfg.TemplateURI
	s := Supports{
		TextDomain:   TextDomain,
		LanguagesDir: "languages",
		Features:     make(map[string][]string),
		NavMenus:     make(map[string]string),
	}
	add := func(feature string, args ...string) {
		s.Features[feature] = args
	}

	add("editor-styles")
	s.EditorStyles = []string{uri + "/css/editor-style.css", fontAwesomeURL, uri + "/css/bootstrap.css"}
	if fonts := FontsURL(t.printer); fonts != "" {
		s.EditorStyles = append(s.EditorStyles, fonts)
	}

	add("automatic-feed-links")

	add("woocommerce")
	add("wc-product-gallery-zoom")
	add("wc-product-gallery-lightbox")
	add("wc-product-gallery-slider")

	add("html5", "comment-list", "comment-form", "search-form", "gallery", "caption", "style", "script")

	s.NavMenus["primary"] = "Navigation Menu"

	add("post-thumbnails")
	s.ThumbnailSize = PostThumbnailSize

	s.DefaultGallery = false

	s.Sidebars = registeredSidebars()
	s.PostTypes = []PostType{projectPostType}
	s.SettingTransport = customizeTransports()
	return s
}

// ImageSizes returns the sizes the host must generate for every upload.
func (t *Theme) ImageSizes() []ImageSize {
	return []ImageSize{t.supports.ThumbnailSize, t.helpers.AttachmentSize}
}

// ContentWidth is the maximum embed width for the view.
func ContentWidth(r *Request) int {
	switch {
	case r.IsAttachment():
		return 724
	case r.Item != nil && r.Item.Format == "audio":
		return 484
	}
	return 730
}

// customizeTransports switches the live-preview settings to postMessage so
// the preview script can update them without a reload.
func customizeTransports() map[string]string {
	return map[string]string{
		"blogname":         "postMessage",
		"blogdescription":  "postMessage",
		"header_textcolor": "postMessage",
	}
}
