package theme

import (
	"fmt"
	"path"
	"strings"

	"github.com/a-h/templ"
)

// SizedFilename returns the name of the generated copy of file at size, e.g.
// "photo.jpg" at 724x724 is "photo-724x724.jpg".
func SizedFilename(file string, size ImageSize) string {
	ext := path.Ext(file)
	return fmt.Sprintf("%s-%dx%d%s", strings.TrimSuffix(file, ext), size.Width, size.Height, ext)
}

// UploadURL returns the public URL of an uploaded file.
func (t *Theme) UploadURL(file string) string {
	return t.cfg.UploadsURI + "/" + strings.TrimPrefix(file, "/")
}

// NextAttachmentLink picks the link target for current within its gallery.
// siblings must be the gallery's images in display order. With more than one
// image it is the next image's permalink, wrapping to the first after the
// last; otherwise it is current's own permalink.
func NextAttachmentLink(current Item, siblings []Item) string {
	if len(siblings) < 2 {
		return current.Link
	}
	for i, s := range siblings {
		if s.ID == current.ID {
			if i+1 < len(siblings) {
				return siblings[i+1].Link
			}
			break
		}
	}
	return siblings[0].Link
}

// AttachedImage renders the current image attachment linked to the next image
// of its gallery.
func (t *Theme) AttachedImage(r *Request) templ.Component {
	return t.helpers.AttachedImage(r)
}

func (t *Theme) attachedImage(r *Request) templ.Component {
	return fragment(func(b *strings.Builder) error {
		if r.Item == nil {
			return nil
		}
		cur := *r.Item
		siblings := []Item{cur}
		if cur.ParentID != 0 && r.Host != nil {
			all, err := r.Host.Attachments(cur.ParentID)
			if err != nil {
				return fmt.Errorf("attachments of %d: %w", cur.ParentID, err)
			}
			siblings = siblings[:0]
			for _, a := range all {
				if a.IsImage() {
					siblings = append(siblings, a)
				}
			}
		}
		size := t.helpers.AttachmentSize
		fmt.Fprintf(b, `<a href="%s" title="%s" rel="attachment">`, esc(NextAttachmentLink(cur, siblings)), esc(cur.Title))
		if cur.IsImage() {
			fmt.Fprintf(b, `<img width="%d" height="%d" src="%s" class="attachment-%dx%d" alt="%s">`,
				size.Width, size.Height, esc(t.UploadURL(SizedFilename(cur.File, size))),
				size.Width, size.Height, esc(cur.Title))
		} else {
			b.WriteString(esc(cur.Title))
		}
		b.WriteString(`</a>`)
		return nil
	})
}
