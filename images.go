package bootship

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/eringen/bootship/theme"
)

const (
	maxImageWidth = 2048
	jpegQuality   = 82
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// decodeImage decodes src and scales it down to maxImageWidth.
func decodeImage(src io.Reader) (image.Image, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > maxImageWidth {
		img = scale(img, maxImageWidth, b.Dy()*maxImageWidth/b.Dx())
	}
	return img, nil
}

func scale(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// resize produces the copy of img for size. Crop sizes cover the box and cut
// the centre; the others fit inside it. Images are never enlarged.
func resize(img image.Image, size theme.ImageSize) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size.Width && h <= size.Height {
		return img
	}
	if !size.Crop {
		ratio := min(float64(size.Width)/float64(w), float64(size.Height)/float64(h))
		return scale(img, int(float64(w)*ratio+0.5), int(float64(h)*ratio+0.5))
	}
	ratio := max(float64(size.Width)/float64(w), float64(size.Height)/float64(h))
	if ratio > 1 {
		ratio = 1
	}
	sw, sh := int(float64(w)*ratio+0.5), int(float64(h)*ratio+0.5)
	scaled := scale(img, sw, sh)
	cw, ch := min(size.Width, sw), min(size.Height, sh)
	x0, y0 := (sw-cw)/2, (sh-ch)/2
	dst := image.NewRGBA(image.Rect(0, 0, cw, ch))
	draw.Draw(dst, dst.Bounds(), scaled, image.Pt(x0, y0), draw.Src)
	return dst
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (a *App) uploadsDir() string {
	return filepath.Join(a.Config.StaticDir, uploadsSubdir)
}

// uniqueFilename appends a counter until name is free in the uploads dir.
func (a *App) uniqueFilename(name string) string {
	base := Slugify(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		base = "image"
	}
	candidate := base + ".jpg"
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(a.uploadsDir(), candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, n)
	}
}

// writeSizes stores every size the theme registers next to file.
func (a *App) writeSizes(img image.Image, file string) error {
	for _, size := range a.Theme.ImageSizes() {
		data, err := encodeJPEG(resize(img, size))
		if err != nil {
			return err
		}
		path := filepath.Join(a.uploadsDir(), theme.SizedFilename(file, size))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", size.Name, err)
		}
	}
	return nil
}

// SaveUpload stores an uploaded image with its sizes and records it as an
// attachment of parentID (0 for none).
func (a *App) SaveUpload(src io.Reader, originalName, title string, parentID int64, menuOrder int, author User) (theme.Item, error) {
	img, err := decodeImage(src)
	if err != nil {
		return theme.Item{}, err
	}
	if err := os.MkdirAll(a.uploadsDir(), 0o755); err != nil {
		return theme.Item{}, fmt.Errorf("create uploads dir: %w", err)
	}
	file := a.uniqueFilename(originalName)
	data, err := encodeJPEG(img)
	if err != nil {
		return theme.Item{}, err
	}
	if err := os.WriteFile(filepath.Join(a.uploadsDir(), file), data, 0o644); err != nil {
		return theme.Item{}, fmt.Errorf("write image: %w", err)
	}
	if err := a.writeSizes(img, file); err != nil {
		return theme.Item{}, err
	}
	if title == "" {
		title = strings.TrimSuffix(originalName, filepath.Ext(originalName))
	}
	it := theme.Item{
		Type:      theme.TypeAttachment,
		Slug:      strings.TrimSuffix(file, ".jpg"),
		Title:     title,
		Author:    author.Author(),
		Status:    theme.StatusInherit,
		ParentID:  parentID,
		MenuOrder: menuOrder,
		MimeType:  "image/jpeg",
		File:      file,
	}
	if err := a.Store.SaveItem(&it); err != nil {
		return theme.Item{}, err
	}
	return it, nil
}

// RegenerateSizes rebuilds the sized copies of every image attachment. It
// returns the number of images processed.
func (a *App) RegenerateSizes() (int, error) {
	items, err := a.Store.ListAttachments()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		if !it.IsImage() || it.File == "" {
			continue
		}
		f, err := os.Open(filepath.Join(a.uploadsDir(), it.File))
		if err != nil {
			return n, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return n, fmt.Errorf("decode %s: %w", it.File, err)
		}
		if err := a.writeSizes(img, it.File); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (a *App) handleMediaUpload(c echo.Context) error {
	u, ok := a.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if !u.Can("upload_files", theme.Item{}) {
		return echo.NewHTTPError(http.StatusForbidden)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if fh.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}
	parentID, _ := strconv.ParseInt(c.FormValue("parent_id"), 10, 64)
	if parentID > 0 {
		parent, err := a.Store.ItemByID(parentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return c.String(http.StatusBadRequest, "Unknown parent item")
		}
	}
	order, _ := strconv.Atoi(c.FormValue("menu_order"))

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if _, err := a.SaveUpload(src, fh.Filename, strings.TrimSpace(c.FormValue("title")), max(parentID, 0), order, u); err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/media/?msg=uploaded")
}

func (a *App) handleMediaList(c echo.Context) error {
	u, ok := a.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	items, err := a.Store.ListAttachments()
	if err != nil {
		return err
	}
	return a.adminViews.media(c, a.Theme, u, items, c.QueryParam("msg"))
}
