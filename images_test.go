package bootship

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/eringen/bootship/theme"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		size         theme.ImageSize
		wantW, wantH int
	}{
		{"crop landscape", 1000, 800, theme.PostThumbnailSize, 728, 300},
		{"crop tall", 1456, 1000, theme.PostThumbnailSize, 728, 300},
		{"crop narrow source", 500, 1000, theme.PostThumbnailSize, 500, 300},
		{"fit landscape", 1000, 800, theme.AttachmentSize, 724, 579},
		{"fit portrait", 800, 1600, theme.AttachmentSize, 362, 724},
		{"never enlarged", 300, 200, theme.AttachmentSize, 300, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := resize(testImage(tt.w, tt.h), tt.size).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestSaveUploadWritesSizes(t *testing.T) {
	a := newTestApp(t)
	admin, _ := a.Store.UserByLogin("admin")

	it, err := a.SaveUpload(bytes.NewReader(pngBytes(t, 1000, 800)), "My Photo.png", "", 0, 0, admin)
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	if it.File != "my-photo.jpg" || it.Title != "My Photo" || it.Status != theme.StatusInherit || !it.IsImage() {
		t.Errorf("attachment = %+v", it)
	}

	dir := filepath.Join(a.Config.StaticDir, uploadsSubdir)
	if b := decodeFile(t, filepath.Join(dir, "my-photo-728x300.jpg")).Bounds(); b.Dx() != 728 || b.Dy() != 300 {
		t.Errorf("thumbnail is %v", b)
	}
	if b := decodeFile(t, filepath.Join(dir, "my-photo-724x724.jpg")).Bounds(); b.Dx() != 724 {
		t.Errorf("attachment size is %v", b)
	}

	again, err := a.SaveUpload(bytes.NewReader(pngBytes(t, 10, 10)), "my-photo.png", "Again", 0, 0, admin)
	if err != nil {
		t.Fatal(err)
	}
	if again.File != "my-photo-2.jpg" {
		t.Errorf("second upload file = %q, want my-photo-2.jpg", again.File)
	}

	if _, err := a.SaveUpload(bytes.NewReader([]byte("not an image")), "x.png", "", 0, 0, admin); err == nil {
		t.Error("garbage upload accepted")
	}
}

func TestRegenerateSizes(t *testing.T) {
	a := newTestApp(t)
	admin, _ := a.Store.UserByLogin("admin")
	if _, err := a.SaveUpload(bytes.NewReader(pngBytes(t, 900, 900)), "square.png", "", 0, 0, admin); err != nil {
		t.Fatal(err)
	}
	thumb := filepath.Join(a.Config.StaticDir, uploadsSubdir, "square-728x300.jpg")
	if err := os.Remove(thumb); err != nil {
		t.Fatal(err)
	}
	n, err := a.RegenerateSizes()
	if err != nil || n != 1 {
		t.Fatalf("RegenerateSizes = %d, %v", n, err)
	}
	if _, err := os.Stat(thumb); err != nil {
		t.Errorf("thumbnail not regenerated: %v", err)
	}
}

func TestAttachmentPageLinksToNextImage(t *testing.T) {
	a := newTestApp(t)
	admin, _ := a.Store.UserByLogin("admin")
	parent := seedPost(t, a, "Gallery", 1)
	first, err := a.SaveUpload(bytes.NewReader(pngBytes(t, 40, 40)), "first.png", "First", parent.ID, 1, admin)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.SaveUpload(bytes.NewReader(pngBytes(t, 40, 40)), "second.png", "Second", parent.ID, 2, admin)
	if err != nil {
		t.Fatal(err)
	}
	c := newClient(t, a)

	doc := parseDoc(t, c.get(first.Link))
	link := doc.Find(`.entry-attachment a[rel="attachment"]`)
	if href, _ := link.Attr("href"); href != second.Link {
		t.Errorf("first links to %q, want %q", href, second.Link)
	}
	if src, _ := link.Find("img").Attr("src"); src != "/public/uploads/first-724x724.jpg" {
		t.Errorf("img src = %q", src)
	}
	if href, _ := doc.Find(`nav.post-navigation a[rel="prev"]`).Attr("href"); href != parent.Link {
		t.Errorf("previous link = %q, want parent %q", href, parent.Link)
	}

	doc = parseDoc(t, c.get(second.Link))
	if href, _ := doc.Find(`.entry-attachment a[rel="attachment"]`).Attr("href"); href != first.Link {
		t.Errorf("last image links to %q, want first %q", href, first.Link)
	}

	lone, err := a.SaveUpload(bytes.NewReader(pngBytes(t, 40, 40)), "lone.png", "Lone", 0, 0, admin)
	if err != nil {
		t.Fatal(err)
	}
	doc = parseDoc(t, c.get(lone.Link))
	if href, _ := doc.Find(`.entry-attachment a[rel="attachment"]`).Attr("href"); href != lone.Link {
		t.Errorf("unattached image links to %q, want itself", href)
	}
}
