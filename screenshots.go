package newtablinks

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

// Screenshot rendering. One uploaded image produces the four fixed
// variants the extension knows about. Widths follow the sizes the
// original consumer was built against: large 1024, medium 300, and a
// 150x150 center-cropped thumbnail; full keeps the source dimensions.
const (
	largeWidth     = 1024
	mediumWidth    = 300
	thumbnailSize  = 150
	jpegQuality    = 80
	maxUploadSize  = 10 << 20 // 10MB
	screenshotsDir = "screenshots"
)

var screenshotSizes = []string{"full", "large", "medium", "thumbnail"}

// renderVariants decodes an image and encodes the four JPEG variants,
// keyed by size label.
func renderVariants(src io.Reader) (map[string][]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	variants := make(map[string][]byte, len(screenshotSizes))
	full, err := encodeJPEG(img)
	if err != nil {
		return nil, err
	}
	variants["full"] = full

	for _, v := range []struct {
		label string
		img   image.Image
	}{
		{"large", scaleToWidth(img, largeWidth)},
		{"medium", scaleToWidth(img, mediumWidth)},
		{"thumbnail", cropSquare(img, thumbnailSize)},
	} {
		data, err := encodeJPEG(v.img)
		if err != nil {
			return nil, err
		}
		variants[v.label] = data
	}
	return variants, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// scaleToWidth scales img down to the given width, preserving aspect
// ratio. Images already narrower are returned unchanged.
func scaleToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= width {
		return img
	}
	newH := h * width / w
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// cropSquare scales the short edge to size and center-crops the long one,
// producing a size x size thumbnail.
func cropSquare(img image.Image, size int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var scaledW, scaledH int
	if w < h {
		scaledW = size
		scaledH = h * size / w
	} else {
		scaledH = size
		scaledW = w * size / h
	}
	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	x0 := (scaledW - size) / 2
	y0 := (scaledH - size) / 2
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), scaled, image.Pt(x0, y0), draw.Src)
	return dst
}

// handleScreenshotUpload receives one image for a link and writes the four
// rendered variants under the static dir, then records their URLs on the
// record. The files are overwritten on re-upload; the URLs stay stable.
func (a *App) handleScreenshotUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := pathID(c)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	if _, err := a.Store.GetLink(id); err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}

	file, err := c.FormFile("screenshot")
	if err != nil {
		return c.String(http.StatusBadRequest, "No screenshot file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	variants, err := renderVariants(src)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := filepath.Join(a.staticDir, screenshotsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create screenshots dir: %w", err)
	}

	var shot Screenshot
	for _, label := range screenshotSizes {
		name := fmt.Sprintf("%d-%s.jpg", id, label)
		if err := os.WriteFile(filepath.Join(dir, name), variants[label], 0o644); err != nil {
			return fmt.Errorf("write screenshot: %w", err)
		}
		u := a.screenshotURL(name)
		switch label {
		case "full":
			shot.Full = u
		case "large":
			shot.Large = u
		case "medium":
			shot.Medium = u
		case "thumbnail":
			shot.Thumbnail = u
		}
	}

	if err := a.Store.SetScreenshot(id, shot); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "screenshot saved")
}

// screenshotURL builds the public URL for a rendered variant file.
func (a *App) screenshotURL(name string) string {
	u, err := url.Parse(a.Config.URL)
	if err != nil {
		return strings.Join([]string{"/public", screenshotsDir, name}, "/")
	}
	u.Path = path.Join(u.Path, "public", screenshotsDir, name)
	return u.String()
}
