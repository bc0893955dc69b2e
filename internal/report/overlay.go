package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"a11ydiff/internal/detect"
	"a11ydiff/internal/screenshot"
	"a11ydiff/internal/uitree"
)

const strokeWidth = 3

type overlayStyle struct {
	prefix string
	color  color.RGBA
}

var styles = map[detect.Category]overlayStyle{
	detect.CategoryShortLived:       {"sl", color.RGBA{0, 0, 255, 255}},
	detect.CategoryDisappearing:     {"d", color.RGBA{255, 0, 0, 255}},
	detect.CategoryAppearing:        {"a", color.RGBA{255, 165, 0, 255}},
	detect.CategoryMoving:           {"m", color.RGBA{128, 0, 128, 255}},
	detect.CategoryAttributeChanged: {"ca", color.RGBA{0, 0, 0, 255}},
}

// OverlayName is the file name of the overlay for category c on snapshot
// number snap (1, 2 or 3).
func OverlayName(c detect.Category, snap int) string {
	return fmt.Sprintf("%s_%d_out.png", styles[c].prefix, snap)
}

// renderOverlay outlines every box on a copy of the screenshot at src and
// writes the result to dst as PNG.
func renderOverlay(src, dst string, boxes []uitree.Bounds, c color.RGBA) error {
	base, err := screenshot.LoadImage(src)
	if err != nil {
		return err
	}
	canvas := image.NewRGBA(base.Bounds())
	draw.Draw(canvas, canvas.Bounds(), base, base.Bounds().Min, draw.Src)
	for _, b := range boxes {
		strokeRect(canvas, image.Rect(b.X1, b.Y1, b.X2, b.Y2), c)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}
	if err := png.Encode(out, canvas); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode overlay %s: %w", dst, err)
	}
	return out.Close()
}

// strokeRect draws an outline of strokeWidth pixels just inside r, clipped
// to the canvas.
func strokeRect(canvas *image.RGBA, r image.Rectangle, c color.RGBA) {
	fill := image.NewUniform(c)
	w := strokeWidth
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w),
		image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y),
		image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		e = e.Intersect(r).Intersect(canvas.Bounds())
		if e.Empty() {
			continue
		}
		draw.Draw(canvas, e, fill, image.Point{}, draw.Src)
	}
}
