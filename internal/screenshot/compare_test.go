package screenshot_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"a11ydiff/internal/screenshot"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// halves paints the top half dark and the bottom half light, or the reverse.
func halves(w, h int, darkTop bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		top := y < h/2
		c := color.RGBA{R: 240, G: 240, B: 240, A: 255}
		if top == darkTop {
			c = color.RGBA{R: 10, G: 10, B: 10, A: 255}
		}
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	return path
}

func TestDifferentDetectsInvertedLayout(t *testing.T) {
	cmp, err := screenshot.NewComparator(screenshot.HashAverage, 0.9)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", halves(64, 64, true))
	b := writePNG(t, dir, "b.png", halves(64, 64, true))
	c := writePNG(t, dir, "c.png", halves(64, 64, false))

	diff, err := cmp.Different(a, b)
	if err != nil {
		t.Fatalf("Different: %v", err)
	}
	if diff {
		t.Fatal("expected identical screenshots to be similar")
	}

	diff, err = cmp.Different(a, c)
	if err != nil {
		t.Fatalf("Different: %v", err)
	}
	if !diff {
		t.Fatal("expected inverted screenshots to differ")
	}
}

func TestSimilarityOfIdenticalImagesIsOne(t *testing.T) {
	cmp, err := screenshot.NewComparator(screenshot.HashPerception, 0.95)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}
	img := halves(32, 32, true)
	sim, err := cmp.Similarity(img, img)
	if err != nil {
		t.Fatalf("Similarity: %v", err)
	}
	if sim != 1 {
		t.Fatalf("expected similarity 1, got %v", sim)
	}
}

func TestNewComparatorValidates(t *testing.T) {
	if _, err := screenshot.NewComparator("wavelet", 0.9); err == nil {
		t.Fatal("expected unsupported hash kind error")
	}
	if _, err := screenshot.NewComparator(screenshot.HashAverage, 0); err == nil {
		t.Fatal("expected threshold error")
	}
	cmp, err := screenshot.NewComparator("", 0.5)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}
	if cmp.Kind != screenshot.HashAverage {
		t.Fatalf("expected default average hash, got %q", cmp.Kind)
	}
}

func TestDifferentMissingFile(t *testing.T) {
	cmp, _ := screenshot.NewComparator(screenshot.HashAverage, 0.9)
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", solid(8, 8, color.White))
	if _, err := cmp.Different(a, filepath.Join(dir, "missing.png")); err == nil {
		t.Fatal("expected error for missing screenshot")
	}
}

func TestSimilarityFiles(t *testing.T) {
	cmp, err := screenshot.NewComparator(screenshot.HashAverage, 0.9)
	if err != nil {
		t.Fatalf("NewComparator: %v", err)
	}
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", halves(64, 64, true))
	b := writePNG(t, dir, "b.png", halves(64, 64, true))
	c := writePNG(t, dir, "c.png", halves(64, 64, false))

	same, err := cmp.SimilarityFiles(a, b)
	if err != nil {
		t.Fatalf("SimilarityFiles: %v", err)
	}
	if same != 1 {
		t.Fatalf("expected identical files to score 1, got %v", same)
	}
	inverted, err := cmp.SimilarityFiles(a, c)
	if err != nil {
		t.Fatalf("SimilarityFiles: %v", err)
	}
	if inverted >= cmp.Threshold {
		t.Fatalf("expected inverted layout below threshold, got %v", inverted)
	}
	if _, err := cmp.SimilarityFiles(a, filepath.Join(dir, "missing.png")); err == nil {
		t.Fatal("expected error for missing screenshot")
	}
}
