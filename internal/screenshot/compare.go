// Package screenshot decides whether two screenshots of the UI under test are
// meaningfully different, using perceptual hashes so compression noise and
// clock ticks do not register as change.
package screenshot

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/corona10/goimagehash"
)

// HashKind selects the perceptual hash algorithm.
type HashKind string

const (
	HashAverage    HashKind = "average"
	HashPerception HashKind = "perception"
)

// hashBits is the length of both supported hashes.
const hashBits = 64

// Comparator compares screenshots stored on disk.
type Comparator struct {
	Kind      HashKind
	Threshold float64
}

// NewComparator builds a comparator; an empty kind selects the average hash.
func NewComparator(kind HashKind, threshold float64) (*Comparator, error) {
	if strings.TrimSpace(string(kind)) == "" {
		kind = HashAverage
	}
	switch kind {
	case HashAverage, HashPerception:
	default:
		return nil, fmt.Errorf("unsupported hash kind %q", kind)
	}
	if threshold <= 0 || threshold > 1 {
		return nil, errors.New("similarity threshold must be in (0, 1]")
	}
	return &Comparator{Kind: kind, Threshold: threshold}, nil
}

// Similarity returns 1 minus the normalized Hamming distance of the two
// images' hashes.
func (c *Comparator) Similarity(a, b image.Image) (float64, error) {
	ha, err := c.hash(a)
	if err != nil {
		return 0, err
	}
	hb, err := c.hash(b)
	if err != nil {
		return 0, err
	}
	dist, err := ha.Distance(hb)
	if err != nil {
		return 0, fmt.Errorf("hash distance: %w", err)
	}
	return 1 - float64(dist)/hashBits, nil
}

// Similar reports whether the images are at least Threshold similar.
func (c *Comparator) Similar(a, b image.Image) (bool, error) {
	sim, err := c.Similarity(a, b)
	if err != nil {
		return false, err
	}
	return sim >= c.Threshold, nil
}

// Different loads both files and reports whether they fall below the
// similarity threshold.
func (c *Comparator) Different(pathA, pathB string) (bool, error) {
	a, err := LoadImage(pathA)
	if err != nil {
		return false, err
	}
	b, err := LoadImage(pathB)
	if err != nil {
		return false, err
	}
	similar, err := c.Similar(a, b)
	if err != nil {
		return false, err
	}
	return !similar, nil
}

// SimilarityFiles loads both files and returns their similarity.
func (c *Comparator) SimilarityFiles(pathA, pathB string) (float64, error) {
	a, err := LoadImage(pathA)
	if err != nil {
		return 0, err
	}
	b, err := LoadImage(pathB)
	if err != nil {
		return 0, err
	}
	return c.Similarity(a, b)
}

func (c *Comparator) hash(img image.Image) (*goimagehash.ImageHash, error) {
	var (
		h   *goimagehash.ImageHash
		err error
	)
	switch c.Kind {
	case HashPerception:
		h, err = goimagehash.PerceptionHash(img)
	default:
		h, err = goimagehash.AverageHash(img)
	}
	if err != nil {
		return nil, fmt.Errorf("%s hash: %w", c.Kind, err)
	}
	return h, nil
}

// LoadImage decodes a PNG or JPEG screenshot.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open screenshot: %w", err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot %s: %w", path, err)
	}
	return img, nil
}
