package config

import (
	"errors"
	"fmt"

	"a11ydiff/internal/screenshot"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScreen(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateScreenshots(); err != nil {
		return err
	}
	if c.Batch.Workers <= 0 {
		return errors.New("batch.workers must be positive")
	}
	return c.validateLogging()
}

func (c *Config) validateScreen() error {
	for key, r := range map[string]Rect{
		"screen.bounds":         c.Screen.Bounds,
		"screen.top_nav_bar":    c.Screen.TopNavBar,
		"screen.bottom_nav_bar": c.Screen.BottomNavBar,
	} {
		if err := validateRect(key, r); err != nil {
			return err
		}
	}
	screen := c.Screen.Bounds.Bounds()
	for key, r := range map[string]Rect{
		"screen.top_nav_bar":    c.Screen.TopNavBar,
		"screen.bottom_nav_bar": c.Screen.BottomNavBar,
	} {
		b := r.Bounds()
		if !screen.ContainsPoint(b.X1, b.Y1) || !screen.ContainsPoint(b.X2, b.Y2) {
			return fmt.Errorf("%s %s must lie within screen.bounds %s", key, r, c.Screen.Bounds)
		}
	}
	return nil
}

func validateRect(key string, r Rect) error {
	b := r.Bounds()
	if b.Negative() {
		return fmt.Errorf("%s %s must not contain negative coordinates", key, r)
	}
	if b.X1 > b.X2 || b.Y1 > b.Y2 {
		return fmt.Errorf("%s %s must be written as [x1, y1, x2, y2] with x1 <= x2 and y1 <= y2", key, r)
	}
	return nil
}

func (c *Config) validateDetection() error {
	return ensurePositiveMap(map[string]int{
		"detection.nav_bar_tolerance": c.Detection.NavBarTolerance,
		"detection.content_tolerance": c.Detection.ContentTolerance,
	})
}

func (c *Config) validateScreenshots() error {
	for key, value := range map[string]float64{
		"screenshots.significance_threshold": c.Screenshots.SignificanceThreshold,
		"screenshots.similarity_threshold":   c.Screenshots.SimilarityThreshold,
	} {
		if value <= 0 || value > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %g", key, value)
		}
	}
	switch screenshot.HashKind(c.Screenshots.Hash) {
	case screenshot.HashAverage, screenshot.HashPerception:
	default:
		return fmt.Errorf("screenshots.hash %q must be %q or %q", c.Screenshots.Hash, screenshot.HashAverage, screenshot.HashPerception)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
