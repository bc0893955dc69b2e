package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"a11ydiff/internal/detect"
	"a11ydiff/internal/fileutil"
	"a11ydiff/internal/logging"
	"a11ydiff/internal/textutil"
	"a11ydiff/internal/uitree"
)

// ErrOverlay marks a report that was discarded because an overlay could not
// be rendered.
var ErrOverlay = errors.New("overlay rendering failed")

// Case is everything the writer needs for one test case.
type Case struct {
	App           string
	Name          string
	Dir           string
	WindowChanged bool
	Result        detect.Result
	// Images are the pre, mid and final screenshots; empty entries get no
	// overlay.
	Images [3]string
	// Sources are copied into the artifacts subfolder.
	Sources []string
}

// Writer creates report folders below a results directory.
type Writer struct {
	root     string
	overlays bool
	logger   *slog.Logger
}

// NewWriter returns a writer rooted at dir.
func NewWriter(dir string, overlays bool, logger *slog.Logger) *Writer {
	return &Writer{
		root:     dir,
		overlays: overlays,
		logger:   logging.NewComponentLogger(logger, "report"),
	}
}

// FolderFor is the report folder of a case.
func (w *Writer) FolderFor(app, name string) string {
	return filepath.Join(w.root, textutil.JoinTokens(app, name))
}

// Write creates or replaces the case folder and returns its path. On an
// overlay failure the folder is removed and the error wraps ErrOverlay.
func (w *Writer) Write(ctx context.Context, c Case) (string, error) {
	folder := w.FolderFor(c.App, c.Name)
	if err := os.RemoveAll(folder); err != nil {
		return "", fmt.Errorf("clear report folder: %w", err)
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("create report folder: %w", err)
	}

	if err := w.writeResults(folder, c); err != nil {
		_ = os.RemoveAll(folder)
		return "", err
	}
	if len(c.Sources) > 0 {
		if _, err := fileutil.CopyIntoDir(filepath.Join(folder, "artifacts"), c.Sources...); err != nil {
			_ = os.RemoveAll(folder)
			return "", fmt.Errorf("copy artifacts: %w", err)
		}
	}
	if w.overlays {
		if err := w.writeOverlays(ctx, folder, c); err != nil {
			_ = os.RemoveAll(folder)
			return "", fmt.Errorf("%w: %w", ErrOverlay, err)
		}
	}

	logging.WithContext(ctx, w.logger).Debug("report written",
		logging.String("folder", folder),
		logging.Int("findings", c.Result.Total()),
	)
	return folder, nil
}

func (w *Writer) writeResults(folder string, c Case) error {
	f, err := os.Create(filepath.Join(folder, "results.txt"))
	if err != nil {
		return fmt.Errorf("create results.txt: %w", err)
	}
	if err := WriteText(f, c); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (w *Writer) writeOverlays(ctx context.Context, folder string, c Case) error {
	for _, cat := range detect.Categories {
		nodes := c.Result.Nodes(cat)
		if len(nodes) == 0 {
			continue
		}
		boxes := make([]uitree.Bounds, 0, len(nodes))
		for _, n := range nodes {
			boxes = append(boxes, n.Bounds)
		}
		for i, src := range c.Images {
			if src == "" {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			dst := filepath.Join(folder, OverlayName(cat, i+1))
			if err := renderOverlay(src, dst, boxes, styles[cat].color); err != nil {
				return fmt.Errorf("%s on %s: %w", cat, filepath.Base(src), err)
			}
		}
		logging.WithContext(ctx, w.logger).Debug("overlays rendered",
			logging.String(logging.FieldCategory, cat.String()),
			logging.Int("boxes", len(boxes)),
		)
	}
	return nil
}
