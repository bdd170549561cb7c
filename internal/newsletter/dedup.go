package newsletter

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Seen reports whether a URL already appears in any persisted summary file
// under the output root. This scan is the system's dedup authority: items
// whose URL is already on disk are skipped without reprocessing.
//
// Files are read with bounded parallelism; unreadable files are skipped.
// The scan is read-only and idempotent.
func (w *Writer) Seen(ctx context.Context, url string) bool {
	if url == "" {
		return false
	}
	if _, err := os.Stat(w.root); os.IsNotExist(err) {
		return false
	}

	var paths []string
	walkErr := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		zap.L().Warn("newsletter: dedup walk failed", zap.Error(walkErr))
		return false
	}

	var found atomic.Bool
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, path := range paths {
		g.Go(func() error {
			if found.Load() {
				return nil
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			if strings.Contains(string(content), url) {
				found.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()

	return found.Load()
}
