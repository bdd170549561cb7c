// Package newsletter persists summaries as frontmatter markdown files and
// compiles them into the daily digest.
//
// Layout: <root>/<YYYY-MM-DD>/<type>/<slug>[-N].md, with the digest written
// alongside as daily-newsletter.md. The file tree is the system of record
// for deduplication.
package newsletter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/selfletter/selfletter/internal/model"
)

// Writer persists summary files under the output root.
type Writer struct {
	root string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Root returns the output root directory.
func (w *Writer) Root() string { return w.root }

// Save writes one summary under <root>/<date>/<type>/. Filename collisions
// are resolved by numeric suffix; existing files are never overwritten.
// Returns the path written.
func (w *Writer) Save(summary model.Summary, date string) (string, error) {
	dir := filepath.Join(w.root, date, string(summary.Type))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "newsletter: create dir %s", dir)
	}

	name := summary.Title
	if name == "" {
		name = summary.SourceURL
	}
	slug := Slug(name)

	path := filepath.Join(dir, slug+".md")
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.md", slug, i))
	}

	if err := os.WriteFile(path, []byte(render(summary)), 0o644); err != nil {
		return "", eris.Wrapf(err, "newsletter: write %s", path)
	}

	zap.L().Info("newsletter: saved summary", zap.String("path", path))
	return path, nil
}

// render produces the frontmatter file body.
func render(s model.Summary) string {
	title := s.Title
	if title == "" {
		title = s.SourceURL
	}
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return fmt.Sprintf(`---
title: %q
source_url: %q
type: %q
date: %q
---

%s
`, title, s.SourceURL, s.Type, created.UTC().Format(time.RFC3339), s.Body)
}

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe    = regexp.MustCompile(`[\s_]+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// Slug converts a title to a safe filename: diacritics folded, lowercased,
// special characters removed, whitespace collapsed to single dashes.
func Slug(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err == nil {
		name = folded
	}

	name = strings.ToLower(strings.TrimSpace(name))
	name = slugStripRe.ReplaceAllString(name, "")
	name = slugSpaceRe.ReplaceAllString(name, "-")
	name = strings.Trim(slugCollapseRe.ReplaceAllString(name, "-"), "-")

	if name == "" {
		return "untitled"
	}
	return name
}
