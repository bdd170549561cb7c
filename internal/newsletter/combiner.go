package newsletter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/selfletter/selfletter/internal/model"
)

// digestFilename is the compiled digest written into each date directory.
const digestFilename = "daily-newsletter.md"

// frontmatter is the parsed header of a summary file.
type frontmatter struct {
	Title     string `yaml:"title"`
	SourceURL string `yaml:"source_url"`
	Type      string `yaml:"type"`
	Date      string `yaml:"date"`
}

// entry is one summary loaded back from disk.
type entry struct {
	frontmatter
	Body string
}

// Combiner compiles a date's summary files into one digest document.
type Combiner struct {
	root string
}

// NewCombiner creates a Combiner over the given output root.
func NewCombiner(dir string) *Combiner {
	return &Combiner{root: dir}
}

// Combine groups the date's summaries by content type and writes the digest
// with a table of contents. Returns the digest path, or "" when there is
// nothing to combine (not an error).
func (c *Combiner) Combine(date string) (string, error) {
	dateDir := filepath.Join(c.root, date)
	if _, err := os.Stat(dateDir); os.IsNotExist(err) {
		zap.L().Warn("newsletter: no summaries for date", zap.String("date", date))
		return "", nil
	}

	byType, err := c.collect(dateDir)
	if err != nil {
		return "", err
	}
	if len(byType) == 0 {
		zap.L().Warn("newsletter: nothing to combine", zap.String("date", date))
		return "", nil
	}

	content := buildDigest(date, byType)

	path := filepath.Join(dateDir, digestFilename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", eris.Wrapf(err, "newsletter: write digest %s", path)
	}

	zap.L().Info("newsletter: digest written", zap.String("path", path))
	return path, nil
}

// collect reads every summary file grouped by its type directory. Unreadable
// or malformed files are logged and skipped rather than failing the digest.
func (c *Combiner) collect(dateDir string) (map[string][]entry, error) {
	dirs, err := os.ReadDir(dateDir)
	if err != nil {
		return nil, eris.Wrapf(err, "newsletter: read date dir %s", dateDir)
	}

	byType := make(map[string][]entry)
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		typeDir := filepath.Join(dateDir, d.Name())
		files, err := os.ReadDir(typeDir)
		if err != nil {
			zap.L().Error("newsletter: read type dir failed", zap.String("dir", typeDir), zap.Error(err))
			continue
		}
		names := make([]string, 0, len(files))
		for _, f := range files {
			if !f.IsDir() && strings.HasSuffix(f.Name(), ".md") {
				names = append(names, f.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			path := filepath.Join(typeDir, name)
			e, err := parseSummaryFile(path)
			if err != nil {
				zap.L().Error("newsletter: skipping unreadable summary", zap.String("path", path), zap.Error(err))
				continue
			}
			byType[d.Name()] = append(byType[d.Name()], e)
		}
	}
	return byType, nil
}

// parseSummaryFile splits a summary file into frontmatter and body.
func parseSummaryFile(path string) (entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entry{}, eris.Wrap(err, "newsletter: read summary")
	}

	parts := strings.SplitN(string(raw), "---", 3)
	if len(parts) < 3 {
		return entry{}, eris.Errorf("newsletter: no frontmatter in %s", path)
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return entry{}, eris.Wrap(err, "newsletter: parse frontmatter")
	}
	if fm.Title == "" {
		fm.Title = "Untitled"
	}

	return entry{
		frontmatter: fm,
		Body:        strings.TrimSpace(parts[2]),
	}, nil
}

// typeOrder returns the content types present, known families first in the
// fixed preference order and unknown types appended alphabetically. The
// table of contents and the body sections share this ordering.
func typeOrder(byType map[string][]entry) []string {
	var ordered []string
	seen := make(map[string]bool)
	for _, t := range model.AllContentTypes() {
		if _, ok := byType[string(t)]; ok {
			ordered = append(ordered, string(t))
			seen[string(t)] = true
		}
	}
	var rest []string
	for t := range byType {
		if !seen[t] {
			rest = append(rest, t)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

var titleCaser = cases.Title(language.English)

// buildDigest renders the combined newsletter document.
func buildDigest(date string, byType map[string][]entry) string {
	var b strings.Builder
	w := func(line string) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	w(fmt.Sprintf("# Daily Newsletter - %s", date))
	w("")
	w(fmt.Sprintf("*Generated on %s*", time.Now().UTC().Format("2006-01-02 15:04:05 UTC")))
	w("")

	ordered := typeOrder(byType)

	total := 0
	for _, entries := range byType {
		total += len(entries)
	}

	w("## Table of Contents")
	w("")
	w(fmt.Sprintf("**Total items: %d**", total))
	w("")
	for _, t := range ordered {
		w(fmt.Sprintf("- [%s](#%s) (%d items)", titleCaser.String(t), t, len(byType[t])))
	}
	w("")
	w("---")
	w("")

	for _, t := range ordered {
		entries := byType[t]
		w(fmt.Sprintf("## %s", titleCaser.String(t)))
		w("")
		w(fmt.Sprintf("*%d item(s)*", len(entries)))
		w("")
		for i, e := range entries {
			w(fmt.Sprintf("### %d. %s", i+1, e.Title))
			w("")
			w(fmt.Sprintf("**Source:** [%s](%s)", e.SourceURL, e.SourceURL))
			w("")
			w(e.Body)
			w("")
			w("---")
			w("")
		}
	}

	w("---")
	w("")
	b.WriteString(fmt.Sprintf("*End of newsletter for %s*", date))

	return b.String()
}
