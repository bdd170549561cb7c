package extract

import (
	"context"
	"fmt"
	nurl "net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/selfletter/selfletter/internal/model"
	"github.com/selfletter/selfletter/pkg/jina"
)

// articleMetadataMarkers flag lines that look like bylines or dates rather
// than titles.
var articleMetadataMarkers = []string{"published", "author:", "date:", "by ", "|"}

// ArticleExtractor is the catch-all for blog posts and other web content.
// It fetches through the reader service first and degrades to a local
// HTTP+readability fetch when that fails.
type ArticleExtractor struct {
	fetcher jina.Client
	local   *LocalFetcher
}

func (e *ArticleExtractor) Type() model.ContentType { return model.TypeArticle }

// Handles always returns true; the article extractor is the fallback
// family and must be registered last.
func (e *ArticleExtractor) Handles(string) bool { return true }

func (e *ArticleExtractor) Extract(ctx context.Context, url string) (*model.Document, error) {
	content, err := e.fetcher.Read(ctx, url)
	if err == nil {
		return &model.Document{
			Title:     e.title(content, url),
			Text:      content,
			ActualURL: url,
		}, nil
	}

	if e.local == nil {
		return nil, eris.Wrapf(err, "extract: article fetch for %s", url)
	}

	zap.L().Warn("extract: reader fetch failed, trying local fetch",
		zap.String("url", url),
		zap.Error(err),
	)

	localTitle, text, localErr := e.local.Fetch(ctx, url)
	if localErr != nil {
		return nil, eris.Wrapf(localErr, "extract: article fetch for %s (reader also failed: %v)", url, err)
	}

	title := localTitle
	if title == "" {
		title = e.title(text, url)
	}

	return &model.Document{
		Title:     title,
		Text:      text,
		ActualURL: url,
	}, nil
}

func (e *ArticleExtractor) title(content, url string) string {
	t := titleFromText(content, titleRules{
		maxLines: 10,
		minLen:   20,
		maxLen:   200,
		skip: func(lower string) bool {
			return containsAny(lower, articleMetadataMarkers)
		},
	})
	if t != "" {
		return t
	}
	if u, err := nurl.Parse(url); err == nil && u.Host != "" {
		return fmt.Sprintf("Article from %s", u.Host)
	}
	return strings.TrimSpace(url)
}
