package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/selfletter/selfletter/internal/classify"
	"github.com/selfletter/selfletter/internal/model"
	"github.com/selfletter/selfletter/pkg/jina"
)

// arxivErrorMarkers flag fetches that returned an error page instead of the
// paper (arXiv serves these with status 200, so the body has to be checked).
var arxivErrorMarkers = []string{
	"error 404",
	"no html for",
	"html is not available for the source",
}

// arxivMinChars is the acceptance gate for the HTML and PDF strategies.
// Content at or below this length falls through to the next strategy.
const arxivMinChars = 500

// ArxivExtractor fetches arXiv papers through a three-step chain: the HTML
// rendering, then the PDF, then the abstract page as the base case.
type ArxivExtractor struct {
	fetcher jina.Client
}

func (e *ArxivExtractor) Type() model.ContentType { return model.TypeArxiv }

func (e *ArxivExtractor) Handles(url string) bool {
	return classify.ArxivID(url) != ""
}

func (e *ArxivExtractor) Extract(ctx context.Context, url string) (*model.Document, error) {
	id := classify.ArxivID(url)
	if id == "" {
		return nil, eris.Errorf("extract: no arxiv id in url: %s", url)
	}
	return e.ExtractByID(ctx, id)
}

// ExtractByID runs the extraction chain for a bare arXiv ID. Exported so the
// HuggingFace extractor can delegate after rewriting its URL.
func (e *ArxivExtractor) ExtractByID(ctx context.Context, id string) (*model.Document, error) {
	log := zap.L().With(zap.String("arxiv_id", id))

	// 1. HTML rendering: best source when it exists. Reject error pages and
	// short shells, then fall through rather than abort.
	htmlURL := fmt.Sprintf("https://arxiv.org/html/%s", id)
	content, err := e.fetcher.Read(ctx, htmlURL)
	if err != nil {
		log.Warn("extract: arxiv html fetch failed, trying pdf", zap.Error(err))
	} else if isArxivErrorPage(content) {
		log.Warn("extract: arxiv html endpoint returned an error page, trying pdf")
	} else if len(strings.TrimSpace(content)) > arxivMinChars {
		return &model.Document{
			Title:     e.title(content, id),
			Text:      content,
			ActualURL: htmlURL,
		}, nil
	} else {
		log.Warn("extract: arxiv html content too short, trying pdf",
			zap.Int("chars", len(content)),
		)
	}

	// 2. PDF rendering via the reader. Same length gate.
	pdfURL := fmt.Sprintf("https://arxiv.org/pdf/%s.pdf", id)
	content, err = e.fetcher.Read(ctx, pdfURL)
	if err != nil {
		log.Warn("extract: arxiv pdf fetch failed, falling back to abstract", zap.Error(err))
	} else if len(strings.TrimSpace(content)) > arxivMinChars {
		return &model.Document{
			Title:     e.title(content, id),
			Text:      content,
			ActualURL: pdfURL,
		}, nil
	} else {
		log.Warn("extract: arxiv pdf content too short, falling back to abstract",
			zap.Int("chars", len(content)),
		)
	}

	// 3. Abstract page: the chain's base case. Accepted unconditionally,
	// but a fetch failure here is terminal for the item.
	absURL := fmt.Sprintf("https://arxiv.org/abs/%s", id)
	content, err = e.fetcher.Read(ctx, absURL)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: arxiv abstract fetch for %s", id)
	}

	return &model.Document{
		Title:     e.title(content, id),
		Text:      content,
		ActualURL: absURL,
	}, nil
}

// isArxivErrorPage scans fetched text for known negative markers.
func isArxivErrorPage(content string) bool {
	return containsAny(strings.ToLower(content), arxivErrorMarkers)
}

// title derives a paper title from the first lines of content, falling back
// to the citation form of the ID.
func (e *ArxivExtractor) title(content, id string) string {
	t := titleFromText(content, titleRules{
		maxLines: 10,
		minLen:   10,
		maxLen:   200,
		skip: func(lower string) bool {
			return lower == "abstract" || lower == "arxiv" || lower == "title"
		},
	})
	if t != "" {
		return t
	}
	return fmt.Sprintf("arXiv:%s", id)
}
