// Package extract turns classified URLs into normalized text documents.
//
// Each content family has its own extractor with an ordered chain of fetch
// strategies and graceful degradation between them. Extractors are held in a
// registry tested in priority order; the article extractor handles every URL
// and is registered last, so lookup is total.
package extract

import (
	"context"

	"github.com/selfletter/selfletter/internal/model"
	"github.com/selfletter/selfletter/pkg/jina"
)

// Extractor produces a Document for URLs of one content family.
type Extractor interface {
	// Type is the content family tag this extractor produces.
	Type() model.ContentType
	// Handles reports whether this extractor recognizes the URL.
	Handles(url string) bool
	// Extract fetches and normalizes the content behind the URL.
	Extract(ctx context.Context, url string) (*model.Document, error)
}

// Registry holds extractors in strict priority order.
type Registry struct {
	extractors []Extractor
}

// NewRegistry builds the default registry. Order matters: HuggingFace paper
// URLs embed arXiv IDs and must be tested before the arXiv extractor, and
// the article extractor is the unconditional catch-all at the end.
func NewRegistry(fetcher jina.Client, local *LocalFetcher) *Registry {
	arxiv := &ArxivExtractor{fetcher: fetcher}
	return &Registry{
		extractors: []Extractor{
			&HuggingFaceExtractor{arxiv: arxiv},
			arxiv,
			&YouTubeExtractor{fetcher: fetcher},
			&ArticleExtractor{fetcher: fetcher, local: local},
		},
	}
}

// For returns the first extractor that handles the URL. Never nil: the
// article extractor handles everything.
func (r *Registry) For(url string) Extractor {
	for _, e := range r.extractors {
		if e.Handles(url) {
			return e
		}
	}
	// Unreachable while the catch-all is registered, but keep lookup total.
	return r.extractors[len(r.extractors)-1]
}
