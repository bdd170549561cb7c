package extract

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/selfletter/selfletter/internal/classify"
	"github.com/selfletter/selfletter/internal/model"
)

// HuggingFaceExtractor handles huggingface.co/papers links. These are
// mirrors of arXiv papers, so extraction rewrites to the canonical arXiv
// URL and delegates to the arXiv chain instead of reimplementing it.
type HuggingFaceExtractor struct {
	arxiv *ArxivExtractor
}

func (e *HuggingFaceExtractor) Type() model.ContentType { return model.TypeHuggingFace }

func (e *HuggingFaceExtractor) Handles(url string) bool {
	return classify.HuggingFaceArxivID(url) != ""
}

func (e *HuggingFaceExtractor) Extract(ctx context.Context, url string) (*model.Document, error) {
	id := classify.HuggingFaceArxivID(url)
	if id == "" {
		return nil, eris.Errorf("extract: no arxiv id in huggingface url: %s", url)
	}

	zap.L().Info("extract: huggingface paper delegates to arxiv",
		zap.String("url", url),
		zap.String("arxiv_id", id),
	)

	doc, err := e.arxiv.ExtractByID(ctx, id)
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("extract: huggingface paper %s", id))
	}
	return doc, nil
}
