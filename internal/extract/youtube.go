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

// YouTubeExtractor fetches video pages through the reader, which surfaces
// the transcript when one is available. All supported URL shapes are
// normalized to the canonical watch URL first.
type YouTubeExtractor struct {
	fetcher jina.Client
}

func (e *YouTubeExtractor) Type() model.ContentType { return model.TypeYouTube }

func (e *YouTubeExtractor) Handles(url string) bool {
	return classify.VideoID(url) != ""
}

func (e *YouTubeExtractor) Extract(ctx context.Context, url string) (*model.Document, error) {
	videoID := classify.VideoID(url)
	if videoID == "" {
		return nil, eris.Errorf("extract: no video id in url: %s", url)
	}

	watchURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)

	content, err := e.fetcher.Read(ctx, watchURL)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: youtube video %s", videoID)
	}

	if !strings.Contains(strings.ToLower(content), "transcript") && len(content) <= 1000 {
		zap.L().Warn("extract: limited content for youtube video, no transcript found",
			zap.String("video_id", videoID),
			zap.Int("chars", len(content)),
		)
	}

	return &model.Document{
		Title:     e.title(content, videoID),
		Text:      content,
		ActualURL: watchURL,
	}, nil
}

func (e *YouTubeExtractor) title(content, videoID string) string {
	t := titleFromText(content, titleRules{
		maxLines: 5,
		minLen:   10,
		maxLen:   200,
		skip: func(lower string) bool {
			return strings.HasPrefix(lower, "transcript") ||
				strings.HasPrefix(lower, "youtube") ||
				strings.HasPrefix(lower, "video")
		},
	})
	if t != "" {
		return t
	}
	return fmt.Sprintf("YouTube Video %s", videoID)
}
