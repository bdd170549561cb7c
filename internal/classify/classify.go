// Package classify maps source URLs onto content families.
//
// Classification is a pure function of the URL string: patterns are tested
// in strict priority order and the generic article family matches
// unconditionally last, so classification is total and never fails.
package classify

import (
	"regexp"

	"github.com/selfletter/selfletter/internal/model"
)

var (
	// HuggingFace paper URLs embed an arXiv ID, so this pattern must be
	// tested before the arXiv patterns or the embedded ID wins.
	hfPaperRe = regexp.MustCompile(`huggingface\.co/papers/(\d{4}\.\d{4,5})`)

	arxivPathRe   = regexp.MustCompile(`arxiv\.org/(?:abs|pdf|html)/(\d{4}\.\d{4,5})(?:v\d+)?`)
	arxivPrefixRe = regexp.MustCompile(`(?i)arxiv:(\d{4}\.\d{4,5})(?:v\d+)?`)

	youtubeRe = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`)
)

// Classify returns the content family for a URL plus the source-specific key
// (arXiv ID or video ID). The key is empty for generic articles.
func Classify(url string) (model.ContentType, string) {
	if m := hfPaperRe.FindStringSubmatch(url); m != nil {
		return model.TypeHuggingFace, m[1]
	}
	if id := ArxivID(url); id != "" {
		return model.TypeArxiv, id
	}
	if m := youtubeRe.FindStringSubmatch(url); m != nil {
		return model.TypeYouTube, m[1]
	}
	return model.TypeArticle, ""
}

// ArxivID extracts an arXiv paper ID from a URL or citation string. The
// URL-path form is tried first, then the case-insensitive "arXiv:" prefix
// form. Returns "" when neither matches.
func ArxivID(s string) string {
	if m := arxivPathRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := arxivPrefixRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// HuggingFaceArxivID extracts the embedded arXiv ID from a HuggingFace
// paper URL. Returns "" when the URL is not a HuggingFace paper link.
func HuggingFaceArxivID(url string) string {
	if m := hfPaperRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// VideoID extracts a YouTube video ID from any of the supported URL shapes.
// Returns "" when the URL is not a YouTube link.
func VideoID(url string) string {
	if m := youtubeRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}
