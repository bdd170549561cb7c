package model

import "time"

// ContentType is the content family a source URL is classified into.
type ContentType string

const (
	TypeArxiv       ContentType = "arxiv"
	TypeHuggingFace ContentType = "huggingface"
	TypeYouTube     ContentType = "youtube"
	TypeArticle     ContentType = "article"
)

// AllContentTypes returns the known content families in digest display order.
// Unknown types found on disk are appended alphabetically after these.
func AllContentTypes() []ContentType {
	return []ContentType{TypeArxiv, TypeHuggingFace, TypeYouTube, TypeArticle}
}

// Document is the extracted text for one work item, before summarization.
// ActualURL is the URL that actually yielded content; for an arXiv paper it
// may be the HTML, PDF, or abstract endpoint rather than the queued URL.
type Document struct {
	Title     string
	Text      string
	ActualURL string
}

// Summary is the persisted artifact for one processed item.
type Summary struct {
	Title     string
	SourceURL string
	Type      ContentType
	Body      string
	CreatedAt time.Time
}
