package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleExtract_ReaderSucceeds(t *testing.T) {
	body := "Why Goroutines Are Cheaper Than Threads\nPublished 2024-01-01\n" + strings.Repeat("stack growth ", 50)
	f := &fakeFetcher{responses: map[string]string{
		"https://example.com/post": body,
	}}
	e := &ArticleExtractor{fetcher: f}

	doc, err := e.Extract(context.Background(), "https://example.com/post")
	require.NoError(t, err)
	assert.Equal(t, "Why Goroutines Are Cheaper Than Threads", doc.Title)
	assert.Equal(t, "https://example.com/post", doc.ActualURL)
}

func TestArticleExtract_TitleSkipsMetadataLines(t *testing.T) {
	body := strings.Join([]string{
		"Published January 3rd on the engineering blog",
		"by Jordan Smith with contributions",
		"Author: the platform team | infra",
		"Practical Lessons From Running Postgres At Scale",
	}, "\n")
	f := &fakeFetcher{responses: map[string]string{"https://example.com/pg": body}}
	e := &ArticleExtractor{fetcher: f}

	doc, err := e.Extract(context.Background(), "https://example.com/pg")
	require.NoError(t, err)
	assert.Equal(t, "Practical Lessons From Running Postgres At Scale", doc.Title)
}

func TestArticleExtract_TitleFallbackToHost(t *testing.T) {
	f := &fakeFetcher{responses: map[string]string{"https://blog.example.com/x": "short"}}
	e := &ArticleExtractor{fetcher: f}

	doc, err := e.Extract(context.Background(), "https://blog.example.com/x")
	require.NoError(t, err)
	assert.Equal(t, "Article from blog.example.com", doc.Title)
}

func TestArticleExtract_LocalFallback(t *testing.T) {
	page := fmt.Sprintf(`<html><head>
<meta property="og:title" content="The Article Title">
<title>The Article Title - Some Site</title>
</head><body><article><h1>The Article Title</h1><p>%s</p></article></body></html>`,
		strings.Repeat("Readable paragraph content about databases. ", 20))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	f := &fakeFetcher{errs: map[string]error{srv.URL: eris.New("reader quota exceeded")}}
	e := &ArticleExtractor{fetcher: f, local: NewLocalFetcher("test-agent")}

	doc, err := e.Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "The Article Title", doc.Title)
	assert.Contains(t, doc.Text, "Readable paragraph content")
}

func TestArticleExtract_BothFetchesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	f := &fakeFetcher{errs: map[string]error{srv.URL: eris.New("reader down")}}
	e := &ArticleExtractor{fetcher: f, local: NewLocalFetcher("")}

	_, err := e.Extract(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestLocalFetcher_RejectsThinPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>tiny</p></body></html>")
	}))
	defer srv.Close()

	_, _, err := NewLocalFetcher("").Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestRegistry_PriorityOrder(t *testing.T) {
	r := NewRegistry(&fakeFetcher{}, nil)

	tests := []struct {
		url  string
		want string
	}{
		{"https://huggingface.co/papers/2401.12345", "huggingface"},
		{"https://arxiv.org/abs/2401.12345", "arxiv"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "youtube"},
		{"https://example.com/anything", "article"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(r.For(tt.url).Type()), tt.url)
	}
}
