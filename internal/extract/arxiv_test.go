package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfletter/selfletter/internal/model"
)

// fakeFetcher serves canned responses keyed by URL and records the fetch
// order.
type fakeFetcher struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeFetcher) Read(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	if body, ok := f.responses[url]; ok {
		return body, nil
	}
	return "", eris.Errorf("no canned response for %s", url)
}

func paperBody(title string) string {
	return title + "\n\n" + strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
}

func TestArxivExtract_HTMLSucceeds(t *testing.T) {
	f := &fakeFetcher{responses: map[string]string{
		"https://arxiv.org/html/2401.12345": paperBody("Attention Is All You Need Again"),
	}}
	e := &ArxivExtractor{fetcher: f}

	doc, err := e.Extract(context.Background(), "https://arxiv.org/abs/2401.12345")
	require.NoError(t, err)
	assert.Equal(t, "Attention Is All You Need Again", doc.Title)
	assert.Equal(t, "https://arxiv.org/html/2401.12345", doc.ActualURL)
	assert.Equal(t, []string{"https://arxiv.org/html/2401.12345"}, f.calls)
}

func TestArxivExtract_ErrorPageFallsThroughToPDF(t *testing.T) {
	f := &fakeFetcher{responses: map[string]string{
		"https://arxiv.org/html/2401.12345":    "Error 404: page not found " + strings.Repeat("x", 600),
		"https://arxiv.org/pdf/2401.12345.pdf": paperBody("A Paper Retrieved From The PDF"),
	}}
	e := &ArxivExtractor{fetcher: f}

	doc, err := e.Extract(context.Background(), "https://arxiv.org/abs/2401.12345")
	require.NoError(t, err)
	assert.Equal(t, "https://arxiv.org/pdf/2401.12345.pdf", doc.ActualURL)
	assert.Equal(t, "A Paper Retrieved From The PDF", doc.Title)
}

func TestArxivExtract_ShortContentFallsThrough(t *testing.T) {
	// Exactly the gate length does not pass: the gate is strictly greater.
	exactly := strings.Repeat("a", arxivMinChars)
	f := &fakeFetcher{responses: map[string]string{
		"https://arxiv.org/html/2401.12345":    exactly,
		"https://arxiv.org/pdf/2401.12345.pdf": exactly,
		"https://arxiv.org/abs/2401.12345":     "Abstract\nShort abstract text is fine here.",
	}}
	e := &ArxivExtractor{fetcher: f}

	doc, err := e.Extract(context.Background(), "https://arxiv.org/abs/2401.12345")
	require.NoError(t, err)
	// Both gated strategies rejected; the abstract is accepted unconditionally.
	assert.Equal(t, "https://arxiv.org/abs/2401.12345", doc.ActualURL)
	assert.Len(t, f.calls, 3)
}

func TestArxivExtract_FetchErrorsDegradeToAbstract(t *testing.T) {
	f := &fakeFetcher{
		errs: map[string]error{
			"https://arxiv.org/html/2401.12345":    eris.New("upstream 500"),
			"https://arxiv.org/pdf/2401.12345.pdf": eris.New("upstream 500"),
		},
		responses: map[string]string{
			"https://arxiv.org/abs/2401.12345": "Scaling Laws For Neural Everything\nAbstract body.",
		},
	}
	e := &ArxivExtractor{fetcher: f}

	doc, err := e.Extract(context.Background(), "arXiv:2401.12345")
	require.NoError(t, err)
	assert.Equal(t, "Scaling Laws For Neural Everything", doc.Title)
}

func TestArxivExtract_AbstractFailureIsTerminal(t *testing.T) {
	f := &fakeFetcher{errs: map[string]error{
		"https://arxiv.org/html/2401.12345":    eris.New("down"),
		"https://arxiv.org/pdf/2401.12345.pdf": eris.New("down"),
		"https://arxiv.org/abs/2401.12345":     eris.New("down"),
	}}
	e := &ArxivExtractor{fetcher: f}

	_, err := e.Extract(context.Background(), "https://arxiv.org/abs/2401.12345")
	assert.Error(t, err)
}

func TestArxivExtract_TitleFallback(t *testing.T) {
	// Every candidate line is boilerplate, so the citation form wins.
	body := "arXiv\nAbstract\nTitle\n" + strings.Repeat("body text ", 100)
	f := &fakeFetcher{responses: map[string]string{
		"https://arxiv.org/html/2401.12345": body,
	}}
	e := &ArxivExtractor{fetcher: f}

	doc, err := e.Extract(context.Background(), "https://arxiv.org/abs/2401.12345")
	require.NoError(t, err)
	assert.Equal(t, "arXiv:2401.12345", doc.Title)
}

func TestArxivExtract_NoID(t *testing.T) {
	e := &ArxivExtractor{fetcher: &fakeFetcher{}}
	_, err := e.Extract(context.Background(), "https://example.com/paper")
	assert.Error(t, err)
}

func TestIsArxivErrorPage(t *testing.T) {
	assert.True(t, isArxivErrorPage("Error 404 — not found"))
	assert.True(t, isArxivErrorPage("No HTML for 2401.12345"))
	assert.True(t, isArxivErrorPage("HTML is not available for the source of this paper"))
	assert.False(t, isArxivErrorPage("A perfectly good paper about 404 handling"))
}

func TestHuggingFaceExtract_DelegatesToArxiv(t *testing.T) {
	f := &fakeFetcher{responses: map[string]string{
		"https://arxiv.org/html/2401.12345": paperBody("Mixture Of Depths"),
	}}
	hf := &HuggingFaceExtractor{arxiv: &ArxivExtractor{fetcher: f}}

	doc, err := hf.Extract(context.Background(), "https://huggingface.co/papers/2401.12345")
	require.NoError(t, err)
	assert.Equal(t, "Mixture Of Depths", doc.Title)
	assert.Equal(t, "https://arxiv.org/html/2401.12345", doc.ActualURL)
	assert.Equal(t, model.TypeHuggingFace, hf.Type())
}
