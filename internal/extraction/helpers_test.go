package extraction

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-extractor/internal/dom"
	"github.com/jonathan/job-extractor/internal/dom/static"
)

const jobPageURL = "https://www.linkedin.com/jobs/view/3912345678/"

func loadFixture(t *testing.T, name, pageURL string) *static.Document {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	doc, err := static.Parse(string(content), pageURL)
	require.NoError(t, err)
	return doc
}

func parseHTML(t *testing.T, html string) *static.Document {
	t.Helper()
	doc, err := static.Parse(html, jobPageURL)
	require.NoError(t, err)
	return doc
}

// faultyQuerier fails selected queries and otherwise delegates.
type faultyQuerier struct {
	dom.Querier
	failing map[string]bool
}

func (f *faultyQuerier) QueryOne(selector string) (dom.Element, error) {
	if f.failing[selector] {
		return nil, &dom.QueryError{Selector: selector, Cause: errors.New("node detached")}
	}
	return f.Querier.QueryOne(selector)
}

func (f *faultyQuerier) QueryAll(selector string) ([]dom.Element, error) {
	if f.failing[selector] {
		return nil, &dom.QueryError{Selector: selector, Cause: errors.New("node detached")}
	}
	return f.Querier.QueryAll(selector)
}
