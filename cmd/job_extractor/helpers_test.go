package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the CLI in-process and returns what it wrote to stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	// Keep a developer's .env from leaking into the tests.
	t.Setenv("JOBS_API_URL", "")
	t.Setenv("JOBS_API_TOKEN", "")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func testdataFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	_, err := os.Stat(path)
	require.NoError(t, err)
	return path
}

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(testdataFile(t, name))
	require.NoError(t, err)
	return data
}

// newSiteServer serves the search page at /jobs/search and job pages under /jobs/view/.
func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()
	search := readTestdata(t, "search.html")
	job := readTestdata(t, "job.html")

	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/search", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(search)
	})
	mux.HandleFunc("/jobs/view/backend-developer-at-nordic-cloud-4001", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(job)
	})
	mux.HandleFunc("/jobs/view/4002", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
