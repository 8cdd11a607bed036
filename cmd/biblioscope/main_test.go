// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biblioscope/internal/config"
	"github.com/pdiddy/biblioscope/internal/history"
	"github.com/pdiddy/biblioscope/internal/search"
	"github.com/pdiddy/biblioscope/pkg/types"
)

const scopusBody = `{
  "search-results": {
    "opensearch:totalResults": "2",
    "entry": [
      {
        "dc:title": "Deep learning for graphs",
        "dc:creator": "Smith J.",
        "prism:publicationName": "Nature Machine Intelligence",
        "prism:coverDate": "2021-03-15",
        "prism:doi": "10.1038/s42256-021-00001-1"
      },
      {"dc:title": "Untitled draft"}
    ]
  }
}`

// scopusServer answers every request with status and body and keeps the
// last query parameters.
type scopusServer struct {
	*httptest.Server
	calls  atomic.Int32
	params atomic.Value
}

func newScopusServer(t *testing.T, status int, body string) *scopusServer {
	t.Helper()
	s := &scopusServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		s.params.Store(r.URL.Query())
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *scopusServer) lastParams() url.Values {
	p, _ := s.params.Load().(url.Values)
	return p
}

func testConfig(endpoint string) types.Config {
	return types.Config{
		Client: types.ClientConfig{
			HTTPConfig: types.HTTPConfig{Timeout: 2 * time.Second},
			APIKey:     "test-key",
			Endpoint:   endpoint,
		},
		DefaultCount: 10,
	}
}

func TestRunSearchPrintsResults(t *testing.T) {
	srv := newScopusServer(t, http.StatusOK, scopusBody)

	var stdout, stderr bytes.Buffer
	opts := searchOptions{Request: search.NewRequest("deep learning", search.Title, 10)}
	require.NoError(t, runSearch(context.Background(), testConfig(srv.URL), opts, &stdout, &stderr))

	assert.Equal(t, "TITLE(deep learning)", srv.lastParams().Get("query"))
	assert.True(t, strings.HasPrefix(stdout.String(), "Searching for: deep learning\nRequesting 10 results...\n"),
		"text output should start with the status lines, got %q", stdout.String())
	assert.Empty(t, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "Found 2 total results")
	assert.Contains(t, out, "[1] Deep learning for graphs")
	assert.Contains(t, out, "    Journal: Nature Machine Intelligence (2021)")
	assert.Contains(t, out, "[2] Untitled draft")
	assert.Contains(t, out, "    Author: No author available")
	assert.Contains(t, out, "    DOI: No DOI")
}

func TestRunSearchNetworkErrorIsReported(t *testing.T) {
	srv := newScopusServer(t, http.StatusUnauthorized, `{"service-error":{}}`)

	var stdout, stderr bytes.Buffer
	opts := searchOptions{Request: search.NewRequest("x", search.General, 10)}
	err := runSearch(context.Background(), testConfig(srv.URL), opts, &stdout, &stderr)

	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), "Found")
	assert.Contains(t, stderr.String(), "Error searching Scopus: HTTP 401")
}

func TestRunSearchTimeoutIsReported(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	cfg := testConfig(ts.URL)
	cfg.Client.Timeout = 50 * time.Millisecond

	var stdout, stderr bytes.Buffer
	opts := searchOptions{Request: search.NewRequest("x", search.General, 10)}
	require.NoError(t, runSearch(context.Background(), cfg, opts, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Error searching Scopus:")
	assert.NotContains(t, stdout.String(), "Found")
}

func TestRunSearchRecordsHistory(t *testing.T) {
	srv := newScopusServer(t, http.StatusOK, scopusBody)
	failing := newScopusServer(t, http.StatusInternalServerError, "")

	cfg := testConfig(srv.URL)
	cfg.HistoryPath = filepath.Join(t.TempDir(), "history.db")

	var stdout, stderr bytes.Buffer
	opts := searchOptions{Request: search.NewRequest("Smith", search.Author, 5)}
	require.NoError(t, runSearch(context.Background(), cfg, opts, &stdout, &stderr))

	cfg.Client.Endpoint = failing.URL
	require.NoError(t, runSearch(context.Background(), cfg, opts, &stdout, &stderr))

	store, err := history.Open(cfg.HistoryPath)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.True(t, entries[0].Failed())
	assert.Equal(t, "AUTHOR-NAME(Smith)", entries[1].Expression)
	assert.Equal(t, "author", entries[1].Mode)
	assert.Equal(t, "2", entries[1].Total)
	assert.Equal(t, 2, entries[1].Returned)
}

func TestRunSearchNoHistory(t *testing.T) {
	srv := newScopusServer(t, http.StatusOK, scopusBody)

	cfg := testConfig(srv.URL)
	cfg.HistoryPath = filepath.Join(t.TempDir(), "history.db")

	var stdout, stderr bytes.Buffer
	opts := searchOptions{Request: search.NewRequest("x", search.General, 5), NoHistory: true}
	require.NoError(t, runSearch(context.Background(), cfg, opts, &stdout, &stderr))

	_, err := os.Stat(cfg.HistoryPath)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunSearchSaveAndJSON(t *testing.T) {
	srv := newScopusServer(t, http.StatusOK, scopusBody)
	path := filepath.Join(t.TempDir(), "saved.yaml")

	var stdout, stderr bytes.Buffer
	opts := searchOptions{
		Request:  search.NewRequest("10.1038/s42256-021-00001-1", search.Doi, 10),
		Format:   search.JSONFormat,
		SavePath: path,
	}
	require.NoError(t, runSearch(context.Background(), testConfig(srv.URL), opts, &stdout, &stderr))

	assert.True(t, strings.HasPrefix(stdout.String(), "{"), "JSON output must not carry status lines")
	assert.Contains(t, stdout.String(), `"total_count": "2"`)
	assert.Contains(t, stderr.String(), "Searching for: 10.1038/s42256-021-00001-1")
	assert.Contains(t, stderr.String(), "Saved query to "+path)

	qf, err := search.ReadQueryFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DOI(10.1038/s42256-021-00001-1)", qf.Query.Expression)
	assert.Len(t, qf.Results, 2)
}

// resetCLI restores flag defaults and isolates env, working directory and
// config locations so rootCmd can run more than once per process.
func resetCLI(t *testing.T) {
	t.Helper()
	resetFlagsOnly(t)

	for _, k := range []string{config.APIKeyEnv, "BIBLIOSCOPE_ENDPOINT", "BIBLIOSCOPE_HISTORY", "BIBLIOSCOPE_COUNT", "BIBLIOSCOPE_TIMEOUT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	chdir(t, t.TempDir())
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootMissingAPIKeyMakesNoRequest(t *testing.T) {
	resetCLI(t)
	srv := newScopusServer(t, http.StatusOK, scopusBody)
	t.Setenv("BIBLIOSCOPE_ENDPOINT", srv.URL)

	_, stderr, err := execute(t, "machine learning", "--no-history")

	require.Error(t, err)
	var ce *config.ConfigError
	assert.True(t, errors.As(err, &ce))
	assert.Contains(t, stderr, "ELSEVIER_API_KEY not found")
	assert.Equal(t, int32(0), srv.calls.Load())
}

func TestRootAPIKeyFromDotEnv(t *testing.T) {
	resetCLI(t)
	srv := newScopusServer(t, http.StatusOK, scopusBody)
	t.Setenv("BIBLIOSCOPE_ENDPOINT", srv.URL)
	require.NoError(t, os.WriteFile(".env", []byte("ELSEVIER_API_KEY=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv(config.APIKeyEnv) })

	stdout, _, err := execute(t, "graphs", "--no-history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 2 total results")
	assert.Equal(t, int32(1), srv.calls.Load())
}

func TestRootModeAndCountFlags(t *testing.T) {
	resetCLI(t)
	srv := newScopusServer(t, http.StatusOK, scopusBody)
	t.Setenv(config.APIKeyEnv, "k")
	t.Setenv("BIBLIOSCOPE_ENDPOINT", srv.URL)

	_, _, err := execute(t, "https://doi.org/10.1/X", "--doi", "--title", "-c", "500", "--no-history")
	require.NoError(t, err)

	params := srv.lastParams()
	assert.Equal(t, "DOI(10.1/X)", params.Get("query"))
	assert.Equal(t, "200", params.Get("count"))
}

func TestRootNonPositiveCountSendsOne(t *testing.T) {
	for _, count := range []string{"0", "-5"} {
		t.Run("count="+count, func(t *testing.T) {
			resetCLI(t)
			srv := newScopusServer(t, http.StatusOK, scopusBody)
			t.Setenv(config.APIKeyEnv, "k")
			t.Setenv("BIBLIOSCOPE_ENDPOINT", srv.URL)

			stdout, _, err := execute(t, "x", "--count="+count, "--no-history")
			require.NoError(t, err)
			assert.Equal(t, "1", srv.lastParams().Get("count"))
			assert.Contains(t, stdout, "Requesting 1 results...")
		})
	}
}

func TestRootDefaultCount(t *testing.T) {
	resetCLI(t)
	srv := newScopusServer(t, http.StatusOK, scopusBody)
	t.Setenv(config.APIKeyEnv, "k")
	t.Setenv("BIBLIOSCOPE_ENDPOINT", srv.URL)

	_, _, err := execute(t, "x", "--no-history")
	require.NoError(t, err)
	assert.Equal(t, "10", srv.lastParams().Get("count"))
}

func TestRootNetworkErrorExitsCleanly(t *testing.T) {
	resetCLI(t)
	srv := newScopusServer(t, http.StatusServiceUnavailable, "down")
	t.Setenv(config.APIKeyEnv, "k")
	t.Setenv("BIBLIOSCOPE_ENDPOINT", srv.URL)

	stdout, stderr, err := execute(t, "x", "--no-history")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Found")
	assert.Contains(t, stderr, "Error searching Scopus: HTTP 503: down")
}

func TestRootRejectsUnknownFormat(t *testing.T) {
	resetCLI(t)
	srv := newScopusServer(t, http.StatusOK, scopusBody)
	t.Setenv(config.APIKeyEnv, "k")
	t.Setenv("BIBLIOSCOPE_ENDPOINT", srv.URL)

	_, _, err := execute(t, "x", "--format", "xml", "--no-history")
	require.Error(t, err)
	assert.Equal(t, int32(0), srv.calls.Load())
}

func TestHistoryCommand(t *testing.T) {
	resetCLI(t)
	srv := newScopusServer(t, http.StatusOK, scopusBody)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	t.Setenv(config.APIKeyEnv, "k")
	t.Setenv("BIBLIOSCOPE_ENDPOINT", srv.URL)
	t.Setenv("BIBLIOSCOPE_HISTORY", dbPath)

	_, _, err := execute(t, "deep learning", "--title")
	require.NoError(t, err)

	resetFlagsOnly(t)
	stdout, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "TITLE(deep learning)")

	resetFlagsOnly(t)
	stdout, _, err = execute(t, "history", "--clear")
	require.NoError(t, err)
	assert.Equal(t, "Removed 1 searches.\n", stdout)

	resetFlagsOnly(t)
	stdout, _, err = execute(t, "history", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(stdout))
}

func resetFlagsOnly(t *testing.T) {
	t.Helper()
	for _, fs := range []*pflag.FlagSet{rootCmd.Flags(), rootCmd.PersistentFlags(), historyCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

func TestVersionCommand(t *testing.T) {
	resetCLI(t)
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "biblioscope dev\n", stdout)
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
