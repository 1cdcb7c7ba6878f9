package scrape

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagegrab/pkg/admission"
	"github.com/entrhq/pagegrab/pkg/browser"
	"github.com/entrhq/pagegrab/pkg/config"
	"github.com/entrhq/pagegrab/pkg/extract"
	"github.com/entrhq/pagegrab/pkg/logging"
)

// fakeRuntime serves fixed HTML per URL and records what the scraper did.
type fakeRuntime struct {
	pages    map[string]string
	openErr  error
	closeErr error

	// subresources are offered to the admission callback after navigation.
	subresources []string

	session *fakeSession
}

type fakeSession struct {
	rt       *fakeRuntime
	decide   browser.AdmissionFunc
	doc      *extract.HTMLDocument
	admitted []string
	aborted  map[string]admission.Decision
	closed   int
}

func (r *fakeRuntime) Open(ctx context.Context) (browser.Session, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	r.session = &fakeSession{rt: r, aborted: map[string]admission.Decision{}}
	return r.session, nil
}

func (s *fakeSession) SetAdmission(decide browser.AdmissionFunc) error {
	s.decide = decide
	return nil
}

func (s *fakeSession) request(url string) bool {
	if s.decide != nil {
		if d := s.decide(url); d.Aborted() {
			s.aborted[url] = d
			return false
		}
	}
	s.admitted = append(s.admitted, url)
	return true
}

func (s *fakeSession) Navigate(ctx context.Context, url string) (browser.NavigationResult, error) {
	if !s.request(url) {
		return browser.Failed(0, "aborted"), nil
	}
	page, ok := s.rt.pages[url]
	if !ok {
		return browser.Failed(404, "404 Not Found"), nil
	}
	for _, sub := range s.rt.subresources {
		s.request(sub)
	}
	doc, err := extract.ParseHTML(strings.NewReader(page))
	if err != nil {
		return browser.NavigationResult{}, err
	}
	s.doc = doc
	return browser.Succeeded(200), nil
}

func (s *fakeSession) Extract(ctx context.Context, req extract.Request) (extract.Result, error) {
	return extract.Extract(s.doc, req)
}

func (s *fakeSession) Close() error {
	s.closed++
	return s.rt.closeErr
}

const titlePage = `<html><body><div id="title"> Hello </div>
<ul><li>a</li><li>b</li><li>c</li><li>d</li><li>e</li></ul></body></html>`

func testConfig(overrides map[string]string) config.Config {
	env := map[string]string{
		config.KeyURL:      "http://example.com/page",
		config.KeySelector: "#title",
	}
	for k, v := range overrides {
		env[k] = v
	}
	cfg, err := config.Resolve(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

func quietLogger() *logging.Logger {
	return logging.NewLogger("test", io.Discard, false)
}

func TestRun_FirstText(t *testing.T) {
	rt := &fakeRuntime{pages: map[string]string{"http://example.com/page": titlePage}}
	var out bytes.Buffer

	err := Run(context.Background(), testConfig(nil), rt, &out, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "Hello\n", out.String())
	assert.Equal(t, 1, rt.session.closed)
	assert.Nil(t, rt.session.decide, "no admission without allowDomain")
}

func TestRun_OutputModes(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		want      string
	}{
		{"all plain", map[string]string{"selector": "li", "query": "all"}, "a\nb\nc\nd\ne\n"},
		{"all limited", map[string]string{"selector": "li", "query": "all", "limit": "3"}, "a\nb\nc\n"},
		{"all json", map[string]string{"selector": "li", "query": "all", "limit": "2", "output": "json"}, "[\"a\",\"b\"]\n"},
		{"all json indent", map[string]string{"selector": "li", "query": "all", "limit": "2", "output": "json", "format": "indent"}, "[\n  \"a\",\n  \"b\"\n]\n"},
		{"last", map[string]string{"selector": "li", "query": "last"}, "e\n"},
		{"last none plain", map[string]string{"selector": "table", "query": "last"}, ""},
		{"last none json", map[string]string{"selector": "table", "query": "last", "output": "json"}, "[]\n"},
		{"first none json", map[string]string{"selector": "table", "output": "json"}, "null\n"},
		{"html", map[string]string{"selector": "ul", "type": "html", "output": "json"}, "\"<li>a</li><li>b</li><li>c</li><li>d</li><li>e</li>\"\n"},
		{"yaml", map[string]string{"selector": "li", "query": "all", "limit": "2", "output": "yaml"}, "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &fakeRuntime{pages: map[string]string{"http://example.com/page": titlePage}}
			var out bytes.Buffer
			require.NoError(t, Run(context.Background(), testConfig(tt.overrides), rt, &out, quietLogger()))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRun_AdmissionInstalled(t *testing.T) {
	rt := &fakeRuntime{
		pages: map[string]string{"http://example.com/page": titlePage},
		subresources: []string{
			"http://cdn.other.com/x/logo.png",
			"http://example.com/x/app.js",
			"http://example.com/x/site.css",
		},
	}
	var logs, out bytes.Buffer
	logger := logging.NewLogger("test", &logs, true)

	err := Run(context.Background(), testConfig(map[string]string{"allowDomain": "example.com"}), rt, &out, logger)
	require.NoError(t, err)
	assert.Equal(t, "Hello\n", out.String())

	assert.Equal(t, []string{"http://example.com/page", "http://example.com/x/app.js"}, rt.session.admitted)
	assert.Equal(t, map[string]admission.Decision{
		"http://cdn.other.com/x/logo.png": admission.AbortDomainMismatch,
		"http://example.com/x/site.css":   admission.AbortMediaType,
	}, rt.session.aborted)

	assert.Contains(t, logs.String(), "abort domain cdn.other.com")
	assert.Contains(t, logs.String(), "abort media site.css")
}

func TestRun_NavigationFailure(t *testing.T) {
	rt := &fakeRuntime{pages: map[string]string{}}
	var out bytes.Buffer

	err := Run(context.Background(), testConfig(nil), rt, &out, quietLogger())
	require.Error(t, err)
	assert.True(t, IsNavigation(err))

	var navErr *NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, 404, navErr.Status)
	assert.Equal(t, "http://example.com/page", navErr.URL)
	assert.Contains(t, err.Error(), "status 404")

	assert.Empty(t, out.String())
	assert.Equal(t, 1, rt.session.closed, "session released after failed navigation")
}

func TestRun_DocumentAbortedByAdmission(t *testing.T) {
	rt := &fakeRuntime{pages: map[string]string{"http://example.com/page": titlePage}}
	cfg := testConfig(map[string]string{"allowDomain": "other.org"})

	err := Run(context.Background(), cfg, rt, io.Discard, quietLogger())
	assert.True(t, IsNavigation(err))
	assert.Equal(t, 1, rt.session.closed)
}

func TestRun_ExtractionFailure(t *testing.T) {
	rt := &fakeRuntime{pages: map[string]string{"http://example.com/page": titlePage}}
	cfg := testConfig(map[string]string{"selector": "li["})

	err := Run(context.Background(), cfg, rt, io.Discard, quietLogger())
	var rtErr *RuntimeError
	require.ErrorAs(t, err, &rtErr)
	assert.Equal(t, "extract", rtErr.Op)
	assert.False(t, IsNavigation(err))
	assert.Equal(t, 1, rt.session.closed)
}

func TestRun_OpenFailure(t *testing.T) {
	openErr := errors.New("no browser")
	rt := &fakeRuntime{openErr: openErr}

	err := Run(context.Background(), testConfig(nil), rt, io.Discard, quietLogger())
	var rtErr *RuntimeError
	require.ErrorAs(t, err, &rtErr)
	assert.Equal(t, "open", rtErr.Op)
	assert.ErrorIs(t, err, openErr)
}

func TestRun_CloseFailure(t *testing.T) {
	closeErr := errors.New("browser gone")
	rt := &fakeRuntime{pages: map[string]string{"http://example.com/page": titlePage}, closeErr: closeErr}

	err := Run(context.Background(), testConfig(nil), rt, io.Discard, quietLogger())
	assert.ErrorIs(t, err, closeErr)

	// A close failure never hides the original error.
	rt = &fakeRuntime{pages: map[string]string{}, closeErr: closeErr}
	err = Run(context.Background(), testConfig(nil), rt, io.Discard, quietLogger())
	assert.True(t, IsNavigation(err))
	assert.NotErrorIs(t, err, closeErr)
}

func TestRun_StaticRuntimeEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html><body><div id="title"> Hello </div></body></html>`)
	}))
	defer srv.Close()

	cfg := testConfig(map[string]string{
		"url":     srv.URL + "/page",
		"runtime": "static",
	})
	rt, err := browser.New(cfg.Runtime, browser.OptionsFromConfig(cfg), quietLogger())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, rt, &out, quietLogger()))
	assert.Equal(t, "Hello\n", out.String())

	cfg.URL = srv.URL + "/gone"
	err = Run(context.Background(), cfg, rt, &out, quietLogger())
	assert.True(t, IsNavigation(err))
}
