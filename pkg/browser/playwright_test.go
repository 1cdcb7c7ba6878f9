package browser

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagegrab/pkg/admission"
	"github.com/entrhq/pagegrab/pkg/config"
	"github.com/entrhq/pagegrab/pkg/extract"
)

func TestPlaywrightRuntime_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	var mu sync.Mutex
	var served []string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		served = append(served, r.URL.Path)
		mu.Unlock()

		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, `<html><head>
<link rel="stylesheet" href="/site.css">
<script src="/app.js"></script>
</head><body>
<div id="title"> Hello </div>
<ul><li>a</li><li>b</li><li>c</li></ul>
</body></html>`)
		case "/app.js":
			w.Header().Set("Content-Type", "application/javascript")
			_, _ = io.WriteString(w, `document.addEventListener("DOMContentLoaded", function () {
  var li = document.createElement("li"); li.textContent = "d";
  document.querySelector("ul").appendChild(li);
});`)
		case "/site.css":
			w.Header().Set("Content-Type", "text/css")
			_, _ = io.WriteString(w, "body{}")
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rt := NewPlaywrightRuntime(Options{Headless: true, Timeout: 30 * time.Second}, testLogger())
	ctx := context.Background()

	session, err := rt.Open(ctx)
	require.NoError(t, err)
	defer session.Close()

	require.NoError(t, session.SetAdmission(func(url string) admission.Decision {
		return admission.Decide(url, "127.0.0.1")
	}))

	nav, err := session.Navigate(ctx, srv.URL+"/page")
	require.NoError(t, err)
	require.True(t, nav.OK, nav.Reason)

	result, err := session.Extract(ctx, extract.Request{Selector: "#title", Query: config.QueryFirst, Property: config.PropertyText})
	require.NoError(t, err)
	assert.Equal(t, extract.Single("Hello"), result)

	// The script ran, so the list has four items.
	result, err = session.Extract(ctx, extract.Request{Selector: "li", Query: config.QueryAll, Property: config.PropertyText})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, result.Values())

	mu.Lock()
	assert.Contains(t, served, "/app.js")
	assert.NotContains(t, served, "/site.css")
	mu.Unlock()

	nav, err = session.Navigate(ctx, srv.URL+"/missing")
	require.NoError(t, err)
	assert.False(t, nav.OK)
	assert.Equal(t, http.StatusNotFound, nav.Status)

	require.NoError(t, session.Close())
	_, err = session.Navigate(ctx, srv.URL+"/page")
	assert.ErrorIs(t, err, ErrSessionClosed)
}
