package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/net/html/charset"

	"github.com/entrhq/pagegrab/pkg/extract"
	"github.com/entrhq/pagegrab/pkg/logging"
)

// errAdmissionDenied marks a document request rejected by the admission callback.
var errAdmissionDenied = errors.New("request aborted")

// StaticRuntime fetches the document over HTTP and queries the parsed markup.
// No scripts run and no sub-resources are loaded, so admission only ever
// sees the document request and its redirects.
type StaticRuntime struct {
	opts   Options
	client *http.Client
	logger *logging.Logger
}

// NewStaticRuntime creates a runtime using client, or a default client when nil.
func NewStaticRuntime(opts Options, client *http.Client, logger *logging.Logger) *StaticRuntime {
	if client == nil {
		client = &http.Client{}
	}
	return &StaticRuntime{
		opts:   opts.withDefaults(),
		client: client,
		logger: logger.Named("static"),
	}
}

// Open returns a session sharing the runtime's transport.
func (r *StaticRuntime) Open(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Copy the client so the redirect hook stays per session
	client := *r.client
	if r.opts.Timeout > 0 {
		client.Timeout = r.opts.Timeout
	}

	s := &staticSession{logger: r.logger}
	client.CheckRedirect = s.checkRedirect
	s.client = &client
	return s, nil
}

type staticSession struct {
	client *http.Client
	logger *logging.Logger

	mu     sync.Mutex
	decide AdmissionFunc
	doc    *extract.HTMLDocument
	closed bool
}

func (s *staticSession) admission() AdmissionFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decide
}

func (s *staticSession) SetAdmission(decide AdmissionFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.decide = decide
	return nil
}

func (s *staticSession) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if decide := s.admission(); decide != nil {
		if d := decide(req.URL.String()); d.Aborted() {
			return fmt.Errorf("%w: %s", errAdmissionDenied, d)
		}
	}
	return nil
}

func (s *staticSession) Navigate(ctx context.Context, url string) (NavigationResult, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return NavigationResult{}, ErrSessionClosed
	}

	if decide := s.admission(); decide != nil {
		if d := decide(url); d.Aborted() {
			return Failed(0, "%v: %s", errAdmissionDenied, d), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Failed(0, "invalid URL: %v", err), nil
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return NavigationResult{}, ctx.Err()
		}
		return Failed(0, "%v", err), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failed(resp.StatusCode, "%s", resp.Status), nil
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return Failed(resp.StatusCode, "unsupported charset: %v", err), nil
	}

	doc, err := extract.ParseHTML(body)
	if err != nil {
		if ctx.Err() != nil {
			return NavigationResult{}, ctx.Err()
		}
		return Failed(resp.StatusCode, "%v", err), nil
	}
	s.logger.Debugf("loaded %s (%d) title=%q", url, resp.StatusCode, doc.Title())

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return Succeeded(resp.StatusCode), nil
}

func (s *staticSession) Extract(ctx context.Context, req extract.Request) (extract.Result, error) {
	if err := ctx.Err(); err != nil {
		return extract.Result{}, err
	}

	s.mu.Lock()
	doc, closed := s.doc, s.closed
	s.mu.Unlock()

	if closed {
		return extract.Result{}, ErrSessionClosed
	}
	if doc == nil {
		return extract.Result{}, errors.New("no document loaded")
	}
	return extract.Extract(doc, req)
}

func (s *staticSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.doc = nil
	return nil
}
