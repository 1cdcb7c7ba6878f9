package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagegrab/pkg/extract"
	"github.com/entrhq/pagegrab/pkg/logging"
)

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("session closed")

// PlaywrightRuntime loads pages in Chromium through Playwright.
type PlaywrightRuntime struct {
	opts   Options
	logger *logging.Logger

	// SkipInstall assumes the driver and browsers are already present.
	SkipInstall bool
}

// NewPlaywrightRuntime creates a Playwright-backed runtime.
func NewPlaywrightRuntime(opts Options, logger *logging.Logger) *PlaywrightRuntime {
	return &PlaywrightRuntime{
		opts:   opts.withDefaults(),
		logger: logger.Named("playwright"),
	}
}

// Open installs and starts the Playwright driver, then launches a browser
// with a single page. Every resource acquired before a failure is released.
func (r *PlaywrightRuntime) Open(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Driver output only reaches stderr in debug mode
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  r.logger.DebugEnabled(),
		Stdout:   r.logger.Writer(),
		Stderr:   r.logger.Writer(),
	}

	if !r.SkipInstall {
		r.logger.Debugf("installing playwright driver")
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &r.opts.Headless,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  r.opts.Viewport.Width,
			Height: r.opts.Viewport.Height,
		},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	timeout := r.opts.timeoutMillis()
	page.SetDefaultTimeout(timeout)
	page.SetDefaultNavigationTimeout(timeout)

	r.logger.Debugf("browser session started (headless=%t)", r.opts.Headless)

	return &playwrightSession{
		pw:      pw,
		browser: browser,
		context: bctx,
		page:    page,
		opts:    r.opts,
		logger:  r.logger,
	}, nil
}

type playwrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	opts    Options
	logger  *logging.Logger

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

func (s *playwrightSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SetAdmission routes every request of the page through decide.
func (s *playwrightSession) SetAdmission(decide AdmissionFunc) error {
	if s.isClosed() {
		return ErrSessionClosed
	}

	err := s.page.Route("**/*", func(route playwright.Route) {
		url := route.Request().URL()
		if decide(url).Aborted() {
			if err := route.Abort(); err != nil {
				s.logger.Debugf("abort %s: %v", url, err)
			}
			return
		}
		if err := route.Continue(); err != nil {
			s.logger.Debugf("continue %s: %v", url, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to install request route: %w", err)
	}
	return nil
}

// Navigate loads url and waits for the configured load state.
func (s *playwrightSession) Navigate(ctx context.Context, url string) (NavigationResult, error) {
	if s.isClosed() {
		return NavigationResult{}, ErrSessionClosed
	}

	waitUntil := playwright.WaitUntilState(s.opts.WaitUntil)
	timeout := s.opts.timeoutMillis()
	gotoOpts := playwright.PageGotoOptions{
		WaitUntil: &waitUntil,
		Timeout:   &timeout,
	}

	var resp playwright.Response
	err := s.withContext(ctx, func() error {
		var gotoErr error
		resp, gotoErr = s.page.Goto(url, gotoOpts)
		return gotoErr
	})

	switch {
	case ctx.Err() != nil:
		return NavigationResult{}, ctx.Err()
	case err != nil:
		return Failed(0, "%v", err), nil
	case resp == nil:
		// about:blank and same-document navigations carry no response
		return Failed(0, "no response for %s", url), nil
	case !resp.Ok():
		return Failed(resp.Status(), "%d %s", resp.Status(), resp.StatusText()), nil
	}
	return Succeeded(resp.Status()), nil
}

// Extract evaluates req against the live DOM through element handles.
func (s *playwrightSession) Extract(ctx context.Context, req extract.Request) (extract.Result, error) {
	if s.isClosed() {
		return extract.Result{}, ErrSessionClosed
	}

	doc := &pageDocument{page: s.page}
	defer doc.dispose()

	var result extract.Result
	err := s.withContext(ctx, func() error {
		var extractErr error
		result, extractErr = extract.Extract(doc, req)
		return extractErr
	})
	if err != nil {
		return extract.Result{}, err
	}
	return result, nil
}

// withContext runs fn and returns early when ctx is done. Playwright calls
// are not context aware, so a cancelled call is interrupted by closing the
// page, which fails every pending operation on it.
func (s *playwrightSession) withContext(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		_ = s.page.Close()
		<-done
		return ctx.Err()
	}
}

// Close releases the page, context, browser and driver in that order.
func (s *playwrightSession) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		// Page and context errors are expected after a cancelled call
		_ = s.page.Close()
		_ = s.context.Close()

		var errs []error
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		s.closeErr = errors.Join(errs...)
		s.logger.Debugf("browser session closed")
	})
	return s.closeErr
}

// pageDocument adapts a Playwright page to extract.Document. Handles are
// collected so they can be released once extraction is done.
type pageDocument struct {
	page    playwright.Page
	handles []playwright.ElementHandle
}

func (d *pageDocument) QueryAll(selector string) ([]extract.Element, error) {
	handles, err := d.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	d.handles = append(d.handles, handles...)

	elements := make([]extract.Element, len(handles))
	for i, h := range handles {
		elements[i] = handleElement{h}
	}
	return elements, nil
}

func (d *pageDocument) dispose() {
	for _, h := range d.handles {
		_ = h.Dispose()
	}
	d.handles = nil
}

type handleElement struct {
	handle playwright.ElementHandle
}

func (e handleElement) Text() (string, error) {
	return e.handle.TextContent()
}

func (e handleElement) HTML() (string, error) {
	return e.handle.InnerHTML()
}
