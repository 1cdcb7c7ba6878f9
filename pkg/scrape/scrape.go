// Package scrape sequences a single run: open a session, install the
// admission policy, navigate, extract, format and write.
package scrape

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/entrhq/pagegrab/pkg/admission"
	"github.com/entrhq/pagegrab/pkg/browser"
	"github.com/entrhq/pagegrab/pkg/config"
	"github.com/entrhq/pagegrab/pkg/extract"
	"github.com/entrhq/pagegrab/pkg/logging"
	"github.com/entrhq/pagegrab/pkg/output"
)

// Scraper runs one configured extraction against a runtime.
type Scraper struct {
	cfg     config.Config
	runtime browser.Runtime
	logger  *logging.Logger
}

// New creates a scraper for a resolved configuration.
func New(cfg config.Config, rt browser.Runtime, logger *logging.Logger) *Scraper {
	return &Scraper{
		cfg:     cfg,
		runtime: rt,
		logger:  logger.Named("scrape"),
	}
}

// Run acquires a session, loads the page, extracts and writes the formatted
// result to out. The session is released on every path. A failed navigation
// is returned as *NavigationError, anything else after the session was opened
// as *RuntimeError.
func (s *Scraper) Run(ctx context.Context, out io.Writer) (err error) {
	start := time.Now()
	s.logger.Debugf("opening %s runtime", s.cfg.Runtime)

	session, openErr := s.runtime.Open(ctx)
	if openErr != nil {
		return &RuntimeError{Op: "open", Err: openErr}
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			s.logger.Warnf("failed to close session: %v", closeErr)
			if err == nil {
				err = &RuntimeError{Op: "close", Err: closeErr}
			}
		}
	}()

	if s.cfg.HasAllowDomain() {
		policy := admission.NewPolicy(s.cfg.AllowDomain, admission.LogObserver(s.logger.Debugf))
		if admErr := session.SetAdmission(policy.Decide); admErr != nil {
			return &RuntimeError{Op: "admission", Err: admErr}
		}
	}

	nav, navErr := session.Navigate(ctx, s.cfg.URL)
	if navErr != nil {
		return &RuntimeError{Op: "navigate", Err: navErr}
	}
	if !nav.OK {
		return &NavigationError{URL: s.cfg.URL, Status: nav.Status, Reason: nav.Reason}
	}
	s.logger.Debugf("navigated to %s (status %d)", s.cfg.URL, nav.Status)

	result, extErr := session.Extract(ctx, extract.RequestFromConfig(s.cfg))
	if extErr != nil {
		return &RuntimeError{Op: "extract", Err: extErr}
	}
	s.logger.Debugf("extracted %s result in %s", result.Kind(), time.Since(start).Round(time.Millisecond))

	lines, fmtErr := output.Format(result, s.cfg.Output, s.cfg.Format)
	if fmtErr != nil {
		return &RuntimeError{Op: "format", Err: fmtErr}
	}
	if writeErr := output.Write(out, lines); writeErr != nil {
		return &RuntimeError{Op: "write", Err: writeErr}
	}
	return nil
}

// Run is a convenience wrapper around New(...).Run.
func Run(ctx context.Context, cfg config.Config, rt browser.Runtime, out io.Writer, logger *logging.Logger) error {
	return New(cfg, rt, logger).Run(ctx, out)
}

// IsNavigation reports whether err is a failed navigation.
func IsNavigation(err error) bool {
	var navErr *NavigationError
	return errors.As(err, &navErr)
}
