// Package browser provides the page runtimes a scrape runs against.
//
// A Runtime opens a Session, which owns exactly one page for the lifetime of
// a run. Two runtimes are available:
//
//   - PlaywrightRuntime: headless Chromium driven by Playwright. Scripts run,
//     every sub-resource request passes through the admission callback via a
//     page route, and extraction reads the live DOM through element handles.
//   - StaticRuntime: a plain HTTP fetch of the document, parsed with goquery.
//     No scripts run; admission applies to the document and its redirects.
//
// # Session Lifecycle
//
//  1. Open: acquire the session (driver, browser, context and page)
//  2. SetAdmission: optionally install the request filter
//  3. Navigate: load the target, reported as a NavigationResult
//  4. Extract: run an extract.Request against the loaded document
//  5. Close: release everything, safe on every exit path
//
// Playwright calls are not context aware. When the context passed to
// Navigate or Extract is cancelled the page is closed, which interrupts the
// pending call; the session is unusable afterwards and must be closed.
//
// # Example Usage
//
//	rt := browser.NewPlaywrightRuntime(browser.Options{Headless: true}, logger)
//	session, err := rt.Open(ctx)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	nav, err := session.Navigate(ctx, "https://example.com")
//	result, err := session.Extract(ctx, extract.Request{
//	    Selector: "h1",
//	    Query:    config.QueryFirst,
//	    Property: config.PropertyText,
//	})
package browser
