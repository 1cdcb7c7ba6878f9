// Package admission decides which sub-resources a page may fetch.
//
// A request is admitted only when its host ends with the configured domain
// and its file name does not carry a media or stylesheet extension:
//
//	Decide("http://cdn.other.com/x/logo.png", "example.com") // AbortDomainMismatch
//	Decide("http://example.com/x/logo.PNG", "example.com")   // AbortMediaType
//	Decide("http://example.com/x/app.js", "example.com")     // Allow
//
// Decisions are pure; a Policy only adds an optional Observer for logging.
package admission
