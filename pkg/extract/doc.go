// Package extract maps a (selector, query mode, property, limit) request
// onto the elements of a live document.
//
// The engine only needs the Document interface, so the same policy runs
// against a Playwright page, a static goquery document, or a test fake.
//
// Query modes:
//
//   - first: the first match, Empty if there is none or its text is blank
//   - last: the last match as a single value, an empty List if none match
//   - all: every match in document order, capped by a positive Limit
//
// Extracted values are always trimmed.
package extract
