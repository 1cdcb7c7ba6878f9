package config

import "time"

// QueryMode selects how many matching elements are extracted.
type QueryMode string

const (
	// QueryFirst extracts the first matching element
	QueryFirst QueryMode = "first"
	// QueryLast extracts the last matching element
	QueryLast QueryMode = "last"
	// QueryAll extracts every matching element, optionally capped by limit
	QueryAll QueryMode = "all"
)

// PropertyType selects which property of a matched element is extracted.
type PropertyType string

const (
	// PropertyText extracts the trimmed text content
	PropertyText PropertyType = "text"
	// PropertyHTML extracts the trimmed inner markup
	PropertyHTML PropertyType = "html"
)

// OutputMode selects the serialization of the extracted value.
type OutputMode string

const (
	OutputPlain OutputMode = "plain"
	OutputJSON  OutputMode = "json"
	OutputYAML  OutputMode = "yaml"
)

// FormatStyle controls JSON layout.
type FormatStyle string

const (
	FormatPlain  FormatStyle = "plain"
	FormatIndent FormatStyle = "indent"
)

// RuntimeKind selects the page runtime used to load the document.
type RuntimeKind string

const (
	// RuntimeBrowser loads the page in a headless Chromium through Playwright
	RuntimeBrowser RuntimeKind = "browser"
	// RuntimeStatic fetches the document over HTTP without executing scripts
	RuntimeStatic RuntimeKind = "static"
)

// Config is the resolved, typed configuration of a single run.
// It is built once by Resolve and passed by value afterwards.
type Config struct {
	URL      string
	Selector string
	Query    QueryMode
	Type     PropertyType

	// AllowDomain is empty when no resource filtering was requested.
	AllowDomain string

	Output OutputMode
	Format FormatStyle

	// Limit is zero when absent. Only meaningful for QueryAll.
	Limit int

	Debug bool

	// Timeout bounds navigation and evaluation. Zero waits forever.
	Timeout time.Duration

	Runtime   RuntimeKind
	WaitUntil string
	Headless  bool
}

// HasAllowDomain reports whether sub-resource admission should be enforced.
func (c Config) HasAllowDomain() bool {
	return c.AllowDomain != ""
}

// HasLimit reports whether a positive limit was supplied.
func (c Config) HasLimit() bool {
	return c.Limit > 0
}
