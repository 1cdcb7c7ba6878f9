package config

// ValueType is the type an option's external value is coerced to.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeInteger ValueType = "integer"
	TypeBoolean ValueType = "boolean"
	TypeEnum    ValueType = "enum"
)

// Option keys. They double as the environment variable names.
const (
	KeyURL         = "url"
	KeySelector    = "selector"
	KeyQuery       = "query"
	KeyType        = "type"
	KeyAllowDomain = "allowDomain"
	KeyOutput      = "output"
	KeyFormat      = "format"
	KeyLimit       = "limit"
	KeyDebug       = "debug"
	KeyTimeout     = "timeout"
	KeyRuntime     = "runtime"
	KeyWaitUntil   = "waitUntil"
	KeyHeadless    = "headless"
)

// OptionSpec describes one configuration key.
type OptionSpec struct {
	Key         string
	Description string
	Example     string

	// Default is used when no external value is supplied. Empty means none.
	Default string

	// Required keys without a default must be supplied externally.
	Required bool

	Type    ValueType
	Allowed []string
}

// HasDefault reports whether the option carries a default value.
func (o OptionSpec) HasDefault() bool {
	return o.Default != ""
}

// Schema lists every option in resolution order.
var Schema = []OptionSpec{
	{
		Key:         KeyURL,
		Description: "URL to scrape",
		Example:     "http://stackoverflow.com",
		Required:    true,
		Type:        TypeString,
	},
	{
		Key:         KeySelector,
		Description: "element query selector",
		Example:     "#hlogo",
		Required:    true,
		Type:        TypeString,
	},
	{
		Key:         KeyQuery,
		Description: "which matching elements to extract",
		Example:     "all",
		Default:     string(QueryFirst),
		Type:        TypeEnum,
		Allowed:     []string{string(QueryFirst), string(QueryLast), string(QueryAll)},
	},
	{
		Key:         KeyType,
		Description: "extracted element property",
		Example:     "html",
		Default:     string(PropertyText),
		Type:        TypeEnum,
		Allowed:     []string{string(PropertyText), string(PropertyHTML)},
	},
	{
		Key:         KeyAllowDomain,
		Description: "only allowed resource domain",
		Example:     "stackoverflow.com",
		Type:        TypeString,
	},
	{
		Key:         KeyOutput,
		Description: "output serialization",
		Example:     "json",
		Default:     string(OutputPlain),
		Type:        TypeEnum,
		Allowed:     []string{string(OutputPlain), string(OutputJSON), string(OutputYAML)},
	},
	{
		Key:         KeyFormat,
		Description: "JSON layout",
		Example:     "indent",
		Default:     string(FormatPlain),
		Type:        TypeEnum,
		Allowed:     []string{string(FormatPlain), string(FormatIndent)},
	},
	{
		Key:         KeyLimit,
		Description: "maximum number of elements for query=all",
		Example:     "10",
		Type:        TypeInteger,
	},
	{
		Key:         KeyDebug,
		Description: "verbose runtime logging",
		Example:     "true",
		Default:     "false",
		Type:        TypeBoolean,
	},
	{
		Key:         KeyTimeout,
		Description: "navigation and evaluation timeout in milliseconds, 0 disables",
		Example:     "60000",
		Default:     "30000",
		Type:        TypeInteger,
	},
	{
		Key:         KeyRuntime,
		Description: "page runtime",
		Example:     "static",
		Default:     string(RuntimeBrowser),
		Type:        TypeEnum,
		Allowed:     []string{string(RuntimeBrowser), string(RuntimeStatic)},
	},
	{
		Key:         KeyWaitUntil,
		Description: "navigation completion event",
		Example:     "networkidle",
		Default:     "load",
		Type:        TypeEnum,
		Allowed:     []string{"load", "domcontentloaded", "networkidle"},
	},
	{
		Key:         KeyHeadless,
		Description: "run the browser without a window",
		Example:     "false",
		Default:     "true",
		Type:        TypeBoolean,
	},
}

// Lookup returns the spec for key.
func Lookup(key string) (OptionSpec, bool) {
	for _, spec := range Schema {
		if spec.Key == key {
			return spec, true
		}
	}
	return OptionSpec{}, false
}
