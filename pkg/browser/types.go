package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/pagegrab/pkg/admission"
	"github.com/entrhq/pagegrab/pkg/config"
	"github.com/entrhq/pagegrab/pkg/extract"
	"github.com/entrhq/pagegrab/pkg/logging"
)

// AdmissionFunc decides whether one outbound request may be fetched.
// It is called from the runtime's own goroutines and must not block.
type AdmissionFunc func(url string) admission.Decision

// Runtime opens page sessions.
type Runtime interface {
	// Open acquires a fresh session. The caller must Close it.
	Open(ctx context.Context) (Session, error)
}

// Session is one page loaded by a Runtime.
type Session interface {
	// SetAdmission installs the request-admission callback. It applies to
	// every request made by later navigations, the document included.
	SetAdmission(decide AdmissionFunc) error

	// Navigate loads url. A page that failed to load is reported in the
	// result; the error is reserved for runtime failures and cancellation.
	Navigate(ctx context.Context, url string) (NavigationResult, error)

	// Extract runs the extraction engine against the loaded document.
	Extract(ctx context.Context, req extract.Request) (extract.Result, error)

	// Close releases every resource of the session. Safe to call twice.
	Close() error
}

// NavigationResult reports the outcome of loading the target page.
type NavigationResult struct {
	OK bool

	// Status is the HTTP status of the document response, 0 if none arrived.
	Status int

	// Reason explains a failed navigation.
	Reason string
}

// Succeeded builds the result of a navigation with the given status.
func Succeeded(status int) NavigationResult {
	return NavigationResult{OK: true, Status: status}
}

// Failed builds the result of a failed navigation.
func Failed(status int, format string, v ...interface{}) NavigationResult {
	return NavigationResult{Status: status, Reason: fmt.Sprintf(format, v...)}
}

// Options configures both runtimes.
type Options struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// WaitUntil specifies when to consider navigation successful
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout bounds navigation and evaluation. Zero means no timeout.
	Timeout time.Duration

	// Viewport sets the initial viewport size
	Viewport *Viewport
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Default values for various operations
const (
	DefaultWaitUntil      = "load"
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// OptionsFromConfig maps the resolved configuration onto runtime options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Headless:  cfg.Headless,
		WaitUntil: cfg.WaitUntil,
		Timeout:   cfg.Timeout,
	}
}

func (o Options) withDefaults() Options {
	if o.WaitUntil == "" {
		o.WaitUntil = DefaultWaitUntil
	}
	if o.Viewport == nil {
		o.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	return o
}

// timeoutMillis converts the timeout to Playwright's milliseconds, where
// zero disables the timeout.
func (o Options) timeoutMillis() float64 {
	return float64(o.Timeout / time.Millisecond)
}

// New returns the runtime of the given kind.
func New(kind config.RuntimeKind, opts Options, logger *logging.Logger) (Runtime, error) {
	switch kind {
	case config.RuntimeBrowser, "":
		return NewPlaywrightRuntime(opts, logger), nil
	case config.RuntimeStatic:
		return NewStaticRuntime(opts, nil, logger), nil
	default:
		return nil, fmt.Errorf("unsupported runtime: %s", kind)
	}
}
