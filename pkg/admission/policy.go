package admission

import (
	"net/url"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// Decision is the allow/abort verdict for one sub-resource fetch.
type Decision string

const (
	Allow               Decision = "allow"
	AbortDomainMismatch Decision = "abort_domain"
	AbortMediaType      Decision = "abort_media"
)

// Aborted reports whether the request must not be fetched.
func (d Decision) Aborted() bool {
	return d != Allow
}

// MediaExtensions are the file extensions never fetched for an allowed domain.
var MediaExtensions = []string{"gif", "tif", "tiff", "png", "jpeg", "jpg", "css", "mp3", "mp4"}

// documentExtensions are fetched silently; anything else is reported to the observer.
var documentExtensions = []string{"html", "htm", "js"}

var (
	mediaPattern    = mustCompileExtensions(MediaExtensions)
	documentPattern = mustCompileExtensions(documentExtensions)
)

func mustCompileExtensions(exts []string) glob.Glob {
	return glob.MustCompile("*.{" + strings.Join(exts, ",") + "}")
}

// Request is one outbound sub-resource fetch as seen by the policy.
type Request struct {
	URL string

	// Domain is the host without port, empty when the URL has no host.
	Domain string

	// FileName is the last non-empty path segment, empty when there is none.
	FileName string
}

// ParseRequest derives the domain and file name of rawURL.
func ParseRequest(rawURL string) Request {
	req := Request{URL: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil {
		return req
	}
	req.Domain = u.Hostname()

	p := strings.TrimRight(u.Path, "/")
	if p != "" {
		req.FileName = path.Base(p)
	}
	return req
}

// IsMedia reports whether the file name has a blacklisted extension.
func (r Request) IsMedia() bool {
	return r.FileName != "" && mediaPattern.Match(strings.ToLower(r.FileName))
}

// IsDocument reports whether the file name looks like markup or script.
func (r Request) IsDocument() bool {
	return documentPattern.Match(strings.ToLower(r.FileName))
}

// Decide returns the admission decision for rawURL under allowDomain.
//
// A URL without a host (data:, blob:, about:blank, or unparsable) is allowed
// since there is no domain to compare. The domain rule is checked before the
// media rule, and a URL with no file name is never treated as media.
func Decide(rawURL, allowDomain string) Decision {
	return decide(ParseRequest(rawURL), allowDomain)
}

func decide(req Request, allowDomain string) Decision {
	if req.Domain == "" {
		return Allow
	}
	if !strings.HasSuffix(req.Domain, allowDomain) {
		return AbortDomainMismatch
	}
	if req.IsMedia() {
		return AbortMediaType
	}
	return Allow
}

// Observer receives every decision made by a Policy. It must not block.
type Observer func(req Request, decision Decision)

// Policy binds the configured allowed domain to Decide.
type Policy struct {
	allowDomain string
	observer    Observer
}

// NewPolicy creates a policy admitting only resources under allowDomain.
// observer may be nil.
func NewPolicy(allowDomain string, observer Observer) *Policy {
	return &Policy{
		allowDomain: allowDomain,
		observer:    observer,
	}
}

// AllowDomain returns the configured domain suffix.
func (p *Policy) AllowDomain() string {
	return p.allowDomain
}

// Decide evaluates one request and notifies the observer.
func (p *Policy) Decide(rawURL string) Decision {
	req := ParseRequest(rawURL)
	decision := decide(req, p.allowDomain)
	if p.observer != nil {
		p.observer(req, decision)
	}
	return decision
}

// LogObserver reports aborted requests and allowed non-document files
// through logf.
func LogObserver(logf func(format string, v ...interface{})) Observer {
	return func(req Request, decision Decision) {
		switch decision {
		case AbortDomainMismatch:
			logf("abort domain %s", req.Domain)
		case AbortMediaType:
			logf("abort media %s", req.FileName)
		case Allow:
			if req.FileName != "" && !req.IsDocument() {
				logf("file %s %s", req.Domain, req.FileName)
			}
		}
	}
}
