package extract

import (
	"fmt"
	"strings"

	"github.com/entrhq/pagegrab/pkg/config"
)

// Request describes what to extract from a document. It is plain data so
// that any runtime can interpret it on its side of the page boundary.
type Request struct {
	Selector string              `json:"selector"`
	Query    config.QueryMode    `json:"query"`
	Property config.PropertyType `json:"type"`

	// Limit caps QueryAll results. Zero or negative means no limit.
	Limit int `json:"limit,omitempty"`
}

// RequestFromConfig builds the extraction request of a resolved configuration.
func RequestFromConfig(cfg config.Config) Request {
	return Request{
		Selector: cfg.Selector,
		Query:    cfg.Query,
		Property: cfg.Type,
		Limit:    cfg.Limit,
	}
}

// Element is one matched node of a live document.
type Element interface {
	// Text returns the text content of the element and its descendants.
	Text() (string, error)
	// HTML returns the inner markup of the element.
	HTML() (string, error)
}

// Document is the part of a live page the engine needs.
type Document interface {
	// QueryAll returns every element matching selector in document order.
	QueryAll(selector string) ([]Element, error)
}

// Extract applies req to doc.
//
// A document with no matches is not an error: first yields Empty, last and
// all yield an empty List. Errors come only from the document itself, for
// example an invalid selector.
func Extract(doc Document, req Request) (Result, error) {
	elements, err := doc.QueryAll(req.Selector)
	if err != nil {
		return Result{}, fmt.Errorf("query %q: %w", req.Selector, err)
	}

	switch req.Query {
	case config.QueryFirst:
		return first(elements, req.Property)
	case config.QueryLast:
		return last(elements, req.Property)
	case config.QueryAll:
		return all(elements, req.Property, req.Limit)
	default:
		return Result{}, fmt.Errorf("unsupported query mode: %s", req.Query)
	}
}

func first(elements []Element, prop config.PropertyType) (Result, error) {
	if len(elements) == 0 {
		return Empty(), nil
	}
	value, err := property(elements[0], prop)
	if err != nil {
		return Result{}, err
	}
	// Only text is discarded when blank; an empty inner HTML is still a value.
	if prop == config.PropertyText && value == "" {
		return Empty(), nil
	}
	return Single(value), nil
}

func last(elements []Element, prop config.PropertyType) (Result, error) {
	if len(elements) == 0 {
		return List(nil), nil
	}
	values, err := properties(elements, prop)
	if err != nil {
		return Result{}, err
	}
	return Single(values[len(values)-1]), nil
}

func all(elements []Element, prop config.PropertyType, limit int) (Result, error) {
	count := len(elements)
	if limit > 0 && limit < count {
		count = limit
	}
	values, err := properties(elements[:count], prop)
	if err != nil {
		return Result{}, err
	}
	return List(values), nil
}

func properties(elements []Element, prop config.PropertyType) ([]string, error) {
	values := make([]string, 0, len(elements))
	for i, el := range elements {
		value, err := property(el, prop)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		values = append(values, value)
	}
	return values, nil
}

func property(el Element, prop config.PropertyType) (string, error) {
	var (
		value string
		err   error
	)
	switch prop {
	case config.PropertyText:
		value, err = el.Text()
	case config.PropertyHTML:
		value, err = el.HTML()
	default:
		return "", fmt.Errorf("unsupported property type: %s", prop)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", prop, err)
	}
	return strings.TrimSpace(value), nil
}
