package scrape

import (
	"fmt"
)

// NavigationError reports that the target page did not load.
type NavigationError struct {
	URL    string
	Status int
	Reason string
}

func (e *NavigationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("navigation to %s failed with status %d: %s", e.URL, e.Status, e.Reason)
	}
	return fmt.Sprintf("navigation to %s failed: %s", e.URL, e.Reason)
}

// RuntimeError wraps any other failure while a session is open.
type RuntimeError struct {
	// Op names the step that failed, e.g. "open", "extract".
	Op  string
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
