package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/pranjalweb/filmveer/internal/scraper/httpc"
)

// ParseError reports that expected markup was missing from an otherwise
// fetchable page. Parse errors are never retried.
type ParseError struct {
	URL   string
	Field string
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse %s: missing %s: %s", e.URL, e.Field, e.Msg)
	}
	return fmt.Sprintf("parse %s: %s", e.URL, e.Msg)
}

// IsTransient reports whether an error is a network/upstream condition worth
// retrying later, as opposed to a parse or validation failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var fe *httpc.FetchError
	if errors.As(err, &fe) {
		return true
	}
	var se *httpc.StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == 429
	}
	return errors.Is(err, context.DeadlineExceeded)
}
