package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the catalog API has no book for an ID.
var ErrNotFound = errors.New("book not found")

// StatusError reports a non-success HTTP response from the catalog API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog api returned status %d", e.Code)
	}
	return fmt.Sprintf("catalog api returned status %d: %s", e.Code, e.Body)
}

func isStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
