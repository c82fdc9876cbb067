package denylist

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrTooLarge         = errors.New("denylist body exceeds size limit")
	ErrMalformed        = errors.New("malformed denylist")
)

// FetchError reports a failed attempt to download the denylist. It is never
// fatal: the cache keeps serving the previous snapshot.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch denylist %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch denylist %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
