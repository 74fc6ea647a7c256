package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Error is a non-2xx API response. Message carries the server's
// human-readable explanation and is shown to the operator verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
}

// Retryable reports whether the failure is worth retrying as-is.
func (e *Error) Retryable() bool {
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

// unwrapURLError strips the url.Error envelope from aborted requests so the
// controller recognizes cancellation; other transport errors keep their
// context.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && (errors.Is(urlErr.Err, context.Canceled) || errors.Is(urlErr.Err, context.DeadlineExceeded)) {
		return urlErr.Err
	}
	return err
}
