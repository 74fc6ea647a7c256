package review

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFetchFailed marks a failed queue or audit fetch. Recoverable: the
	// previous snapshot is retained and a retry is offered.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrDecisionRejected marks a server-declined action. The item stays in
	// the queue and the server's message is shown verbatim.
	ErrDecisionRejected = errors.New("decision rejected")
	// ErrCorrectionMissing blocks a Correct submission with an empty
	// corrected value. No network call is made.
	ErrCorrectionMissing = errors.New("corrected value required")
	// ErrAlreadySubmitting guards against a duplicate concurrent action on
	// the same item, typically a fast double key-press.
	ErrAlreadySubmitting = errors.New("action already submitting")
	// ErrCancelled is internal: a superseded or torn-down request. Never
	// surfaced to the operator.
	ErrCancelled = errors.New("cancelled")
	// ErrQueueEmpty reports an item-scoped operation on an empty queue.
	ErrQueueEmpty = errors.New("queue empty")
	// ErrSelectionEmpty reports a bulk action with nothing selected.
	ErrSelectionEmpty = errors.New("selection empty")
)

// Wrap builds an error that includes component context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrFetchFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "controller failure"
	}
	return strings.Join(parts, ": ")
}
