package store

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks engine-level faults in the primary store: the
// database cannot be opened, or an operation against it failed. The caller
// treats it as a signal to fall back, never as fatal.
var ErrUnavailable = errors.New("primary store unavailable")

// ErrNotFound is the normal "no such session" result, not a fault.
var ErrNotFound = errors.New("session not found")

// ErrExhausted marks a fallback-tier write that failed even after
// truncation. Fatal for that write only; in-memory state is kept.
var ErrExhausted = errors.New("persistence exhausted")

// QuotaError is returned by a Slot whose write would exceed its size limit.
// The capacity policy reacts by truncating the corpus and retrying.
type QuotaError struct {
	Size  int
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("slot quota exceeded: %d bytes > %d limit", e.Size, e.Limit)
}

// IsQuota reports whether err is a quota-class slot failure.
func IsQuota(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

// unavailable wraps an engine fault so errors.Is(err, ErrUnavailable) holds.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
