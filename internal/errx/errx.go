// Package errx provides small helpers for wrapping sentinel errors.
package errx

import "fmt"

// Wrap attaches err as the cause of sentinel, keeping both matchable
// with errors.Is.
func Wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}

// With appends formatted detail to sentinel. The format string may use
// %w for a cause error.
func With(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w"+format, append([]any{sentinel}, args...)...)
}
