// Package errs wraps cockroachdb/errors so call sites stay short: Wrap adds
// context, Mark attaches a sentinel without losing the cause.
package errs

import (
	"fmt"
	"strings"

	cockroach "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cockroach.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cockroach.Wrap(err, msg)
}

// Mark makes errors.Is(err, markErr) true while keeping err as the cause.
// A nil err collapses to the mark itself.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cockroach.Mark(err, markErr)
}

// StackLines renders the error with its stack trace and returns at most
// maxLines lines, for structured log output.
func StackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	lines := strings.Split(fmt.Sprintf("%+v", err), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
