package cli

import (
	"errors"
	"fmt"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// usageError marks bad input that never reached the record store.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func errInvalidID(s string) error {
	return fmt.Errorf("invalid item id: %q", s)
}

// ExitCode maps a command error to the process exit status:
// 0 ok, 2 usage, 3 not found, 1 anything else.
func ExitCode(err error) int {
	var nf notFoundError
	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		return 2
	case errors.As(err, &nf):
		return 3
	default:
		return 1
	}
}
