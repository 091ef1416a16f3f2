package typesystem

import "fmt"

// UnknownNameError is returned by Registry.Lookup when asked for a
// name that was never registered (spec §7, kind 1). It is a
// programming error: callers propagate it rather than treat it as
// recoverable data.
type UnknownNameError struct {
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("typesystem: unknown name %q", e.Name)
}

// ArityMismatchError is returned by Substitute/Apply when the argument
// count doesn't match a Scheme's arity (spec §7, kind 2). Also a
// programming error.
type ArityMismatchError struct {
	Name     string // scheme or datatype name, if known; "" otherwise
	Expected int
	Got      int
}

func (e *ArityMismatchError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("typesystem: %s expects %d argument(s), got %d", e.Name, e.Expected, e.Got)
	}
	return fmt.Sprintf("typesystem: expected %d argument(s), got %d", e.Expected, e.Got)
}

// InternalInvariantError marks a detected violation of one of §3's
// invariants — a bug in the caller or the core itself. Per spec §7 it
// is fatal: any Registry that produces one should be discarded, not
// retried against.
type InternalInvariantError struct {
	Detail string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("typesystem: internal invariant violated: %s", e.Detail)
}
