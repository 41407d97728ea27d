package boundary

import "fmt"

// UnclassifiableBoundaryError reports a raw condition that matches none of
// the classification rules. It carries the offending equation verbatim; the
// classifier never drops a condition silently.
type UnclassifiableBoundaryError struct {
	Equation string
	Reason   string
}

func (e *UnclassifiableBoundaryError) Error() string {
	return fmt.Sprintf("cannot classify boundary condition %q: %s", e.Equation, e.Reason)
}

// ValidationError reports rejection of an assembled boundary map by the
// backend-supplied validation strategy.
type ValidationError struct {
	Func    string
	Coord   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("boundary map validation failed for (%s, %s): %s", e.Func, e.Coord, e.Message)
	}
	return "boundary map validation failed: " + e.Message
}
