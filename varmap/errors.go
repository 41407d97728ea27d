package varmap

import (
	"fmt"
	"strings"
)

// DomainResolutionError reports a coordinate in use with no declared,
// finite, usable domain. Raised during map construction, before any
// boundary classification runs.
type DomainResolutionError struct {
	Coordinate string
	Reason     string
}

func (e *DomainResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve domain for coordinate %q: %s", e.Coordinate, e.Reason)
}

// SignatureInconsistencyError reports a function tag observed with
// incompatible coordinate signatures across equations. The builder never
// resolves the conflict by guessing; it names both signatures and the
// equation that exposed the second one.
type SignatureInconsistencyError struct {
	Tag      string
	Want     Signature
	Got      Signature
	Equation string
}

func (e *SignatureInconsistencyError) Error() string {
	return fmt.Sprintf("function %q used with signature (%s) but previously (%s) in %q",
		e.Tag, strings.Join(e.Got, ", "), strings.Join(e.Want, ", "), e.Equation)
}
