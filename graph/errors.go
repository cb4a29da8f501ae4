package graph

import "github.com/pkg/errors"

// Sentinel errors for the recoverable error kinds this package
// returns: invalid arguments, points that do not lie on a path, and
// features that are intentionally unimplemented. ErrFatalInvariant
// never propagates as a returned error; it is wrapped into a panic by
// fatalInvariant below, so a recovering caller can still identify it
// with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotOnPath       = errors.New("configuration does not lie on the path")
	ErrNotImplemented  = errors.New("not implemented")
	ErrFatalInvariant  = errors.New("structural invariant violated")
)

// fatalInvariant reports a structural invariant violation. These are
// programmer errors (detaching an already-destroyed endpoint, removing
// the tree root, adjacency desync) that terminate rather than
// propagate as a returned error.
func fatalInvariant(format string, args ...interface{}) {
	panic(errors.Wrap(ErrFatalInvariant, errors.Errorf(format, args...).Error()))
}
