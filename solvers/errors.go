package solvers

import "github.com/pkg/errors"

// ErrNoStartTree is returned by Update/Solve when no start has been
// registered via AddStart/AddStartTree.
var ErrNoStartTree = errors.New("solver has no start tree")
