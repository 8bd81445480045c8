package aicore

import "errors"

// ErrInvalidArgument is wrapped into the dynamic errors returned when a
// caller violates a package's argument contract (a required callback left
// nil, an index out of range, a negative depth or count) in a way that is
// feasible to report to the caller rather than a programmer bug serious
// enough to panic on.
var ErrInvalidArgument = errors.New("aicore: invalid argument")
