package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")

	// ErrLogicProgram is returned by proof graphs that cannot enumerate a
	// state's outlinks or reconstruct its bindings.
	ErrLogicProgram = errors.New("logic program error")

	// ErrNoOutlinks marks a dead end: a state whose outgoing weight sums to zero.
	ErrNoOutlinks = errors.New("no outlinks")

	// ErrNoSolution is returned when a proof carries no probability mass at all.
	ErrNoSolution = errors.New("no solution")
)
