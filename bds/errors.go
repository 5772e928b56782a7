package bds

import "errors"

var (
	ErrInvalidParams = errors.New("bds: invalid tree parameters")
	ErrNilHasher     = errors.New("bds: a tree hasher is required")
)

var (
	ErrNotSetup     = errors.New("bds: setup has not completed")
	ErrAlreadySetup = errors.New("bds: setup has already been performed")
	ErrSequence     = errors.New("bds: traverse called out of order")
	ErrExhausted    = errors.New("bds: all leaves of the tree have been traversed")
)

// ErrInconsistentState is returned when an internal invariant of the
// traversal is found broken. It indicates a bug or an upstream sequencing
// violation and is sticky: the state which reported it refuses further work.
var ErrInconsistentState = errors.New("bds: traversal state is inconsistent")
