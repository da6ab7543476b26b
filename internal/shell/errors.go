package shell

import "errors"

var (
	// ErrOutOfRange is returned when a workspace index falls outside the
	// output's configured workspace count.
	ErrOutOfRange = errors.New("out of range")

	// ErrInvalidState is returned when a ring operation would violate the
	// ring invariants (removing the last tile, operating during teardown).
	ErrInvalidState = errors.New("invalid state")

	// ErrAllocationFailure is returned when a tile, workspace or layer
	// binding cannot be created. Prior state is left unchanged.
	ErrAllocationFailure = errors.New("allocation failure")

	ErrUnknownOutput = errors.New("unknown output")
	ErrUnknownTile   = errors.New("unknown tile")
	ErrUnknownPanel  = errors.New("unknown panel")
	ErrUnknownView   = errors.New("unknown view")
)
