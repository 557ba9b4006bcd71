package canopy

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned by setters given a NaN or infinite value,
	// or anchors whose minimum exceeds their maximum. The call has no effect.
	ErrInvalidArgument = errors.New("canopy: invalid argument")

	// ErrCycle is returned when reparenting would make a node its own ancestor.
	// The tree is left unchanged.
	ErrCycle = errors.New("canopy: parenting would create a cycle")
)

func invalidArg(op string, v any) error {
	return fmt.Errorf("%w: %s(%v)", ErrInvalidArgument, op, v)
}
