package lpastar

import "errors"

// Sentinel errors for planner operations.
var (
	// ErrOutOfBounds is returned when a coordinate lies outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrNoPathFound is returned together with Result.Found == false when
	// the goal is unreachable on the current costmap.
	ErrNoPathFound = errors.New("no path found")

	// ErrInvariantViolation signals a planner bug: a cycle in the parent
	// links or frontier membership out of sync with node state. The
	// session refuses further Plan calls until Reset.
	ErrInvariantViolation = errors.New("planner invariant violated")

	// ErrEmptyMap is returned for a grid with zero width or height.
	ErrEmptyMap = errors.New("grid has zero size")

	// ErrCostmapSize is returned when the costmap length is not width*height.
	ErrCostmapSize = errors.New("costmap size does not match grid")

	// ErrStartIsGoal is returned when start and goal are the same cell.
	ErrStartIsGoal = errors.New("start and goal are the same cell")

	// ErrInvalidConfig is returned by NewPlanner for unusable options.
	ErrInvalidConfig = errors.New("invalid planner configuration")
)
