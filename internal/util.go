package internal

import "errors"

var (
	// ErrCycle is returned when the parent walk does not reach the start
	// within the step limit.
	ErrCycle = errors.New("parent chain exceeds step limit")

	// ErrBrokenChain is returned when a node without a parent is reached
	// before the start.
	ErrBrokenChain = errors.New("parent chain ends before start")
)

// ReconstructPath rebuilds the id sequence from start to goal by following
// parentOf backwards from goal. parentOf returns a negative id for nodes
// without a parent. The walk is aborted after limit steps.
func ReconstructPath(
	parentOf func(id int) int,
	goal int,
	start int,
	limit int,
) ([]int, error) {
	path := []int{goal}
	current := goal
	for current != start {
		if len(path) > limit {
			return nil, ErrCycle
		}
		previous := parentOf(current)
		if previous < 0 {
			return nil, ErrBrokenChain
		}
		path = append(path, previous)
		current = previous
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}
