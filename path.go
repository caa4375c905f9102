package lpastar

import (
	"errors"
	"fmt"

	"github.com/pdrpinto/lpastar/internal"
)

// extractPath follows parent links from goal back to start.
func (p *Planner) extractPath() ([]Cell, error) {
	if p.goal.Cost == inf {
		return nil, ErrNoPathFound
	}
	parentOf := func(id int) int {
		v := p.grid.lookup(id)
		if v == nil {
			return -1
		}
		return v.PID
	}
	ids, err := internal.ReconstructPath(parentOf, p.goal.ID, p.start.ID, p.width*p.height)
	if err != nil {
		if errors.Is(err, internal.ErrCycle) || errors.Is(err, internal.ErrBrokenChain) {
			return nil, fmt.Errorf("%w: extracting path: %w", ErrInvariantViolation, err)
		}
		return nil, err
	}
	path := make([]Cell, 0, len(ids))
	for _, id := range ids {
		x, y := internal.Coords(id, p.width)
		path = append(path, Cell{X: x, Y: y})
	}
	return path, nil
}

// GetState returns the cell of the last planned path closest to current,
// or current itself when there is no path.
func (p *Planner) GetState(current Cell) Cell {
	index := closestIndex(p.path, current)
	if index < 0 {
		return current
	}
	return p.path[index]
}

// closestIndex returns the index of the path cell nearest to c, the first
// one on ties, or -1 for an empty path.
func closestIndex(path []Cell, c Cell) int {
	best, bestDistance := -1, 0
	for i, cell := range path {
		dx, dy := cell.X-c.X, cell.Y-c.Y
		if d := dx*dx + dy*dy; best < 0 || d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return best
}
