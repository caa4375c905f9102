package lpastar

import (
	"errors"
	"fmt"
)

// CheckInvariants verifies the local-consistency invariant: every created
// vertex is either consistent or in the frontier, never both, and every
// frontier entry points back at its vertex.
func (p *Planner) CheckInvariants() error {
	var violations []error
	p.grid.each(func(v *vertex) {
		switch {
		case v.consistent() && v.handle != nil:
			violations = append(violations, fmt.Errorf("consistent vertex (%d, %d) in frontier", v.X, v.Y))
		case !v.consistent() && v.handle == nil:
			violations = append(violations, fmt.Errorf("inconsistent vertex (%d, %d) missing from frontier", v.X, v.Y))
		}
	})
	for i, item := range p.frontier.queue {
		v := p.grid.lookup(item.NodeID)
		if v == nil || v.handle != item || item.IndexInQueue != i {
			violations = append(violations, fmt.Errorf("stale frontier entry for id %d", item.NodeID))
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvariantViolation, errors.Join(violations...))
}

func isNoPath(err error) bool { return errors.Is(err, ErrNoPathFound) }
