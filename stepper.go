package lpastar

import (
	"context"
	"slices"
	"time"

	"github.com/pdrpinto/lpastar/internal"
)

// StepSnapshot exposes the per-iteration state of a Plan call.
type StepSnapshot struct {
	Current   Cell
	Open      []Cell
	Expanded  []Cell
	Done      bool
	Found     bool
	Path      []Cell
	Cost      float64
	StepIndex int
}

// Stepper drives one Plan call one expansion at a time. The planner must
// not be used for anything else until the stepper reports Done.
type Stepper struct {
	ctx       context.Context
	planner   *Planner
	startTime time.Time

	stepCount int
	done      bool
	result    Result
	err       error
}

// NewStepper prepares planner for a Plan call over costmap without running
// the repair loop. The costmap is copied.
func NewStepper(
	ctx context.Context,
	planner *Planner,
	costmap Costmap,
	start Cell,
	goal Cell,
) (*Stepper, error) {
	if err := planner.begin(slices.Clone(costmap), start, goal); err != nil {
		return nil, err
	}
	return &Stepper{ctx: ctx, planner: planner, startTime: time.Now()}, nil
}

// Step advances the repair loop by one expansion and returns a snapshot.
// Once the loop converges the snapshot is Done and carries the path.
func (s *Stepper) Step() (StepSnapshot, error) {
	p := s.planner
	if s.done {
		return s.snapshot(Cell{}), s.err
	}

	if p.canExpand() {
		s.stepCount++
		u := p.step()
		return s.snapshot(u.Cell()), nil
	}
	if p.revalidate() {
		return s.Step()
	}

	s.done = true
	s.result, s.err = p.finish(s.ctx, s.startTime)
	return s.snapshot(Cell{}), s.err
}

// Done reports whether the repair loop has converged.
func (s *Stepper) Done() bool { return s.done }

// Result returns the outcome once Done, as Plan would have.
func (s *Stepper) Result() (Result, error) { return s.result, s.err }

func (s *Stepper) snapshot(current Cell) StepSnapshot {
	p := s.planner
	snap := StepSnapshot{
		Current:   current,
		Open:      p.openCells(),
		Expanded:  slices.Clone(p.expand),
		Done:      s.done,
		StepIndex: s.stepCount,
	}
	if s.done {
		snap.Found = s.result.Found
		snap.Path = s.result.Path
		snap.Cost = s.result.Cost
	}
	return snap
}

// openCells lists the frontier in heap order.
func (p *Planner) openCells() []Cell {
	cells := make([]Cell, 0, p.frontier.len())
	for _, item := range p.frontier.queue {
		x, y := internal.Coords(item.NodeID, p.width)
		cells = append(cells, Cell{X: x, Y: y})
	}
	return cells
}
