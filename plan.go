package lpastar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/pdrpinto/lpastar/internal"
)

// Plan computes a path from start to goal over costmap.
//
// The first call, or any call with a new goal, searches from scratch. Later
// calls compare costmap against the previous one inside a WindowSize square
// around start (the robot's current cell) and along the previous path, and
// repair only the vertices touched by the differences. When start drifts
// from the session's original start the path is re-anchored at the
// closest previously planned cell; if start is more than half a window away
// from the path the session searches again from start.
//
// An unreachable goal yields Result.Found == false together with
// ErrNoPathFound; Result.Expand is populated either way. costmap is only
// read during the call; the planner keeps its own copy for the next one.
func (p *Planner) Plan(ctx context.Context, costmap Costmap, start, goal Cell) (Result, error) {
	startTime := time.Now()
	ctx, span := startPlanSpan(ctx, p.sessionID, start, goal)
	defer span.End()

	if err := p.begin(costmap, start, goal); err != nil {
		setPlanSpanResult(span, Result{}, false, err)
		return Result{}, err
	}
	for {
		p.computeShortestPath()
		if !p.revalidate() {
			break
		}
	}
	result, err := p.finish(ctx, startTime)
	setPlanSpanResult(span, result, p.repairing, err)
	return result, err
}

// begin validates the request and prepares the frontier: a fresh search
// or the local updates of an incremental one. Session state is untouched
// when validation fails.
func (p *Planner) begin(costmap Costmap, robot, goal Cell) error {
	if p.poisoned != nil {
		return fmt.Errorf("session requires reset: %w", p.poisoned)
	}
	if len(costmap) != p.width*p.height {
		return fmt.Errorf("%w: got %d cells, want %d", ErrCostmapSize, len(costmap), p.width*p.height)
	}
	for _, c := range []Cell{robot, goal} {
		if !internal.InBounds(c.X, c.Y, p.width, p.height) {
			return fmt.Errorf("%w: (%d, %d) on %dx%d grid", ErrOutOfBounds, c.X, c.Y, p.width, p.height)
		}
	}
	if robot == goal {
		return fmt.Errorf("%w: (%d, %d)", ErrStartIsGoal, goal.X, goal.Y)
	}

	p.costmap = costmap
	p.robot = robot
	p.expand = make([]Cell, 0)
	p.refreshed = make(map[int]struct{})

	if !p.canRepair(robot, goal) {
		p.initMap(robot, goal)
		return nil
	}
	p.repairing = true
	p.applyWindowChanges(robot)
	return nil
}

// canRepair reports whether the stored session can be repaired for this
// request instead of searched again.
func (p *Planner) canRepair(robot, goal Cell) bool {
	if p.lastCostmap == nil || p.goal == nil || p.goal.Cell() != goal {
		return false
	}
	if robot == p.start.Cell() {
		return true
	}
	index := closestIndex(p.path, robot)
	if index < 0 {
		return false
	}
	nearest := p.path[index]
	return max(abs(nearest.X-robot.X), abs(nearest.Y-robot.Y)) <= p.options.WindowSize/2
}

// initMap resets the session and seeds the frontier with the start vertex.
func (p *Planner) initMap(start, goal Cell) {
	if p.goal != nil {
		p.logger.Info("planner session reset",
			slog.Int("start_x", start.X), slog.Int("start_y", start.Y),
			slog.Int("goal_x", goal.X), slog.Int("goal_y", goal.Y),
		)
	}
	p.Reset()
	p.start, _ = p.grid.getOrCreate(start.X, start.Y)
	p.goal, _ = p.grid.getOrCreate(goal.X, goal.Y)
	p.start.rhs = 0
	p.start.key = p.calculateKey(p.start)
	p.frontier.insertOrUpdate(p.start, p.start.key)
}

// applyWindowChanges refreshes every cell that changed since the previous
// call inside the window around robot and along the previous path.
func (p *Planner) applyWindowChanges(robot Cell) {
	half := p.options.WindowSize / 2
	x0 := internal.Clamp(robot.X-half, 0, p.width-1)
	x1 := internal.Clamp(robot.X+half, 0, p.width-1)
	y0 := internal.Clamp(robot.Y-half, 0, p.height-1)
	y1 := internal.Clamp(robot.Y+half, 0, p.height-1)

	changed := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			id := internal.Index(x, y, p.width)
			if p.changed(id) && p.refresh(id) {
				changed++
			}
		}
	}
	for _, c := range p.path {
		id := internal.Index(c.X, c.Y, p.width)
		if p.changed(id) && p.refresh(id) {
			changed++
		}
	}
	p.logger.Debug("costmap changes applied",
		slog.Int("changed_cells", changed),
		slog.Int("frontier", p.frontier.len()),
	)
}

// changed reports whether the cell's cost changed in a way that alters edge
// costs: a lethal flip, or any change when costs are inflated.
func (p *Planner) changed(id int) bool {
	before, after := p.lastCostmap[id], p.costmap[id]
	if before == after {
		return false
	}
	if p.options.CostFactor > 0 {
		return true
	}
	return (before >= p.options.LethalCost) != (after >= p.options.LethalCost)
}

// revalidate checks the repaired path against the current costmap and
// refreshes cells behind any blocked move that the window missed. It
// reports whether another repair round is needed.
func (p *Planner) revalidate() bool {
	if !p.repairing {
		return false
	}
	path, err := p.extractPath()
	if err != nil {
		return false
	}
	stale := false
	for i := 1; i < len(path); i++ {
		a := p.grid.at(internal.Index(path[i-1].X, path[i-1].Y, p.width))
		b := p.grid.at(internal.Index(path[i].X, path[i].Y, p.width))
		if !p.isCollision(a, b) {
			continue
		}
		ids := []int{a.ID, b.ID}
		if a.X != b.X && a.Y != b.Y {
			ids = append(ids, internal.Index(a.X, b.Y, p.width), internal.Index(b.X, a.Y, p.width))
		}
		for _, id := range ids {
			if p.refresh(id) {
				stale = true
			}
		}
	}
	return stale
}

// finish stores the costmap snapshot, extracts the path and builds the result.
func (p *Planner) finish(ctx context.Context, startTime time.Time) (Result, error) {
	p.lastCostmap = slices.Clone(p.costmap)
	result := Result{Expand: p.expand}

	if p.options.VerifyInvariants {
		if err := p.CheckInvariants(); err != nil {
			return p.fail(ctx, startTime, result, err)
		}
	}

	path, err := p.extractPath()
	switch {
	case errors.Is(err, ErrNoPathFound):
		p.path = nil
		p.logger.Debug("no path found",
			slog.Int("expanded", len(result.Expand)),
			slog.Bool("incremental", p.repairing),
		)
		recordPlanMetrics(ctx, time.Since(startTime), len(result.Expand), outcomeNoPath, p.repairing)
		return result, err
	case err != nil:
		return p.fail(ctx, startTime, result, err)
	}

	p.path = path
	index := max(closestIndex(path, p.robot), 0)
	result.Path = slices.Clone(path[index:])
	result.Cost = p.pathCost(result.Path)
	result.Found = true

	p.logger.Debug("plan complete",
		slog.Int("expanded", len(result.Expand)),
		slog.Int("path_cells", len(result.Path)),
		slog.Float64("cost", result.Cost),
		slog.Bool("incremental", p.repairing),
		slog.Duration("duration", time.Since(startTime)),
	)
	recordPlanMetrics(ctx, time.Since(startTime), len(result.Expand), outcomeFound, p.repairing)
	return result, nil
}

// fail poisons the session after an invariant violation.
func (p *Planner) fail(ctx context.Context, startTime time.Time, result Result, err error) (Result, error) {
	p.poisoned = err
	p.path = nil
	p.logger.Error("planner invariant violated", slog.String("error", err.Error()))
	recordPlanMetrics(ctx, time.Since(startTime), len(result.Expand), outcomeInvariant, p.repairing)
	return result, err
}

// pathCost sums the edge costs along path.
func (p *Planner) pathCost(path []Cell) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		a := p.grid.at(internal.Index(path[i-1].X, path[i-1].Y, p.width))
		b := p.grid.at(internal.Index(path[i].X, path[i].Y, p.width))
		total += p.edgeCost(a, b)
	}
	return total
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
