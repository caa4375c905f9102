package lpastar

import (
	"math"

	"github.com/pdrpinto/lpastar/internal"
)

// neighborOffsets enumerates the 8-connected moves.
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// heuristic is the Euclidean distance between two cells in meters. It never
// exceeds edgeCost along any path, so keys stay consistent.
func (p *Planner) heuristic(a, b *vertex) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y)) * p.options.Resolution
}

// neighbors returns the in-bounds 8-connected vertices around u.
func (p *Planner) neighbors(u *vertex) []*vertex {
	result := make([]*vertex, 0, len(neighborOffsets))
	for _, offset := range neighborOffsets {
		x, y := u.X+offset[0], u.Y+offset[1]
		if !internal.InBounds(x, y, p.width, p.height) {
			continue
		}
		v, _ := p.grid.getOrCreate(x, y)
		result = append(result, v)
	}
	return result
}

// lethal reports whether (x, y) is impassable on the current costmap.
func (p *Planner) lethal(x, y int) bool {
	return p.costmap[internal.Index(x, y, p.width)] >= p.options.LethalCost
}

// isCollision reports whether the move between neighboring cells a and b is
// blocked: either endpoint is lethal, or the move is diagonal and both
// flanking cells are lethal.
func (p *Planner) isCollision(a, b *vertex) bool {
	if p.lethal(a.X, a.Y) || p.lethal(b.X, b.Y) {
		return true
	}
	if a.X != b.X && a.Y != b.Y {
		return p.lethal(a.X, b.Y) && p.lethal(b.X, a.Y)
	}
	return false
}

// edgeCost returns the cost of moving between neighboring cells a and b,
// or inf if the move collides. It is symmetric in a and b.
func (p *Planner) edgeCost(a, b *vertex) float64 {
	if p.isCollision(a, b) {
		return inf
	}
	step := 1.0
	if a.X != b.X && a.Y != b.Y {
		step = math.Sqrt2
	}
	cost := step * p.options.Resolution
	if p.options.CostFactor > 0 {
		mean := (float64(p.costmap[a.ID]) + float64(p.costmap[b.ID])) / 2
		cost *= 1 + p.options.CostFactor*mean/255
	}
	return cost
}
